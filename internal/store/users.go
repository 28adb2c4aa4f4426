package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is a registered account row.
type User struct {
	ID                 int64
	Email              string
	Name               string
	BillingCustomerID  string
	SubscriptionStatus string
	SubscriptionID     string
	IsAdmin            bool
	CreatedAt          time.Time
	LastLogin          *time.Time
}

// CreateUser registers a new account with a bcrypt-hashed password.
// billingCustomerID may be empty when no billing provider is configured.
func (s *Store) CreateUser(ctx context.Context, email, password, name, billingCustomerID string) (*User, error) {
	var existing int64
	err := s.db.QueryRowContext(ctx, "SELECT id FROM users WHERE email = ?", email).Scan(&existing)
	switch {
	case err == nil:
		return nil, ErrEmailTaken
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (email, password_hash, name, billing_customer_id, created_at)
         VALUES (?, ?, ?, ?, ?)`,
		email, string(hash), name, nullableString(billingCustomerID), now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetUserByID(ctx, id)
}

// Authenticate verifies credentials and records the login time. Returns
// ErrInvalidCredentials for unknown email or wrong password alike.
func (s *Store) Authenticate(ctx context.Context, email, password string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+`, password_hash FROM users WHERE email = ?`, email)

	var u User
	var hash string
	if err := scanUserWith(row, &u, &hash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if _, err := s.db.ExecContext(ctx,
		"UPDATE users SET last_login = ? WHERE id = ?", now.Format(time.RFC3339Nano), u.ID); err != nil {
		return nil, fmt.Errorf("update last login: %w", err)
	}
	u.LastLogin = &now
	return &u, nil
}

// GetUserByID fetches a user row.
func (s *Store) GetUserByID(ctx context.Context, id int64) (*User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	var u User
	if err := scanUser(row, &u); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &u, nil
}

// GetUserByEmail fetches a user row by email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	var u User
	if err := scanUser(row, &u); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &u, nil
}

// SetSubscription records the billing provider's subscription state.
func (s *Store) SetSubscription(ctx context.Context, userID int64, subscriptionID, status string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET subscription_id = ?, subscription_status = ? WHERE id = ?",
		subscriptionID, status, userID)
	if err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SetBillingCustomer records the billing provider's customer id.
func (s *Store) SetBillingCustomer(ctx context.Context, userID int64, customerID string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET billing_customer_id = ? WHERE id = ?", customerID, userID)
	if err != nil {
		return fmt.Errorf("update billing customer: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SetAdmin flips the admin flag.
func (s *Store) SetAdmin(ctx context.Context, userID int64, isAdmin bool) error {
	res, err := s.db.ExecContext(ctx, "UPDATE users SET is_admin = ? WHERE id = ?", boolToInt(isAdmin), userID)
	if err != nil {
		return fmt.Errorf("update admin flag: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

const userColumns = `id, email, name, billing_customer_id, subscription_status, subscription_id, is_admin, created_at, last_login`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner, u *User) error {
	return scanInto(row, u, nil)
}

func scanUserWith(row rowScanner, u *User, hash *string) error {
	return scanInto(row, u, hash)
}

func scanInto(row rowScanner, u *User, hash *string) error {
	var (
		billingID sql.NullString
		subID     sql.NullString
		isAdmin   int
		createdAt string
		lastLogin sql.NullString
	)
	dest := []any{&u.ID, &u.Email, &u.Name, &billingID, &u.SubscriptionStatus, &subID, &isAdmin, &createdAt, &lastLogin}
	if hash != nil {
		dest = append(dest, hash)
	}
	if err := row.Scan(dest...); err != nil {
		return err
	}
	u.BillingCustomerID = billingID.String
	u.SubscriptionID = subID.String
	u.IsAdmin = isAdmin != 0
	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		u.CreatedAt = t
	}
	if lastLogin.Valid {
		if t, err := time.Parse(time.RFC3339Nano, lastLogin.String); err == nil {
			u.LastLogin = &t
		}
	}
	return nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
