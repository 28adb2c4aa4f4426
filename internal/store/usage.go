package store

import (
	"context"
	"fmt"
	"time"

	"github.com/op5no29/subtitle-generator/internal/types"
)

// LogUsage appends one processing record for a user.
func (s *Store) LogUsage(ctx context.Context, rec types.UsageRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO usage_logs
           (user_id, feature_type, file_name, file_size_mb, processing_time_seconds,
            characters_processed, translation_used, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		nullableID(rec.UserID), rec.Feature, rec.FileName, rec.FileSizeMB, rec.ProcessingSec,
		rec.Characters, boolToInt(rec.TranslationUsed),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert usage log: %w", err)
	}
	return nil
}

// nullableID keeps anonymous runs out of the users foreign key.
func nullableID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}

// FeatureStats aggregates usage of one feature for a user.
type FeatureStats struct {
	Feature      string
	Count        int
	TotalSizeMB  float64
	TotalSeconds float64
	TotalChars   int64
	Translations int
}

// UserStats returns the per-feature aggregates for a single user.
func (s *Store) UserStats(ctx context.Context, userID int64) ([]FeatureStats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT feature_type,
                COUNT(*),
                COALESCE(SUM(file_size_mb), 0),
                COALESCE(SUM(processing_time_seconds), 0),
                COALESCE(SUM(characters_processed), 0),
                COALESCE(SUM(translation_used), 0)
         FROM usage_logs
         WHERE user_id = ?
         GROUP BY feature_type
         ORDER BY feature_type`, userID)
	if err != nil {
		return nil, fmt.Errorf("query user stats: %w", err)
	}
	defer rows.Close()

	var out []FeatureStats
	for rows.Next() {
		var fs FeatureStats
		if err := rows.Scan(&fs.Feature, &fs.Count, &fs.TotalSizeMB, &fs.TotalSeconds, &fs.TotalChars, &fs.Translations); err != nil {
			return nil, fmt.Errorf("scan user stats: %w", err)
		}
		out = append(out, fs)
	}
	return out, rows.Err()
}

// UserOverview is one row of the cross-user usage report.
type UserOverview struct {
	Email              string
	Name               string
	SubscriptionStatus string
	Operations         int
	TotalSizeMB        float64
	TotalSeconds       float64
	LastActivity       *time.Time
}

// AllUserStats returns an overview row per non-admin user, including
// users with no recorded usage.
func (s *Store) AllUserStats(ctx context.Context) ([]UserOverview, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT u.email, u.name, u.subscription_status,
                COUNT(l.id),
                COALESCE(SUM(l.file_size_mb), 0),
                COALESCE(SUM(l.processing_time_seconds), 0),
                MAX(l.created_at)
         FROM users u
         LEFT JOIN usage_logs l ON l.user_id = u.id
         WHERE u.is_admin = 0
         GROUP BY u.id
         ORDER BY u.email`)
	if err != nil {
		return nil, fmt.Errorf("query all user stats: %w", err)
	}
	defer rows.Close()

	var out []UserOverview
	for rows.Next() {
		var (
			ov   UserOverview
			last *string
		)
		if err := rows.Scan(&ov.Email, &ov.Name, &ov.SubscriptionStatus, &ov.Operations, &ov.TotalSizeMB, &ov.TotalSeconds, &last); err != nil {
			return nil, fmt.Errorf("scan user overview: %w", err)
		}
		if last != nil {
			if t, err := time.Parse(time.RFC3339Nano, *last); err == nil {
				ov.LastActivity = &t
			}
		}
		out = append(out, ov)
	}
	return out, rows.Err()
}
