package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/op5no29/subtitle-generator/internal/billing"
	"github.com/op5no29/subtitle-generator/internal/store"
)

func newUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage accounts and inspect usage",
	}
	cmd.AddCommand(newUsersCreateCmd())
	cmd.AddCommand(newUsersStatsCmd())
	cmd.AddCommand(newUsersSubscribeCmd())
	return cmd
}

func newUsersCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <email>",
		Short: "Register a new account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUsersCreate(cmd, args[0])
		},
	}
	cmd.Flags().String("name", "", "Display name")
	cmd.Flags().String("password", "", "Password (prompted when omitted)")
	return cmd
}

func runUsersCreate(cmd *cobra.Command, email string) error {
	name, _ := cmd.Flags().GetString("name")
	password, _ := cmd.Flags().GetString("password")
	if password == "" {
		fmt.Fprint(cmd.OutOrStdout(), "password: ")
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		password = strings.TrimSpace(line)
	}
	if password == "" {
		return errors.New("password must not be empty")
	}

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	u, err := st.CreateUser(context.Background(), email, password, name, "")
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created user %d (%s)\n", u.ID, u.Email)
	return nil
}

func newUsersStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats [email]",
		Short: "Show usage, per feature for one account or totals for all",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			if len(args) == 1 {
				return printUserStats(cmd, st, args[0])
			}
			return printAllStats(cmd, st)
		},
	}
}

func printUserStats(cmd *cobra.Command, st *store.Store, email string) error {
	ctx := context.Background()
	u, err := st.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	stats, err := st.UserStats(ctx, u.ID)
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "no recorded usage for %s\n", email)
		return nil
	}

	rows := make([][]string, 0, len(stats))
	for _, fs := range stats {
		rows = append(rows, []string{
			fs.Feature,
			fmt.Sprintf("%d", fs.Count),
			fmt.Sprintf("%.1f", fs.TotalSizeMB),
			formatDuration(fs.TotalSeconds),
			fmt.Sprintf("%d", fs.TotalChars),
			fmt.Sprintf("%d", fs.Translations),
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"Feature", "Runs", "MB", "Time", "Chars", "Translated"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
	))
	return nil
}

func printAllStats(cmd *cobra.Command, st *store.Store) error {
	overview, err := st.AllUserStats(context.Background())
	if err != nil {
		return err
	}
	if len(overview) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no users")
		return nil
	}

	rows := make([][]string, 0, len(overview))
	for _, ov := range overview {
		last := "never"
		if ov.LastActivity != nil {
			last = ov.LastActivity.Local().Format("2006-01-02 15:04")
		}
		rows = append(rows, []string{
			ov.Email,
			ov.SubscriptionStatus,
			fmt.Sprintf("%d", ov.Operations),
			fmt.Sprintf("%.1f", ov.TotalSizeMB),
			formatDuration(ov.TotalSeconds),
			last,
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"Email", "Plan", "Runs", "MB", "Time", "Last Activity"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
	))
	return nil
}

func newUsersSubscribeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subscribe <email>",
		Short: "Activate a paid plan for an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUsersSubscribe(cmd, args[0])
		},
	}
	cmd.Flags().String("price", "price_standard", "Billing price identifier")
	return cmd
}

func runUsersSubscribe(cmd *cobra.Command, email string) error {
	priceID, _ := cmd.Flags().GetString("price")

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	u, err := st.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}

	var provider billing.Provider = billing.NewStub()
	customerID := u.BillingCustomerID
	if customerID == "" {
		customerID, err = provider.CreateCustomer(ctx, u.Email, u.Name)
		if err != nil {
			return fmt.Errorf("create billing customer: %w", err)
		}
		if err := st.SetBillingCustomer(ctx, u.ID, customerID); err != nil {
			return err
		}
	}
	sub, err := provider.CreateSubscription(ctx, customerID, priceID)
	if err != nil {
		return fmt.Errorf("create subscription: %w", err)
	}
	if err := st.SetSubscription(ctx, u.ID, sub.ID, sub.Status); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "subscription %s is %s for %s\n", sub.ID, sub.Status, u.Email)
	return nil
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	app, err := loadApp(cmd)
	if err != nil {
		return nil, err
	}
	return store.Open(app.Database.Path)
}

func formatDuration(seconds float64) string {
	d := time.Duration(seconds * float64(time.Second)).Round(time.Second)
	return d.String()
}
