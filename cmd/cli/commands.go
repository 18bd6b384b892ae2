package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/iho/groupledger/internal/adapter/http/dto"
	"github.com/iho/groupledger/internal/adapter/http/middleware"
	"github.com/iho/groupledger/internal/infrastructure/auth"
	"github.com/iho/groupledger/internal/infrastructure/postgres"
)

func accountsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Account operations",
	}

	var req dto.OpenAccountRequest
	openCmd := &cobra.Command{
		Use:   "open",
		Short: "Open an account in the group",
		RunE: func(cmd *cobra.Command, args []string) error {
			var account dto.AccountResponse
			if err := newAPIClient(opts).do(cmd.Context(), http.MethodPost, "/api/v1/accounts/", req, &account, nil); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), account)
		},
	}
	openCmd.Flags().StringVar(&req.Name, "name", "", "Account name")
	openCmd.Flags().StringVar(&req.Currency, "currency", "", "ISO 4217 currency code")
	openCmd.Flags().StringVar(&req.OpeningBalance, "opening-balance", "", "Opening balance as a decimal string")
	_ = openCmd.MarkFlagRequired("name")
	_ = openCmd.MarkFlagRequired("currency")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the group's accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			var list dto.ListAccountsResponse
			if err := newAPIClient(opts).do(cmd.Context(), http.MethodGet, "/api/v1/accounts/", nil, &list, nil); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), list)
		},
	}

	getCmd := &cobra.Command{
		Use:   "get ID",
		Short: "Show one account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var account dto.AccountResponse
			if err := newAPIClient(opts).do(cmd.Context(), http.MethodGet, "/api/v1/accounts/"+url.PathEscape(args[0]), nil, &account, nil); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), account)
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an empty account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := newAPIClient(opts).do(cmd.Context(), http.MethodDelete, "/api/v1/accounts/"+url.PathEscape(args[0]), nil, nil, nil); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "account %s deleted\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(openCmd, listCmd, getCmd, deleteCmd)
	return cmd
}

func transfersCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfers",
		Short: "Transfer operations",
	}

	var (
		req            dto.CreateTransferRequest
		targetAmount   string
		idempotencyKey string
	)
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Move money between two accounts of the group",
		RunE: func(cmd *cobra.Command, args []string) error {
			if targetAmount != "" {
				req.TargetAmount = &targetAmount
			}
			var headers map[string]string
			if idempotencyKey != "" {
				headers = map[string]string{middleware.IdempotencyKeyHeader: idempotencyKey}
			}

			var transfer dto.TransferResponse
			if err := newAPIClient(opts).do(cmd.Context(), http.MethodPost, "/api/v1/transfers/", req, &transfer, headers); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), transfer)
		},
	}
	createCmd.Flags().StringVar(&req.SourceAccountID, "from", "", "Source account ID")
	createCmd.Flags().StringVar(&req.TargetAccountID, "to", "", "Target account ID")
	createCmd.Flags().StringVar(&req.SourceAmount, "amount", "", "Amount debited from the source, in its currency")
	createCmd.Flags().StringVar(&targetAmount, "target-amount", "", "Amount credited to the target for cross-currency transfers")
	createCmd.Flags().StringVar(&req.Description, "description", "", "Free text description")
	createCmd.Flags().StringVar(&idempotencyKey, "idempotency-key", "", "Idempotency key so retries do not apply twice")
	_ = createCmd.MarkFlagRequired("from")
	_ = createCmd.MarkFlagRequired("to")
	_ = createCmd.MarkFlagRequired("amount")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the group's transfers, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			var list dto.ListTransfersResponse
			if err := newAPIClient(opts).do(cmd.Context(), http.MethodGet, "/api/v1/transfers/", nil, &list, nil); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), list)
		},
	}

	getCmd := &cobra.Command{
		Use:   "get ID",
		Short: "Show one transfer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var transfer dto.TransferResponse
			if err := newAPIClient(opts).do(cmd.Context(), http.MethodGet, "/api/v1/transfers/"+url.PathEscape(args[0]), nil, &transfer, nil); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), transfer)
		},
	}

	cmd.AddCommand(createCmd, listCmd, getCmd)
	return cmd
}

func ledgerCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	consistencyCmd := &cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		RunE: func(cmd *cobra.Command, args []string) error {
			var report dto.ConsistencyResponse
			err := newAPIClient(opts).do(cmd.Context(), http.MethodGet, "/api/v1/ledger/consistency", nil, &report, nil)

			var apiErr *apiError
			if errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict {
				if jsonErr := json.Unmarshal([]byte(apiErr.Message), &report); jsonErr != nil {
					return err
				}
			} else if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, c := range report.Currencies {
				fmt.Fprintf(out, "%s\tbalances=%s expected=%s difference=%s consistent=%v\n",
					c.Currency, c.Balances, c.Expected, c.Difference, c.Consistent)
			}
			if !report.Consistent {
				return fmt.Errorf("consistency check FAILED for group %s", report.GroupID)
			}
			fmt.Fprintln(out, "Consistency check PASSED")
			return nil
		},
	}

	cmd.AddCommand(consistencyCmd)
	return cmd
}

func auditCmd(opts *options) *cobra.Command {
	var (
		action       string
		resourceType string
		resourceID   string
		limit        int
	)

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "List the group's audit trail",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if action != "" {
				q.Set("action", action)
			}
			if resourceType != "" {
				q.Set("resource_type", resourceType)
			}
			if resourceID != "" {
				q.Set("resource_id", resourceID)
			}
			if limit > 0 {
				q.Set("limit", strconv.Itoa(limit))
			}

			path := "/api/v1/audit-logs"
			if len(q) > 0 {
				path += "?" + q.Encode()
			}

			var result json.RawMessage
			if err := newAPIClient(opts).do(cmd.Context(), http.MethodGet, path, nil, &result, nil); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().StringVar(&action, "action", "", "Filter by action, e.g. transfer.create")
	cmd.Flags().StringVar(&resourceType, "resource-type", "", "Filter by resource type")
	cmd.Flags().StringVar(&resourceID, "resource-id", "", "Filter by resource ID")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of entries")

	return cmd
}

func migrateCmd() *cobra.Command {
	var (
		databaseURL    string
		migrationsPath string
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the PostgreSQL schema",
	}
	cmd.PersistentFlags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection URL")
	cmd.PersistentFlags().StringVar(&migrationsPath, "migrations", envOr("MIGRATIONS_PATH", "migrations"), "Directory holding the migration files")

	migrator := func(cmd *cobra.Command) (*postgres.Migrator, error) {
		if databaseURL == "" {
			return nil, errors.New("--database-url or DATABASE_URL is required")
		}
		logger := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).With().Timestamp().Logger()
		return postgres.NewMigrator(databaseURL, migrationsPath, logger), nil
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := migrator(cmd)
			if err != nil {
				return err
			}
			return m.Up()
		},
	}

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back all migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := migrator(cmd)
			if err != nil {
				return err
			}
			return m.Down()
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := migrator(cmd)
			if err != nil {
				return err
			}
			version, dirty, err := m.Version()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%v\n", version, dirty)
			return nil
		},
	}

	cmd.AddCommand(upCmd, downCmd, versionCmd)
	return cmd
}

func tokenCmd() *cobra.Command {
	var (
		secret string
		actor  string
		group  string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for an actor in a group",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return errors.New("--secret or JWT_SECRET is required")
			}
			token, err := auth.NewJWTManager(secret, ttl).Generate(actor, group)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "Signing secret shared with the server")
	cmd.Flags().StringVar(&actor, "actor-id", "", "Actor recorded in the audit trail")
	cmd.Flags().StringVar(&group, "group-id", "", "Group the token is valid for")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("group-id")

	return cmd
}
