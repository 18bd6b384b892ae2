package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// options are the persistent flags shared by every command.
type options struct {
	baseURL string
	timeout time.Duration
	group   string
	actor   string
	token   string
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "groupledger-cli",
		Short:         "GroupLedger CLI tool",
		Long:          `A command line interface for interacting with the GroupLedger API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", envOr("GROUPLEDGER_URL", "http://localhost:8080"), "Base URL of the GroupLedger API")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&opts.group, "group", os.Getenv("GROUPLEDGER_GROUP"), "Group to act in (sent as X-Group-ID)")
	rootCmd.PersistentFlags().StringVar(&opts.actor, "actor", os.Getenv("GROUPLEDGER_ACTOR"), "Actor recorded in the audit trail (sent as X-Actor-ID)")
	rootCmd.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("GROUPLEDGER_TOKEN"), "Bearer token when the API requires authentication")

	rootCmd.AddCommand(
		accountsCmd(opts),
		transfersCmd(opts),
		ledgerCmd(opts),
		auditCmd(opts),
		migrateCmd(),
		tokenCmd(),
	)

	return rootCmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
