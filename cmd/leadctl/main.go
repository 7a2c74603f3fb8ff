// Command leadctl submits public forms and works the admin lead list from a
// terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/skillxl/backend/internal/logging"
	"github.com/skillxl/backend/pkg/client"
)

type globalOptions struct {
	apiURL   string
	token    string
	timeout  time.Duration
	logLevel string
}

func (o *globalOptions) client() *client.Client {
	return client.New(o.apiURL, client.WithToken(o.token))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "leadctl",
		Short: "Work SkillXL leads from the command line",
		Long: `leadctl talks to the SkillXL API.

Public:
  forms, submit

Admin (needs a session token from "leadctl login" in LEADCTL_TOKEN or --token):
  list, status, reply, watch`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(opts.logLevel)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.apiURL, "api", envOr("LEADCTL_API", "http://localhost:5000"), "API base URL")
	cmd.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("LEADCTL_TOKEN"), "Admin session token")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 60*time.Second, "Per-command timeout")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "WARN", "Log level (DEBUG, INFO, WARN, ERROR)")

	cmd.AddCommand(
		formsCmd(opts),
		submitCmd(opts),
		loginCmd(opts),
		listCmd(opts),
		statusCmd(opts),
		replyCmd(opts),
		watchCmd(opts),
	)
	return cmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
