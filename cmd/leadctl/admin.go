package main

import (
	"bufio"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/skillxl/backend/internal/dashboard"
	"github.com/skillxl/backend/pkg/client"
)

func loginCmd(opts *globalOptions) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in as an admin and print the session token",
		Long:  "Reads the password from LEADCTL_PASSWORD or the first line of stdin.",
		RunE: func(cmd *cobra.Command, args []string) error {
			password := os.Getenv("LEADCTL_PASSWORD")
			if password == "" {
				line, err := readLine(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read password: %w", err)
				}
				password = line
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			sess, err := opts.client().Login(ctx, email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "export LEADCTL_TOKEN=%s\n", sess.Token)
			fmt.Fprintf(cmd.ErrOrStderr(), "logged in as %s until %s\n", sess.Email, sess.ExpiresAt.Local().Format(time.RFC1123))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Admin email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func listCmd(opts *globalOptions) *cobra.Command {
	var lo client.ListOptions
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List submissions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			subs, err := opts.client().List(ctx, lo)
			if err != nil {
				return err
			}
			return printSubmissions(cmd.OutOrStdout(), subs)
		},
	}
	cmd.Flags().StringVar(&lo.Status, "status", "", "Filter by status (new, contacted, converted, closed)")
	cmd.Flags().StringVar(&lo.FormType, "form-type", "", "Filter by form type (contact, service-request)")
	cmd.Flags().IntVar(&lo.Limit, "limit", 0, "Maximum rows")
	cmd.Flags().IntVar(&lo.Offset, "offset", 0, "Rows to skip")
	return cmd
}

func statusCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status ID STATUS",
		Short: "Change the status of a submission",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			d := dashboard.New(opts.client(), 0, nil)
			if err := d.ChangeStatus(ctx, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", args[0], args[1])
			return nil
		},
	}
}

func replyCmd(opts *globalOptions) *cobra.Command {
	var (
		subject     string
		message     string
		attachments []string
	)
	cmd := &cobra.Command{
		Use:   "reply ID",
		Short: "Email a lead and mark it contacted",
		Long:  `The message is plain text; line breaks are kept. Use --message - to read it from stdin.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if message == "-" {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				message = string(b)
			}
			files, err := readAttachments(attachments)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			d := dashboard.New(opts.client(), 0, nil)
			if err := d.Refresh(ctx); err != nil {
				return err
			}
			lead, ok := d.Select(args[0])
			if !ok {
				return fmt.Errorf("submission %s not found", args[0])
			}
			d.SetCompose(dashboard.Compose{Subject: subject, Message: message, Attachments: files})
			if err := d.SendReply(ctx); err != nil {
				if msg := d.ErrorMessage(); msg != "" {
					return errors.New(msg)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "reply sent to %s, %s is now contacted\n", lead.Email, lead.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "Email subject")
	cmd.Flags().StringVar(&message, "message", "", "Email body (plain text), or - for stdin")
	cmd.Flags().StringSliceVar(&attachments, "attach", nil, "File to attach (repeatable)")
	_ = cmd.MarkFlagRequired("subject")
	_ = cmd.MarkFlagRequired("message")
	return cmd
}

func watchCmd(opts *globalOptions) *cobra.Command {
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll for new submissions and print them as they arrive",
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval <= 0 {
				return fmt.Errorf("--interval must be positive, got %s", interval)
			}
			d := dashboard.New(opts.client(), interval, nil)
			seen := make(map[string]bool)
			first := true

			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
				err := d.Refresh(ctx)
				cancel()
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "refresh failed: %v\n", err)
				} else {
					var fresh []client.Submission
					for _, s := range d.Submissions() {
						if !seen[s.ID] {
							seen[s.ID] = true
							fresh = append(fresh, s)
						}
					}
					if first || len(fresh) > 0 {
						if err := printSubmissions(cmd.OutOrStdout(), fresh); err != nil {
							return err
						}
					}
					first = false
				}

				select {
				case <-cmd.Context().Done():
					return nil
				case <-ticker.C:
				}
			}
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", dashboard.DefaultPollInterval, "Polling interval")
	return cmd
}

func printSubmissions(w io.Writer, subs []client.Submission) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tSTATUS\tTYPE\tNAME\tEMAIL\tINTEREST")
	for _, s := range subs {
		interest := s.ServiceInterest
		if interest == "" {
			interest = s.RequestCategory
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			s.ID, s.CreatedAt.Local().Format("2006-01-02 15:04"), s.Status, s.FormType, s.Name, s.Email, interest)
	}
	return tw.Flush()
}

func readAttachments(paths []string) ([]client.Attachment, error) {
	out := make([]client.Attachment, 0, len(paths))
	for _, p := range paths {
		b, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read attachment: %w", err)
		}
		out = append(out, client.Attachment{Name: filepath.Base(p), Content: base64.StdEncoding.EncodeToString(b)})
	}
	return out, nil
}

// readLine returns the first line of r without waiting for EOF.
func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
