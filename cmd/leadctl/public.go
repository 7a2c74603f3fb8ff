package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/skillxl/backend/internal/dashboard"
	"github.com/skillxl/backend/internal/model"
)

func formsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "forms",
		Short: "List the public forms and their fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			forms, err := opts.client().Forms(ctx)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tTYPE\tTITLE\tFIELDS")
			for _, f := range forms {
				fields := f.Fields
				if f.InterestField != "" {
					fields = append(append([]string(nil), fields...), f.InterestField)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", f.Key, f.FormType, f.Title, strings.Join(fields, ","))
			}
			return tw.Flush()
		},
	}
}

func submitCmd(opts *globalOptions) *cobra.Command {
	var values map[string]string
	cmd := &cobra.Command{
		Use:   "submit FORM",
		Short: "Submit a public form",
		Example: `  leadctl submit contact --set name=A --set email=a@example.com --set message=hi
  leadctl submit workshop --set name=B --set email=b@example.com --set "workshopType=AI/ML Workshop"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form, ok := model.LookupForm(args[0])
			if !ok {
				return fmt.Errorf("unknown form %q (see leadctl forms)", args[0])
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			session := dashboard.NewFormSession(form, opts.client())
			for k, v := range values {
				session.Set(k, v)
			}
			err := session.Submit(ctx)
			fmt.Fprintln(cmd.OutOrStdout(), session.Message())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "id: %s\n", session.SubmissionID())
			return nil
		},
	}
	cmd.Flags().StringToStringVar(&values, "set", nil, "Field value as name=value (repeatable)")
	return cmd
}
