package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/usapupgrade/certs/internal/certs/service"
	"github.com/usapupgrade/certs/pkg/slogx"
)

func verifyCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <certificate-id> <full name>",
		Short: "Check a certificate ID against the name printed on it",
		Long: `Runs the same check as the public verification endpoint: ID format,
existence, name match and integrity digest.

Examples:
  certctl verify UC-2025-07-31-12-00-00-042 Juan Dela Cruz
  certctl verify UC-2025-07-31-12-00-00-042 "juan dela cruz"`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := e.logger(cmd.ErrOrStderr())
			ctx := slogx.WithContext(cmd.Context(), logger)

			key, err := e.hashKey(logger)
			if err != nil {
				return err
			}

			st, err := e.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			svc := &service.CertificateService{Store: st, HashKey: key}
			v, err := svc.VerifyCertificate(ctx, args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !v.Valid {
				fmt.Fprintf(out, "INVALID  %s\n", v.Reason)
				return errReported
			}

			c := v.Certificate
			fmt.Fprintf(out, "VALID  %s\n", c.ID)
			fmt.Fprintf(out, "  Name:      %s\n", c.FullName())
			fmt.Fprintf(out, "  Issued:    %s\n", c.IssuedAt.Format(time.RFC3339))
			fmt.Fprintf(out, "  Completed: %s\n", c.CompletionDate.Format(time.DateOnly))
			fmt.Fprintf(out, "  Lessons:   %d  XP: %d  Longest streak: %d\n",
				c.LessonsCompletedAtCompletion, c.TotalXPAtCompletion, c.LongestStreakAtCompletion)
			return nil
		},
	}
}
