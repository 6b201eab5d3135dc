package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/usapupgrade/certs/internal/certs/service"
	"github.com/usapupgrade/certs/pkg/slogx"
)

func auditCmd(e *env) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Recompute every certificate digest once and report mismatches",
		Args:  cobra.NoArgs,
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

			svc := service.NewIntegrityAuditService(st, nil, key, logger, 0)
			report, err := svc.RunOnce(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			} else {
				fmt.Fprintf(out, "checked %d certificates, %d mismatched\n", report.Checked, len(report.Mismatched))
				for _, id := range report.Mismatched {
					fmt.Fprintf(out, "  %s\n", id)
				}
			}

			if len(report.Mismatched) > 0 {
				return errReported
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")

	return cmd
}
