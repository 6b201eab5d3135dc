package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/usapupgrade/certs/internal/certs/domain"
	"github.com/usapupgrade/certs/internal/certs/service"
	"github.com/usapupgrade/certs/pkg/slogx"
)

func tierCmd(e *env) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "tier <user-id> <free|premium|lifetime>",
		Short: "Set a learner's subscription tier",
		Long: `Sets the subscription tier for a learner, creating the learner record
first if they have not used the service yet.

Examples:
  certctl tier 6f1c2a9e-8d7b-4b1e-9a55-0c3e4f2d1b7a premium`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, tier := args[0], domain.Tier(args[1])

			if err := uuid.Validate(userID); err != nil {
				return fmt.Errorf("user id must be a UUID: %w", err)
			}
			if !tier.Valid() {
				return service.ErrInvalidTier
			}

			ctx := slogx.WithContext(cmd.Context(), e.logger(cmd.ErrOrStderr()))

			st, err := e.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			learners := &service.LearnerService{Store: st}
			if err := learners.EnsureLearner(ctx, userID, email); err != nil {
				return err
			}
			if err := learners.SetTier(ctx, userID, tier); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", userID, tier)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email recorded when the learner is created")

	return cmd
}
