package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"
	"github.com/usapupgrade/certs/internal/certs/domain"
	"github.com/usapupgrade/certs/internal/certs/store"
	"github.com/usapupgrade/certs/pkg/slogx"
)

// LearnerService mirrors learners owned by the identity provider into the
// local store.
type LearnerService struct {
	Store store.Store
	Clock clockwork.Clock
}

// EnsureLearner creates a free-tier learner on first sight.
func (s *LearnerService) EnsureLearner(ctx context.Context, userID, email string) error {
	now := utcNow(s.Clock)

	created, err := s.Store.Learners().EnsureLearner(ctx, domain.Learner{
		ID:        userID,
		Email:     email,
		Tier:      domain.TierFree,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return fmt.Errorf("ensure learner: %w", err)
	}
	if created {
		slogx.FromContext(ctx).Info("learner provisioned", slog.String("user_id", userID))
	}
	return nil
}

// SetTier records a subscription change, normally driven by the payment
// integrations.
func (s *LearnerService) SetTier(ctx context.Context, userID string, tier domain.Tier) error {
	if !tier.Valid() {
		return ErrInvalidTier
	}

	err := s.Store.Learners().UpdateSubscriptionTier(ctx, userID, tier, utcNow(s.Clock))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrLearnerNotFound
		}
		return fmt.Errorf("update tier: %w", err)
	}

	slogx.FromContext(ctx).Info("subscription tier changed",
		slog.String("user_id", userID),
		slog.String("tier", string(tier)),
	)
	return nil
}
