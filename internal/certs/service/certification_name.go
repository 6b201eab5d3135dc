package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/usapupgrade/certs/internal/certs/domain"
	"github.com/usapupgrade/certs/internal/certs/store"
	"github.com/usapupgrade/certs/pkg/slogx"
)

// maxNameChangeAttempts bounds the compare-and-swap loop. A lost race puts
// the learner inside the cooldown, so the second pass always settles.
const maxNameChangeAttempts = 3

type CertificationNameService struct {
	Store store.Store
	Clock clockwork.Clock
}

// nameChangeWindow works out whether a change is allowed at now given the
// last change time. Days are fixed 24h spans and round up.
func nameChangeWindow(updatedAt *time.Time, now time.Time) (bool, time.Time, int) {
	if updatedAt == nil {
		return true, time.Time{}, 0
	}

	next := updatedAt.Add(domain.NameChangeCooldown)
	remaining := next.Sub(now)
	if remaining <= 0 {
		return true, next, 0
	}

	days := int(remaining / (24 * time.Hour))
	if remaining%(24*time.Hour) != 0 {
		days++
	}
	return false, next, days
}

func certificationNameOf(l domain.Learner, now time.Time) domain.CertificationName {
	canChange, next, days := nameChangeWindow(l.CertNameUpdatedAt, now)

	cn := domain.CertificationName{
		FirstName:     l.CertFirstName,
		LastName:      l.CertLastName,
		UpdatedAt:     l.CertNameUpdatedAt,
		CanChange:     canChange,
		DaysRemaining: days,
	}
	if l.CertNameUpdatedAt != nil {
		cn.NextAllowedAt = &next
	}
	return cn
}

// GetCertificationName returns the learner's certification name and whether
// it may be changed right now.
func (s *CertificationNameService) GetCertificationName(ctx context.Context, userID string) (domain.CertificationName, error) {
	l, err := s.Store.Learners().GetLearner(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.CertificationName{}, ErrLearnerNotFound
		}
		return domain.CertificationName{}, fmt.Errorf("load learner: %w", err)
	}
	return certificationNameOf(l, utcNow(s.Clock)), nil
}

// ChangeCertificationName sets the name printed on future certificates. At
// most one change per 30 days; the first change is always allowed.
// Resubmitting the current name is a no-op and does not restart the cooldown.
func (s *CertificationNameService) ChangeCertificationName(
	ctx context.Context,
	userID, firstName, lastName string,
) (domain.CertificationName, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate input before touching storage.
	firstName, lastName, err := ValidateCertificationName(firstName, lastName)
	if err != nil {
		return domain.CertificationName{}, err
	}

	for range maxNameChangeAttempts {
		now := utcNow(s.Clock)

		// 2. Load current state.
		l, err := s.Store.Learners().GetLearner(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.CertificationName{}, ErrLearnerNotFound
			}
			return domain.CertificationName{}, fmt.Errorf("load learner: %w", err)
		}

		if l.CertFirstName == firstName && l.CertLastName == lastName {
			return certificationNameOf(l, now), nil
		}

		// 3. Enforce the cooldown.
		canChange, next, days := nameChangeWindow(l.CertNameUpdatedAt, now)
		if !canChange {
			log.Info("certification name change throttled",
				slog.String("user_id", userID),
				slog.Time("next_allowed_at", next),
				slog.Int("days_remaining", days),
			)
			return domain.CertificationName{}, &ThrottledError{NextAllowedAt: next, DaysRemaining: days}
		}

		// 4. Conditional write; losing means someone else changed it first.
		ok, err := s.Store.Learners().UpdateCertificationName(ctx, userID, firstName, lastName, now, l.CertNameVersion)
		if err != nil {
			return domain.CertificationName{}, fmt.Errorf("update certification name: %w", err)
		}
		if !ok {
			log.Debug("certification name changed concurrently, re-evaluating", slog.String("user_id", userID))
			continue
		}

		log.Info("certification name changed", slog.String("user_id", userID))

		l.CertFirstName, l.CertLastName = firstName, lastName
		l.CertNameUpdatedAt = &now
		l.CertNameVersion++
		return certificationNameOf(l, now), nil
	}

	return domain.CertificationName{}, fmt.Errorf("certification name for %s kept changing underneath us", userID)
}
