package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/usapupgrade/certs/internal/certs/domain"
	"github.com/usapupgrade/certs/internal/certs/store"
	"github.com/usapupgrade/certs/pkg/certid"
	"github.com/usapupgrade/certs/pkg/cryptox"
	"github.com/usapupgrade/certs/pkg/slogx"
)

const (
	// MaxIDAttempts bounds how many certificate IDs are tried per issuance.
	MaxIDAttempts = 5

	// DefaultArchiveTimeout bounds the archive upload made after issuance.
	DefaultArchiveTimeout = 5 * time.Second
)

// CertificateArchiver receives every freshly issued certificate. Failures
// are logged and never undo the issuance.
type CertificateArchiver interface {
	ArchiveCertificate(ctx context.Context, c domain.Certificate) error
}

type CertificateService struct {
	Store store.Store
	Clock clockwork.Clock
	IDs   *certid.Generator

	// HashKey keys the integrity digest. Empty means unkeyed.
	HashKey []byte

	// Archiver is optional. ArchiveTimeout defaults to DefaultArchiveTimeout.
	Archiver       CertificateArchiver
	ArchiveTimeout time.Duration
}

// CertificateHash computes the integrity digest over the fields a verifier
// can reproduce from the stored row, in this order: full name, certificate
// ID, completion date (RFC 3339, UTC, seconds), lessons completed, total XP,
// longest streak.
func CertificateHash(key []byte, c domain.Certificate) (string, error) {
	return cryptox.Digest(key,
		c.FullName(),
		c.ID,
		c.CompletionDate.UTC().Format(time.RFC3339),
		strconv.Itoa(c.LessonsCompletedAtCompletion),
		strconv.Itoa(c.TotalXPAtCompletion),
		strconv.Itoa(c.LongestStreakAtCompletion),
	)
}

func (s *CertificateService) ids() *certid.Generator {
	if s.IDs == nil {
		return certid.NewGenerator(s.Clock)
	}
	return s.IDs
}

// IssueCertificate creates the learner's one and only certificate.
//
// Uniqueness per learner is enforced by the store; the early lookup only
// spares the ID allocation in the common case.
func (s *CertificateService) IssueCertificate(ctx context.Context, userID string) (domain.Certificate, error) {
	log := slogx.FromContext(ctx).With(slog.String("user_id", userID))

	// 1. Load the learner.
	l, err := s.Store.Learners().GetLearner(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Certificate{}, ErrLearnerNotFound
		}
		return domain.Certificate{}, fmt.Errorf("load learner: %w", err)
	}

	// 2. Existing certificate wins over everything else.
	if existing, err := s.Store.Certificates().GetCertificateByUserID(ctx, userID); err == nil {
		return domain.Certificate{}, &AlreadyIssuedError{CertificateID: existing.ID, IssuedAt: existing.IssuedAt}
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.Certificate{}, fmt.Errorf("load certificate: %w", err)
	}

	// 3. Eligibility and name.
	if e := CheckEligibility(l); !e.Eligible {
		log.Info("certificate issuance refused", slog.String("reason", string(e.Reason)))
		return domain.Certificate{}, &NotEligibleError{Eligibility: e}
	}
	firstName, lastName, err := ValidateCertificationName(l.CertFirstName, l.CertLastName)
	if err != nil {
		return domain.Certificate{}, err
	}

	now := utcNow(s.Clock).Truncate(time.Second)
	completedAt := now
	if l.CompletedAt != nil {
		completedAt = *l.CompletedAt
	}

	// 4. Snapshot, hash and insert, retrying on ID collisions only.
	for attempt := 1; attempt <= MaxIDAttempts; attempt++ {
		cert := domain.Certificate{
			ID:                           s.ids().NextAt(now),
			UserID:                       userID,
			FirstName:                    firstName,
			LastName:                     lastName,
			IssuedAt:                     now,
			CompletionDate:               completedAt,
			TotalXPAtCompletion:          l.TotalXP,
			LongestStreakAtCompletion:    l.LongestStreak,
			LessonsCompletedAtCompletion: l.CompletedLessons,
		}
		if cert.Hash, err = CertificateHash(s.HashKey, cert); err != nil {
			return domain.Certificate{}, fmt.Errorf("hash certificate: %w", err)
		}

		err = s.Store.Certificates().CreateCertificate(ctx, cert)
		switch {
		case err == nil:
			log.Info("certificate issued",
				slog.String("certificate_id", cert.ID),
				slog.Int("attempt", attempt),
			)
			s.archive(ctx, cert)
			return cert, nil

		case errors.Is(err, store.ErrCertificateIDTaken):
			log.Warn("certificate id collision, regenerating",
				slog.String("certificate_id", cert.ID),
				slog.Int("attempt", attempt),
			)
			continue

		case errors.Is(err, store.ErrUserAlreadyCertified):
			existing, err := s.Store.Certificates().GetCertificateByUserID(ctx, userID)
			if err != nil {
				return domain.Certificate{}, fmt.Errorf("load concurrently issued certificate: %w", err)
			}
			return domain.Certificate{}, &AlreadyIssuedError{CertificateID: existing.ID, IssuedAt: existing.IssuedAt}

		default:
			return domain.Certificate{}, fmt.Errorf("store certificate: %w", err)
		}
	}

	log.Error("certificate id space exhausted", slog.Int("attempts", MaxIDAttempts))
	return domain.Certificate{}, &IDGenerationError{Attempts: MaxIDAttempts}
}

func (s *CertificateService) archive(ctx context.Context, c domain.Certificate) {
	if s.Archiver == nil {
		return
	}

	timeout := s.ArchiveTimeout
	if timeout <= 0 {
		timeout = DefaultArchiveTimeout
	}
	// The certificate is already committed, so a client hanging up must not
	// abort the upload, but a slow bucket must not hold the response either.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	if err := s.Archiver.ArchiveCertificate(ctx, c); err != nil {
		slogx.FromContext(ctx).Warn("certificate archive failed",
			slog.String("certificate_id", c.ID),
			slog.Any("error", err),
		)
	}
}

// GetCertificate returns the learner's certificate.
func (s *CertificateService) GetCertificate(ctx context.Context, userID string) (domain.Certificate, error) {
	c, err := s.Store.Certificates().GetCertificateByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Certificate{}, ErrCertificateNotFound
		}
		return domain.Certificate{}, fmt.Errorf("load certificate: %w", err)
	}
	return c, nil
}

type Requirements struct {
	Eligibility          Eligibility
	CertificationNameSet bool
}

// Met reports whether issuance would currently succeed.
func (r Requirements) Met() bool {
	return r.Eligibility.Eligible && r.CertificationNameSet
}

type CertificateStatus struct {
	HasCertificate bool
	Certificate    *domain.Certificate
	Requirements   Requirements
}

// GetCertificateStatus reports whether the learner holds a certificate and,
// if not, what is still missing.
func (s *CertificateService) GetCertificateStatus(ctx context.Context, userID string) (CertificateStatus, error) {
	l, err := s.Store.Learners().GetLearner(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return CertificateStatus{}, ErrLearnerNotFound
		}
		return CertificateStatus{}, fmt.Errorf("load learner: %w", err)
	}

	_, _, nameErr := ValidateCertificationName(l.CertFirstName, l.CertLastName)
	status := CertificateStatus{
		Requirements: Requirements{
			Eligibility:          CheckEligibility(l),
			CertificationNameSet: nameErr == nil,
		},
	}

	c, err := s.Store.Certificates().GetCertificateByUserID(ctx, userID)
	switch {
	case err == nil:
		status.HasCertificate = true
		status.Certificate = &c
	case !errors.Is(err, store.ErrNotFound):
		return CertificateStatus{}, fmt.Errorf("load certificate: %w", err)
	}
	return status, nil
}
