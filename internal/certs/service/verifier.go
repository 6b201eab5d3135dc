package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"

	"github.com/usapupgrade/certs/internal/certs/domain"
	"github.com/usapupgrade/certs/internal/certs/store"
	"github.com/usapupgrade/certs/pkg/certid"
	"github.com/usapupgrade/certs/pkg/slogx"
)

type VerificationReason string

const (
	ReasonMalformedID          VerificationReason = "malformed_id"
	ReasonNotFound             VerificationReason = "not_found"
	ReasonNameMismatch         VerificationReason = "name_mismatch"
	ReasonIntegrityCheckFailed VerificationReason = "integrity_check_failed"
)

// Verification is the outcome of a public verification. An invalid
// certificate is a result, not an error.
type Verification struct {
	Valid       bool
	Reason      VerificationReason // empty when valid
	Certificate *domain.Certificate
}

// VerifyCertificate checks an ID and claimed name against the stored record
// and its integrity digest. It never writes. Errors are storage failures only.
func (s *CertificateService) VerifyCertificate(ctx context.Context, certificateID, claimedName string) (Verification, error) {
	log := slogx.FromContext(ctx)

	// 1. Shape check, no storage access. Strings that are not even trying to
	// be a certificate ID cannot be one of ours.
	if !certid.Claims(certificateID) {
		return Verification{Reason: ReasonNotFound}, nil
	}
	if !certid.Valid(certificateID) {
		return Verification{Reason: ReasonMalformedID}, nil
	}

	// 2. Lookup.
	c, err := s.Store.Certificates().GetCertificateByID(ctx, certificateID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Verification{Reason: ReasonNotFound}, nil
		}
		return Verification{}, fmt.Errorf("load certificate: %w", err)
	}

	// 3. Name.
	if !SameName(claimedName, c.FullName()) {
		return Verification{Reason: ReasonNameMismatch}, nil
	}

	// 4. Integrity.
	want, err := CertificateHash(s.HashKey, c)
	if err != nil {
		return Verification{}, fmt.Errorf("hash certificate: %w", err)
	}
	if subtle.ConstantTimeCompare([]byte(want), []byte(c.Hash)) != 1 {
		log.Error("certificate failed integrity check", slog.String("certificate_id", c.ID))
		return Verification{Reason: ReasonIntegrityCheckFailed}, nil
	}

	return Verification{Valid: true, Certificate: &c}, nil
}
