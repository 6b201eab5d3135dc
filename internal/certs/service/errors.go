package service

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrLearnerNotFound     = errors.New("learner not found")
	ErrCertificateNotFound = errors.New("certificate not found")
	ErrInvalidLesson       = errors.New("invalid lesson id")
	ErrInvalidTier         = errors.New("invalid subscription tier")
)

// NotEligibleError means the learner cannot be certified yet. Recoverable by
// finishing the course or upgrading.
type NotEligibleError struct {
	Eligibility Eligibility
}

func (e *NotEligibleError) Error() string {
	return fmt.Sprintf("not eligible for certification: %s (%d/%d lessons, %s tier)",
		e.Eligibility.Reason, e.Eligibility.CompletedLessons, e.Eligibility.RequiredLessons, e.Eligibility.Tier)
}

// InvalidNameError reports a certification name part that failed validation.
type InvalidNameError struct {
	Field  string // first_name or last_name
	Reason string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ThrottledError reports a certification name change attempted inside the
// cooldown window.
type ThrottledError struct {
	NextAllowedAt time.Time
	DaysRemaining int
}

func (e *ThrottledError) Error() string {
	return fmt.Sprintf("certification name can be changed again in %d day(s), at %s",
		e.DaysRemaining, e.NextAllowedAt.Format(time.RFC3339))
}

// AlreadyIssuedError is terminal for issuance: the learner already holds a
// certificate and should be sent to it.
type AlreadyIssuedError struct {
	CertificateID string
	IssuedAt      time.Time
}

func (e *AlreadyIssuedError) Error() string {
	return fmt.Sprintf("certificate %s already issued at %s", e.CertificateID, e.IssuedAt.Format(time.RFC3339))
}

// IDGenerationError means every generated certificate ID collided. The whole
// issuance may be retried.
type IDGenerationError struct {
	Attempts int
}

func (e *IDGenerationError) Error() string {
	return fmt.Sprintf("could not allocate a unique certificate id after %d attempts", e.Attempts)
}
