package store

import (
	"context"
	"errors"
	"time"

	"github.com/usapupgrade/certs/internal/certs/domain"
)

var (
	ErrNotFound = errors.New("store: not found")

	// ErrCertificateIDTaken reports a certificate_id collision on insert.
	ErrCertificateIDTaken = errors.New("store: certificate id taken")

	// ErrUserAlreadyCertified reports that the user already holds a
	// certificate. The existing row is left untouched.
	ErrUserAlreadyCertified = errors.New("store: user already certified")
)

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement this. Sub-repositories are reached through accessors so a Tx can
// hand out the same repos bound to its transaction.
type Store interface {
	Learners() Learners
	Certificates() Certificates

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Learners interface {
	// GetLearner returns the learner with lesson counts and the completion
	// moment derived from lesson_progress.
	GetLearner(ctx context.Context, id string) (domain.Learner, error)

	// EnsureLearner inserts l unless a learner with the same ID exists.
	// Reports whether a row was created.
	EnsureLearner(ctx context.Context, l domain.Learner) (bool, error)

	UpdateSubscriptionTier(ctx context.Context, userID string, tier domain.Tier, at time.Time) error

	// UpdateCertificationName sets both name parts and the change timestamp
	// only if cert_name_version still equals expectedVersion, bumping the
	// version. Reports false when another change won the race.
	UpdateCertificationName(ctx context.Context, userID, firstName, lastName string, at time.Time, expectedVersion int64) (bool, error)

	// RecordLessonCompletion inserts a progress row. Reports false when the
	// lesson was already completed.
	RecordLessonCompletion(ctx context.Context, c domain.LessonCompletion) (bool, error)

	// LockLearner takes a write lock on the learner row for the rest of the
	// enclosing transaction. Returns ErrNotFound for unknown learners.
	LockLearner(ctx context.Context, id string) error

	UpdateProgressStats(ctx context.Context, l domain.Learner) error
}

// Certificates has no update or delete: a certificate is written once.
type Certificates interface {
	// CreateCertificate inserts c. Returns ErrUserAlreadyCertified or
	// ErrCertificateIDTaken on the respective unique violations.
	CreateCertificate(ctx context.Context, c domain.Certificate) error

	GetCertificateByID(ctx context.Context, id string) (domain.Certificate, error)
	GetCertificateByUserID(ctx context.Context, userID string) (domain.Certificate, error)

	// ListCertificates pages through certificates in ID order, starting
	// after afterID ("" for the first page).
	ListCertificates(ctx context.Context, afterID string, limit int) ([]domain.Certificate, error)
}
