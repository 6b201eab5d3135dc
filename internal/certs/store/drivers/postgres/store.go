// Package postgres implements the store against Postgres (Supabase in
// production) through gorm.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/usapupgrade/certs/internal/certs/store"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation = "23505"

type Store struct {
	db *gorm.DB
}

// NewStore connects using a libpq-style URL or DSN.
func NewStore(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		NowFunc:                func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &txStore{db: tx}, nil
}

func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&txStore{db: tx, managed: true})
	})
}

func (s *Store) Learners() store.Learners         { return &learnersRepo{db: s.db} }
func (s *Store) Certificates() store.Certificates { return &certificatesRepo{db: s.db} }

type txStore struct {
	db *gorm.DB

	// managed transactions are committed by gorm.Transaction.
	managed bool
}

func (t *txStore) Commit() error {
	if t.managed {
		return nil
	}
	return t.db.Commit().Error
}

func (t *txStore) Rollback() error {
	if t.managed {
		return nil
	}
	return t.db.Rollback().Error
}

func (t *txStore) Close() error                   { return nil }
func (t *txStore) Ping(ctx context.Context) error { return nil }
func (t *txStore) ApplyMigrations() error         { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	return nil, gorm.ErrInvalidTransaction
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return gorm.ErrInvalidTransaction
}

func (t *txStore) Learners() store.Learners         { return &learnersRepo{db: t.db} }
func (t *txStore) Certificates() store.Certificates { return &certificatesRepo{db: t.db} }

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	return err
}

// constraintViolated returns the name of the unique constraint err tripped,
// or "" when err is something else.
func constraintViolated(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return pgErr.ConstraintName
	}
	return ""
}
