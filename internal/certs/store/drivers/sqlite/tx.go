package sqlite

import (
	"context"
	"database/sql"

	"github.com/usapupgrade/certs/internal/certs/store"
)

type txStore struct {
	tx *sql.Tx
}

func newTx(tx *sql.Tx) *txStore {
	return &txStore{tx: tx}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Close() error                   { return nil }
func (t *txStore) Ping(ctx context.Context) error { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	// Nested tx not supported.
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) Learners() store.Learners         { return &learnersRepo{db: t.tx} }
func (t *txStore) Certificates() store.Certificates { return &certificatesRepo{db: t.tx} }

// ApplyMigrations is a no-op inside a transaction; run it on the Store.
func (t *txStore) ApplyMigrations() error { return nil }
