package sqlite

import (
	"context"
	"database/sql"

	"github.com/usapupgrade/certs/internal/certs/domain"
	"github.com/usapupgrade/certs/internal/certs/store"
)

type certificatesRepo struct {
	db dbtx
}

const certificateColumns = `
certificate_id, user_id, first_name, last_name, issued_at, completion_date,
total_xp_at_completion, longest_streak_at_completion, lessons_completed_at_completion,
certificate_hash`

func (r *certificatesRepo) CreateCertificate(ctx context.Context, c domain.Certificate) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO certificates (`+certificateColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.FirstName, c.LastName, c.IssuedAt.UTC(), c.CompletionDate.UTC(),
		c.TotalXPAtCompletion, c.LongestStreakAtCompletion, c.LessonsCompletedAtCompletion,
		c.Hash,
	)
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err, "certificates.user_id"):
		return store.ErrUserAlreadyCertified
	case isUniqueViolation(err, "certificates.certificate_id"):
		return store.ErrCertificateIDTaken
	default:
		return err
	}
}

func (r *certificatesRepo) GetCertificateByID(ctx context.Context, id string) (domain.Certificate, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+certificateColumns+` FROM certificates WHERE certificate_id = ?`, id)
	return scanCertificate(row)
}

func (r *certificatesRepo) GetCertificateByUserID(ctx context.Context, userID string) (domain.Certificate, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+certificateColumns+` FROM certificates WHERE user_id = ?`, userID)
	return scanCertificate(row)
}

func (r *certificatesRepo) ListCertificates(ctx context.Context, afterID string, limit int) ([]domain.Certificate, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+certificateColumns+` FROM certificates
		WHERE certificate_id > ?
		ORDER BY certificate_id
		LIMIT ?`, afterID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Certificate
	for rows.Next() {
		c, err := scanCertificate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCertificate(row scanner) (domain.Certificate, error) {
	var c domain.Certificate
	err := row.Scan(
		&c.ID, &c.UserID, &c.FirstName, &c.LastName, &c.IssuedAt, &c.CompletionDate,
		&c.TotalXPAtCompletion, &c.LongestStreakAtCompletion, &c.LessonsCompletedAtCompletion,
		&c.Hash,
	)
	if err != nil {
		return domain.Certificate{}, mapNotFound(err)
	}
	c.IssuedAt = c.IssuedAt.UTC()
	c.CompletionDate = c.CompletionDate.UTC()
	return c, nil
}

var _ scanner = (*sql.Row)(nil)
