package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/usapupgrade/certs/internal/certs/domain"
	"github.com/usapupgrade/certs/internal/certs/store"
)

type learnersRepo struct {
	db dbtx
}

const selectLearner = `
SELECT id, email, tier, total_xp, current_streak, longest_streak, last_active_on,
       cert_first_name, cert_last_name, cert_name_updated_at, cert_name_version,
       created_at, updated_at
FROM learners
WHERE id = ?`

func (r *learnersRepo) GetLearner(ctx context.Context, id string) (domain.Learner, error) {
	var (
		l             domain.Learner
		tier          string
		lastActiveOn  sql.NullTime
		nameUpdatedAt sql.NullTime
	)

	err := r.db.QueryRowContext(ctx, selectLearner, id).Scan(
		&l.ID, &l.Email, &tier, &l.TotalXP, &l.CurrentStreak, &l.LongestStreak, &lastActiveOn,
		&l.CertFirstName, &l.CertLastName, &nameUpdatedAt, &l.CertNameVersion,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return domain.Learner{}, mapNotFound(err)
	}

	l.Tier = domain.Tier(tier)
	l.LastActiveOn = mapNullTimePtr(lastActiveOn)
	l.CertNameUpdatedAt = mapNullTimePtr(nameUpdatedAt)
	l.CreatedAt = l.CreatedAt.UTC()
	l.UpdatedAt = l.UpdatedAt.UTC()

	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM lesson_progress WHERE user_id = ?`, id,
	).Scan(&l.CompletedLessons); err != nil {
		return domain.Learner{}, err
	}

	// Course completion is the moment the last required lesson landed.
	if l.CompletedLessons >= domain.RequiredLessons {
		var at time.Time
		err := r.db.QueryRowContext(ctx, `
			SELECT completed_at FROM lesson_progress
			WHERE user_id = ?
			ORDER BY completed_at, lesson_id
			LIMIT 1 OFFSET ?`, id, domain.RequiredLessons-1,
		).Scan(&at)
		if err != nil {
			return domain.Learner{}, err
		}
		at = at.UTC()
		l.CompletedAt = &at
	}

	return l, nil
}

func (r *learnersRepo) EnsureLearner(ctx context.Context, l domain.Learner) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO learners (id, email, tier, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING`,
		l.ID, l.Email, string(l.Tier), l.CreatedAt.UTC(), l.UpdatedAt.UTC(),
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

func (r *learnersRepo) UpdateSubscriptionTier(ctx context.Context, userID string, tier domain.Tier, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE learners SET tier = ?, updated_at = ? WHERE id = ?`,
		string(tier), at.UTC(), userID,
	)
	return requireRow(res, err)
}

func (r *learnersRepo) UpdateCertificationName(
	ctx context.Context,
	userID, firstName, lastName string,
	at time.Time,
	expectedVersion int64,
) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE learners
		SET cert_first_name = ?, cert_last_name = ?, cert_name_updated_at = ?,
		    cert_name_version = cert_name_version + 1, updated_at = ?
		WHERE id = ? AND cert_name_version = ?`,
		firstName, lastName, at.UTC(), at.UTC(), userID, expectedVersion,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

func (r *learnersRepo) RecordLessonCompletion(ctx context.Context, c domain.LessonCompletion) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO lesson_progress (user_id, lesson_id, completed_at, xp_awarded)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, lesson_id) DO NOTHING`,
		c.UserID, c.LessonID, c.CompletedAt.UTC(), c.XPAwarded,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// LockLearner relies on SQLite taking the database write lock on the first
// write of a transaction.
func (r *learnersRepo) LockLearner(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE learners SET updated_at = updated_at WHERE id = ?`, id)
	return requireRow(res, err)
}

func (r *learnersRepo) UpdateProgressStats(ctx context.Context, l domain.Learner) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE learners
		SET total_xp = ?, current_streak = ?, longest_streak = ?, last_active_on = ?, updated_at = ?
		WHERE id = ?`,
		l.TotalXP, l.CurrentStreak, l.LongestStreak, mapOptionalTime(l.LastActiveOn), l.UpdatedAt.UTC(), l.ID,
	)
	return requireRow(res, err)
}

// requireRow turns a zero-row update into store.ErrNotFound.
func requireRow(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

