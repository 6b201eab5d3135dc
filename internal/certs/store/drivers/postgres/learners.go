package postgres

import (
	"context"
	"time"

	"github.com/usapupgrade/certs/internal/certs/domain"
	"github.com/usapupgrade/certs/internal/certs/store"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type learnersRepo struct {
	db *gorm.DB
}

func (r *learnersRepo) GetLearner(ctx context.Context, id string) (domain.Learner, error) {
	db := r.db.WithContext(ctx)

	var m learnerModel
	if err := db.Take(&m, "id = ?", id).Error; err != nil {
		return domain.Learner{}, mapNotFound(err)
	}
	l := m.toDomain()

	var completed int64
	if err := db.Model(&lessonProgressModel{}).Where("user_id = ?", id).Count(&completed).Error; err != nil {
		return domain.Learner{}, err
	}
	l.CompletedLessons = int(completed)

	// Course completion is the moment the last required lesson landed.
	if l.CompletedLessons >= domain.RequiredLessons {
		var p lessonProgressModel
		err := db.Where("user_id = ?", id).
			Order("completed_at, lesson_id").
			Offset(domain.RequiredLessons - 1).
			Take(&p).Error
		if err != nil {
			return domain.Learner{}, err
		}
		at := p.CompletedAt.UTC()
		l.CompletedAt = &at
	}

	return l, nil
}

func (r *learnersRepo) EnsureLearner(ctx context.Context, l domain.Learner) (bool, error) {
	m := learnerModel{
		ID:        l.ID,
		Email:     l.Email,
		Tier:      string(l.Tier),
		CreatedAt: l.CreatedAt.UTC(),
		UpdatedAt: l.UpdatedAt.UTC(),
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(&m)
	return res.RowsAffected == 1, res.Error
}

func (r *learnersRepo) UpdateSubscriptionTier(ctx context.Context, userID string, tier domain.Tier, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&learnerModel{}).
		Where("id = ?", userID).
		Updates(map[string]any{"tier": string(tier), "updated_at": at.UTC()})
	return requireRow(res)
}

func (r *learnersRepo) UpdateCertificationName(
	ctx context.Context,
	userID, firstName, lastName string,
	at time.Time,
	expectedVersion int64,
) (bool, error) {
	res := r.db.WithContext(ctx).Model(&learnerModel{}).
		Where("id = ? AND cert_name_version = ?", userID, expectedVersion).
		Updates(map[string]any{
			"cert_first_name":      firstName,
			"cert_last_name":       lastName,
			"cert_name_updated_at": at.UTC(),
			"cert_name_version":    gorm.Expr("cert_name_version + 1"),
			"updated_at":           at.UTC(),
		})
	return res.RowsAffected == 1, res.Error
}

func (r *learnersRepo) RecordLessonCompletion(ctx context.Context, c domain.LessonCompletion) (bool, error) {
	m := lessonProgressModel{
		UserID:      c.UserID,
		LessonID:    c.LessonID,
		CompletedAt: c.CompletedAt.UTC(),
		XPAwarded:   c.XPAwarded,
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&m)
	return res.RowsAffected == 1, res.Error
}

func (r *learnersRepo) LockLearner(ctx context.Context, id string) error {
	var m learnerModel
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Take(&m, "id = ?", id).Error
	return mapNotFound(err)
}

func (r *learnersRepo) UpdateProgressStats(ctx context.Context, l domain.Learner) error {
	res := r.db.WithContext(ctx).Model(&learnerModel{}).
		Where("id = ?", l.ID).
		Updates(map[string]any{
			"total_xp":       l.TotalXP,
			"current_streak": l.CurrentStreak,
			"longest_streak": l.LongestStreak,
			"last_active_on": utcPtr(l.LastActiveOn),
			"updated_at":     l.UpdatedAt.UTC(),
		})
	return requireRow(res)
}

// requireRow turns a zero-row update into store.ErrNotFound.
func requireRow(res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
