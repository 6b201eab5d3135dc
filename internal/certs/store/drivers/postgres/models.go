package postgres

import (
	"time"

	"github.com/usapupgrade/certs/internal/certs/domain"
)

type learnerModel struct {
	ID                string     `gorm:"column:id;primaryKey"`
	Email             string     `gorm:"column:email"`
	Tier              string     `gorm:"column:tier"`
	TotalXP           int        `gorm:"column:total_xp"`
	CurrentStreak     int        `gorm:"column:current_streak"`
	LongestStreak     int        `gorm:"column:longest_streak"`
	LastActiveOn      *time.Time `gorm:"column:last_active_on"`
	CertFirstName     string     `gorm:"column:cert_first_name"`
	CertLastName      string     `gorm:"column:cert_last_name"`
	CertNameUpdatedAt *time.Time `gorm:"column:cert_name_updated_at"`
	CertNameVersion   int64      `gorm:"column:cert_name_version"`
	CreatedAt         time.Time  `gorm:"column:created_at;autoCreateTime:false"`
	UpdatedAt         time.Time  `gorm:"column:updated_at;autoUpdateTime:false"`
}

func (learnerModel) TableName() string { return "learners" }

type lessonProgressModel struct {
	UserID      string    `gorm:"column:user_id;primaryKey"`
	LessonID    string    `gorm:"column:lesson_id;primaryKey"`
	CompletedAt time.Time `gorm:"column:completed_at"`
	XPAwarded   int       `gorm:"column:xp_awarded"`
}

func (lessonProgressModel) TableName() string { return "lesson_progress" }

type certificateModel struct {
	CertificateID                string    `gorm:"column:certificate_id;primaryKey"`
	UserID                       string    `gorm:"column:user_id"`
	FirstName                    string    `gorm:"column:first_name"`
	LastName                     string    `gorm:"column:last_name"`
	IssuedAt                     time.Time `gorm:"column:issued_at"`
	CompletionDate               time.Time `gorm:"column:completion_date"`
	TotalXPAtCompletion          int       `gorm:"column:total_xp_at_completion"`
	LongestStreakAtCompletion    int       `gorm:"column:longest_streak_at_completion"`
	LessonsCompletedAtCompletion int       `gorm:"column:lessons_completed_at_completion"`
	CertificateHash              string    `gorm:"column:certificate_hash"`
}

func (certificateModel) TableName() string { return "certificates" }

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}

func (m learnerModel) toDomain() domain.Learner {
	return domain.Learner{
		ID:                m.ID,
		Email:             m.Email,
		Tier:              domain.Tier(m.Tier),
		TotalXP:           m.TotalXP,
		CurrentStreak:     m.CurrentStreak,
		LongestStreak:     m.LongestStreak,
		LastActiveOn:      utcPtr(m.LastActiveOn),
		CertFirstName:     m.CertFirstName,
		CertLastName:      m.CertLastName,
		CertNameUpdatedAt: utcPtr(m.CertNameUpdatedAt),
		CertNameVersion:   m.CertNameVersion,
		CreatedAt:         m.CreatedAt.UTC(),
		UpdatedAt:         m.UpdatedAt.UTC(),
	}
}

func certificateFromDomain(c domain.Certificate) certificateModel {
	return certificateModel{
		CertificateID:                c.ID,
		UserID:                       c.UserID,
		FirstName:                    c.FirstName,
		LastName:                     c.LastName,
		IssuedAt:                     c.IssuedAt.UTC(),
		CompletionDate:               c.CompletionDate.UTC(),
		TotalXPAtCompletion:          c.TotalXPAtCompletion,
		LongestStreakAtCompletion:    c.LongestStreakAtCompletion,
		LessonsCompletedAtCompletion: c.LessonsCompletedAtCompletion,
		CertificateHash:              c.Hash,
	}
}

func (m certificateModel) toDomain() domain.Certificate {
	return domain.Certificate{
		ID:                           m.CertificateID,
		UserID:                       m.UserID,
		FirstName:                    m.FirstName,
		LastName:                     m.LastName,
		IssuedAt:                     m.IssuedAt.UTC(),
		CompletionDate:               m.CompletionDate.UTC(),
		TotalXPAtCompletion:          m.TotalXPAtCompletion,
		LongestStreakAtCompletion:    m.LongestStreakAtCompletion,
		LessonsCompletedAtCompletion: m.LessonsCompletedAtCompletion,
		Hash:                         m.CertificateHash,
	}
}
