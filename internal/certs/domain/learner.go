package domain

import "time"

// RequiredLessons is the number of lessons in the course.
const RequiredLessons = 120

type Tier string

const (
	TierFree     Tier = "free"
	TierPremium  Tier = "premium"
	TierLifetime Tier = "lifetime"
)

// Valid reports whether t is a known subscription tier.
func (t Tier) Valid() bool {
	switch t {
	case TierFree, TierPremium, TierLifetime:
		return true
	}
	return false
}

// Paid reports whether t unlocks certification.
func (t Tier) Paid() bool {
	return t == TierPremium || t == TierLifetime
}

type Learner struct {
	ID    string // identity provider user ID (UUID)
	Email string
	Tier  Tier

	TotalXP       int
	CurrentStreak int
	LongestStreak int
	LastActiveOn  *time.Time // UTC midnight of the last day with a completion

	CertFirstName     string
	CertLastName      string
	CertNameUpdatedAt *time.Time
	CertNameVersion   int64 // bumped on every successful name change

	// Derived from lesson_progress on read.
	CompletedLessons int
	CompletedAt      *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

type LessonCompletion struct {
	UserID      string
	LessonID    string
	CompletedAt time.Time
	XPAwarded   int
}
