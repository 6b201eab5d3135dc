package domain

import "time"

// NameChangeCooldown is the minimum gap between certification name changes.
// Days are fixed 24h spans, not calendar days.
const NameChangeCooldown = 30 * 24 * time.Hour

type CertificationName struct {
	FirstName string
	LastName  string
	UpdatedAt *time.Time

	CanChange     bool
	NextAllowedAt *time.Time
	DaysRemaining int
}
