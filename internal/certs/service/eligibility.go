package service

import "github.com/usapupgrade/certs/internal/certs/domain"

type EligibilityReason string

const (
	ReasonSubscriptionRequired EligibilityReason = "subscription_required"
	ReasonInsufficientLessons  EligibilityReason = "insufficient_lessons"
)

type Eligibility struct {
	Eligible bool
	Reason   EligibilityReason // empty when eligible

	CompletedLessons int
	RequiredLessons  int
	Tier             domain.Tier
}

// CheckEligibility decides whether l may be certified. The tier gate is
// checked first, so a free learner is told to upgrade even with every
// lesson done.
func CheckEligibility(l domain.Learner) Eligibility {
	e := Eligibility{
		CompletedLessons: l.CompletedLessons,
		RequiredLessons:  domain.RequiredLessons,
		Tier:             l.Tier,
	}

	switch {
	case !l.Tier.Paid():
		e.Reason = ReasonSubscriptionRequired
	case l.CompletedLessons < domain.RequiredLessons:
		e.Reason = ReasonInsufficientLessons
	default:
		e.Eligible = true
	}
	return e
}
