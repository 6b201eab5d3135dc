package http

import (
	"github.com/usapupgrade/certs/internal/certs/domain"
	"github.com/usapupgrade/certs/internal/certs/render"
	"github.com/usapupgrade/certs/internal/certs/service"
	"github.com/usapupgrade/certs/pkg/certsdk"
)

func certificateDTO(c domain.Certificate, renderer *render.Renderer) certsdk.Certificate {
	dto := certsdk.Certificate{
		CertificateID:    c.ID,
		FirstName:        c.FirstName,
		LastName:         c.LastName,
		FullName:         c.FullName(),
		IssuedAt:         c.IssuedAt.UTC(),
		CompletionDate:   c.CompletionDate.UTC(),
		LessonsCompleted: c.LessonsCompletedAtCompletion,
		TotalXP:          c.TotalXPAtCompletion,
		LongestStreak:    c.LongestStreakAtCompletion,
		CertificateHash:  c.Hash,
	}
	if renderer != nil {
		dto.VerifyURL = renderer.VerifyURL(c)
	}
	return dto
}

func requirementsDTO(r service.Requirements) certsdk.Requirements {
	e := r.Eligibility
	return certsdk.Requirements{
		Eligible:             e.Eligible,
		Reason:               string(e.Reason),
		Tier:                 string(e.Tier),
		SubscriptionActive:   e.Tier.Paid(),
		CompletedLessons:     e.CompletedLessons,
		RequiredLessons:      e.RequiredLessons,
		CertificationNameSet: r.CertificationNameSet,
		ReadyToIssue:         r.Met(),
	}
}

func certificationNameDTO(cn domain.CertificationName) certsdk.CertificationNameResponse {
	return certsdk.CertificationNameResponse{
		FirstName:     cn.FirstName,
		LastName:      cn.LastName,
		UpdatedAt:     cn.UpdatedAt,
		CanChange:     cn.CanChange,
		NextAllowedAt: cn.NextAllowedAt,
		DaysRemaining: cn.DaysRemaining,
	}
}
