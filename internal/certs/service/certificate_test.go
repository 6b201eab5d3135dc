package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/usapupgrade/certs/internal/certs/domain"
	"github.com/usapupgrade/certs/pkg/certid"
)

func TestIssueCertificate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("eligible learner gets a snapshot certificate", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.eligibleLearner(t, "u1")
		f.clock.Advance(90 * time.Minute)

		c, err := f.certs.IssueCertificate(ctx, "u1")
		require.NoError(t, err)

		issuedAt, _, err := certid.Parse(c.ID)
		require.NoError(t, err)
		require.True(t, issuedAt.Equal(c.IssuedAt))
		require.True(t, c.IssuedAt.Equal(t0.Add(90*time.Minute)))
		require.True(t, c.CompletionDate.Equal(t0))

		require.Equal(t, "u1", c.UserID)
		require.Equal(t, "Juan Dela Cruz", c.FullName())
		require.Equal(t, domain.RequiredLessons, c.LessonsCompletedAtCompletion)
		require.Equal(t, domain.RequiredLessons*LessonXP, c.TotalXPAtCompletion)
		require.Equal(t, 1, c.LongestStreakAtCompletion)

		want, err := CertificateHash(testHashKey, c)
		require.NoError(t, err)
		require.Equal(t, want, c.Hash)

		stored, err := f.certs.GetCertificate(ctx, "u1")
		require.NoError(t, err)
		require.Equal(t, c.ID, stored.ID)
		require.Equal(t, c.Hash, stored.Hash)
	})

	t.Run("slow archive is cut short", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.eligibleLearner(t, "u1")

		arch := &stallingArchiver{err: make(chan error, 1)}
		f.certs.Archiver = arch
		f.certs.ArchiveTimeout = 50 * time.Millisecond

		start := time.Now()
		c, err := f.certs.IssueCertificate(ctx, "u1")
		require.NoError(t, err)
		require.Less(t, time.Since(start), 5*time.Second)
		require.ErrorIs(t, <-arch.err, context.DeadlineExceeded)

		stored, err := f.certs.GetCertificate(ctx, "u1")
		require.NoError(t, err)
		require.Equal(t, c.ID, stored.ID)
	})

	t.Run("second issuance points at the first", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.eligibleLearner(t, "u1")

		first, err := f.certs.IssueCertificate(ctx, "u1")
		require.NoError(t, err)

		f.clock.Advance(time.Hour)
		_, err = f.certs.IssueCertificate(ctx, "u1")

		var already *AlreadyIssuedError
		require.True(t, errors.As(err, &already))
		require.Equal(t, first.ID, already.CertificateID)
		require.True(t, already.IssuedAt.Equal(first.IssuedAt))
	})

	t.Run("free tier is refused even when complete", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.seedLearner(t, "u1", domain.TierFree)
		f.completeLessons(t, "u1", domain.RequiredLessons)
		f.setName(t, "u1", "Juan", "Dela Cruz")

		_, err := f.certs.IssueCertificate(ctx, "u1")

		var notEligible *NotEligibleError
		require.True(t, errors.As(err, &notEligible))
		require.Equal(t, ReasonSubscriptionRequired, notEligible.Eligibility.Reason)
	})

	t.Run("one lesson short", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.seedLearner(t, "u1", domain.TierLifetime)
		f.completeLessons(t, "u1", domain.RequiredLessons-1)
		f.setName(t, "u1", "Juan", "Dela Cruz")

		_, err := f.certs.IssueCertificate(ctx, "u1")

		var notEligible *NotEligibleError
		require.True(t, errors.As(err, &notEligible))
		require.Equal(t, ReasonInsufficientLessons, notEligible.Eligibility.Reason)
		require.Equal(t, 119, notEligible.Eligibility.CompletedLessons)
		require.Equal(t, 120, notEligible.Eligibility.RequiredLessons)
	})

	t.Run("certification name must be set", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.seedLearner(t, "u1", domain.TierPremium)
		f.completeLessons(t, "u1", domain.RequiredLessons)

		_, err := f.certs.IssueCertificate(ctx, "u1")

		var nameErr *InvalidNameError
		require.True(t, errors.As(err, &nameErr))
		require.Equal(t, "first_name", nameErr.Field)
	})

	t.Run("unknown learner", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		_, err := f.certs.IssueCertificate(ctx, "missing")
		require.ErrorIs(t, err, ErrLearnerNotFound)
	})

	t.Run("later progress does not touch the certificate", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.eligibleLearner(t, "u1")

		issued, err := f.certs.IssueCertificate(ctx, "u1")
		require.NoError(t, err)

		// Live stats keep moving after the course, e.g. from review sessions.
		l, err := f.store.Learners().GetLearner(ctx, "u1")
		require.NoError(t, err)
		l.TotalXP += 500
		l.LongestStreak += 3
		l.UpdatedAt = f.clock.Now().Add(24 * time.Hour)
		require.NoError(t, f.store.Learners().UpdateProgressStats(ctx, l))

		stored, err := f.certs.GetCertificate(ctx, "u1")
		require.NoError(t, err)
		require.Equal(t, issued.TotalXPAtCompletion, stored.TotalXPAtCompletion)
		require.Equal(t, issued.LessonsCompletedAtCompletion, stored.LessonsCompletedAtCompletion)
		require.Equal(t, issued.LongestStreakAtCompletion, stored.LongestStreakAtCompletion)

		v, err := f.certs.VerifyCertificate(ctx, issued.ID, "Juan Dela Cruz")
		require.NoError(t, err)
		require.True(t, v.Valid)
	})

	t.Run("archiver receives the issued certificate", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.eligibleLearner(t, "u1")

		arch := &recordingArchiver{}
		f.certs.Archiver = arch

		c, err := f.certs.IssueCertificate(ctx, "u1")
		require.NoError(t, err)
		require.Equal(t, []string{c.ID}, arch.ids())
	})

	t.Run("archive failure does not undo issuance", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.eligibleLearner(t, "u1")
		f.certs.Archiver = &recordingArchiver{err: errors.New("bucket unavailable")}

		c, err := f.certs.IssueCertificate(ctx, "u1")
		require.NoError(t, err)

		stored, err := f.certs.GetCertificate(ctx, "u1")
		require.NoError(t, err)
		require.Equal(t, c.ID, stored.ID)
	})
}

func TestIssueCertificateConcurrently(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	f.eligibleLearner(t, "u1")

	const n = 10
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		issued  []domain.Certificate
		already []*AlreadyIssuedError
	)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := f.certs.IssueCertificate(ctx, "u1")

			mu.Lock()
			defer mu.Unlock()
			var ae *AlreadyIssuedError
			switch {
			case err == nil:
				issued = append(issued, c)
			case errors.As(err, &ae):
				already = append(already, ae)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	require.Len(t, issued, 1)
	require.Len(t, already, n-1)
	for _, ae := range already {
		require.Equal(t, issued[0].ID, ae.CertificateID)
	}
}

func TestIssueCertificateIDCollisions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("retries with a fresh suffix", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.eligibleLearner(t, "u1")
		f.eligibleLearner(t, "u2")

		suffixes := []int{7, 7, 8}
		f.certs.IDs.Suffix = func() int {
			s := suffixes[0]
			suffixes = suffixes[1:]
			return s
		}

		a, err := f.certs.IssueCertificate(ctx, "u1")
		require.NoError(t, err)
		require.True(t, strings.HasSuffix(a.ID, "-007"))

		b, err := f.certs.IssueCertificate(ctx, "u2")
		require.NoError(t, err)
		require.True(t, strings.HasSuffix(b.ID, "-008"))
		require.Empty(t, suffixes)
	})

	t.Run("gives up after the attempt budget", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.eligibleLearner(t, "u1")
		f.eligibleLearner(t, "u2")

		calls := 0
		f.certs.IDs.Suffix = func() int {
			calls++
			return 7
		}

		_, err := f.certs.IssueCertificate(ctx, "u1")
		require.NoError(t, err)

		_, err = f.certs.IssueCertificate(ctx, "u2")
		var genErr *IDGenerationError
		require.True(t, errors.As(err, &genErr))
		require.Equal(t, MaxIDAttempts, genErr.Attempts)
		require.Equal(t, 1+MaxIDAttempts, calls)

		_, err = f.certs.GetCertificate(ctx, "u2")
		require.ErrorIs(t, err, ErrCertificateNotFound)
	})
}

func TestGetCertificateStatus(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	f.seedLearner(t, "u1", domain.TierPremium)
	f.completeLessons(t, "u1", 30)

	status, err := f.certs.GetCertificateStatus(ctx, "u1")
	require.NoError(t, err)
	require.False(t, status.HasCertificate)
	require.Nil(t, status.Certificate)
	require.False(t, status.Requirements.Met())
	require.Equal(t, ReasonInsufficientLessons, status.Requirements.Eligibility.Reason)
	require.Equal(t, 30, status.Requirements.Eligibility.CompletedLessons)
	require.False(t, status.Requirements.CertificationNameSet)

	f.completeLessonsFrom(t, "u1", 31, domain.RequiredLessons-30)
	f.setName(t, "u1", "Juan", "Dela Cruz")

	status, err = f.certs.GetCertificateStatus(ctx, "u1")
	require.NoError(t, err)
	require.True(t, status.Requirements.Met())

	c, err := f.certs.IssueCertificate(ctx, "u1")
	require.NoError(t, err)

	status, err = f.certs.GetCertificateStatus(ctx, "u1")
	require.NoError(t, err)
	require.True(t, status.HasCertificate)
	require.Equal(t, c.ID, status.Certificate.ID)

	_, err = f.certs.GetCertificateStatus(ctx, "missing")
	require.ErrorIs(t, err, ErrLearnerNotFound)
}

func TestCertificateHash(t *testing.T) {
	t.Parallel()

	base := domain.Certificate{
		ID:                           "UC-2025-07-31-12-00-00-042",
		UserID:                       "u1",
		FirstName:                    "Juan",
		LastName:                     "Dela Cruz",
		IssuedAt:                     t0,
		CompletionDate:               t0.Add(-time.Hour),
		TotalXPAtCompletion:          2400,
		LongestStreakAtCompletion:    14,
		LessonsCompletedAtCompletion: 120,
	}

	h, err := CertificateHash(testHashKey, base)
	require.NoError(t, err)

	again, err := CertificateHash(testHashKey, base)
	require.NoError(t, err)
	require.Equal(t, h, again)

	unkeyed, err := CertificateHash(nil, base)
	require.NoError(t, err)
	require.NotEqual(t, h, unkeyed)

	tampers := map[string]func(c *domain.Certificate){
		"first name":      func(c *domain.Certificate) { c.FirstName = "Juana" },
		"last name":       func(c *domain.Certificate) { c.LastName = "Cruz" },
		"id":              func(c *domain.Certificate) { c.ID = "UC-2025-07-31-12-00-00-043" },
		"completion date": func(c *domain.Certificate) { c.CompletionDate = c.CompletionDate.Add(time.Second) },
		"lessons":         func(c *domain.Certificate) { c.LessonsCompletedAtCompletion++ },
		"xp":              func(c *domain.Certificate) { c.TotalXPAtCompletion++ },
		"streak":          func(c *domain.Certificate) { c.LongestStreakAtCompletion++ },
	}
	for name, tamper := range tampers {
		t.Run(fmt.Sprintf("detects changed %s", name), func(t *testing.T) {
			c := base
			tamper(&c)
			got, err := CertificateHash(testHashKey, c)
			require.NoError(t, err)
			require.NotEqual(t, h, got)
		})
	}

	t.Run("time zone does not matter", func(t *testing.T) {
		c := base
		c.CompletionDate = c.CompletionDate.In(time.FixedZone("PHT", 8*60*60))
		got, err := CertificateHash(testHashKey, c)
		require.NoError(t, err)
		require.Equal(t, h, got)
	})
}

// stallingArchiver blocks until its context ends.
type stallingArchiver struct{ err chan error }

func (a *stallingArchiver) ArchiveCertificate(ctx context.Context, c domain.Certificate) error {
	<-ctx.Done()
	a.err <- ctx.Err()
	return ctx.Err()
}

type recordingArchiver struct {
	mu       sync.Mutex
	archived []string
	err      error
}

func (a *recordingArchiver) ArchiveCertificate(ctx context.Context, c domain.Certificate) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return a.err
	}
	a.archived = append(a.archived, c.ID)
	return nil
}

func (a *recordingArchiver) ids() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.archived...)
}
