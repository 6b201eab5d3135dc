package sqlite

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/usapupgrade/certs/internal/certs/domain"
	"github.com/usapupgrade/certs/internal/certs/store"
)

var t0 = time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T, path string) *Store {
	t.Helper()

	s, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedLearner(t *testing.T, s store.Store, id string, tier domain.Tier) {
	t.Helper()

	created, err := s.Learners().EnsureLearner(context.Background(), domain.Learner{
		ID:        id,
		Email:     id + "@example.com",
		Tier:      tier,
		CreatedAt: t0,
		UpdatedAt: t0,
	})
	require.NoError(t, err)
	require.True(t, created)
}

func testCertificate(id, userID string) domain.Certificate {
	return domain.Certificate{
		ID:                           id,
		UserID:                       userID,
		FirstName:                    "Juan",
		LastName:                     "Dela Cruz",
		IssuedAt:                     t0.Add(48 * time.Hour),
		CompletionDate:               t0.Add(24 * time.Hour),
		TotalXPAtCompletion:          2400,
		LongestStreakAtCompletion:    14,
		LessonsCompletedAtCompletion: 120,
		Hash:                         "abc123",
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, ":memory:")
	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.Ping(context.Background()))
}

func TestLearners(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t, ":memory:")

	t.Run("missing learner", func(t *testing.T) {
		_, err := s.Learners().GetLearner(ctx, "nobody")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	seedLearner(t, s, "u1", domain.TierFree)

	t.Run("ensure is idempotent", func(t *testing.T) {
		created, err := s.Learners().EnsureLearner(ctx, domain.Learner{ID: "u1", Tier: domain.TierPremium, CreatedAt: t0, UpdatedAt: t0})
		require.NoError(t, err)
		require.False(t, created)

		l, err := s.Learners().GetLearner(ctx, "u1")
		require.NoError(t, err)
		require.Equal(t, domain.TierFree, l.Tier)
		require.Equal(t, "u1@example.com", l.Email)
		require.Nil(t, l.CertNameUpdatedAt)
		require.Zero(t, l.CompletedLessons)
		require.Nil(t, l.CompletedAt)
	})

	t.Run("tier update", func(t *testing.T) {
		require.NoError(t, s.Learners().UpdateSubscriptionTier(ctx, "u1", domain.TierLifetime, t0))
		l, err := s.Learners().GetLearner(ctx, "u1")
		require.NoError(t, err)
		require.Equal(t, domain.TierLifetime, l.Tier)

		require.ErrorIs(t, s.Learners().UpdateSubscriptionTier(ctx, "nobody", domain.TierPremium, t0), store.ErrNotFound)
	})

	t.Run("certification name compare-and-swap", func(t *testing.T) {
		at := t0.Add(time.Hour)

		ok, err := s.Learners().UpdateCertificationName(ctx, "u1", "Juan", "Dela Cruz", at, 0)
		require.NoError(t, err)
		require.True(t, ok)

		// Same expected version again loses.
		ok, err = s.Learners().UpdateCertificationName(ctx, "u1", "Pedro", "Penduko", at, 0)
		require.NoError(t, err)
		require.False(t, ok)

		l, err := s.Learners().GetLearner(ctx, "u1")
		require.NoError(t, err)
		require.Equal(t, "Juan", l.CertFirstName)
		require.Equal(t, "Dela Cruz", l.CertLastName)
		require.Equal(t, int64(1), l.CertNameVersion)
		require.NotNil(t, l.CertNameUpdatedAt)
		require.True(t, at.Equal(*l.CertNameUpdatedAt))
	})

	t.Run("lesson progress", func(t *testing.T) {
		seedLearner(t, s, "u2", domain.TierPremium)

		for i := range domain.RequiredLessons {
			inserted, err := s.Learners().RecordLessonCompletion(ctx, domain.LessonCompletion{
				UserID:      "u2",
				LessonID:    fmt.Sprintf("lesson-%03d", i+1),
				CompletedAt: t0.Add(time.Duration(i) * time.Hour),
				XPAwarded:   20,
			})
			require.NoError(t, err)
			require.True(t, inserted)

			if i == domain.RequiredLessons-2 {
				l, err := s.Learners().GetLearner(ctx, "u2")
				require.NoError(t, err)
				require.Equal(t, domain.RequiredLessons-1, l.CompletedLessons)
				require.Nil(t, l.CompletedAt)
			}
		}

		inserted, err := s.Learners().RecordLessonCompletion(ctx, domain.LessonCompletion{
			UserID: "u2", LessonID: "lesson-001", CompletedAt: t0.Add(1000 * time.Hour), XPAwarded: 20,
		})
		require.NoError(t, err)
		require.False(t, inserted)

		l, err := s.Learners().GetLearner(ctx, "u2")
		require.NoError(t, err)
		require.Equal(t, domain.RequiredLessons, l.CompletedLessons)
		require.NotNil(t, l.CompletedAt)
		require.True(t, t0.Add(119*time.Hour).Equal(*l.CompletedAt))
	})

	t.Run("progress stats", func(t *testing.T) {
		day := t0.Truncate(24 * time.Hour)
		require.NoError(t, s.Learners().UpdateProgressStats(ctx, domain.Learner{
			ID: "u1", TotalXP: 500, CurrentStreak: 3, LongestStreak: 7, LastActiveOn: &day, UpdatedAt: t0,
		}))

		l, err := s.Learners().GetLearner(ctx, "u1")
		require.NoError(t, err)
		require.Equal(t, 500, l.TotalXP)
		require.Equal(t, 3, l.CurrentStreak)
		require.Equal(t, 7, l.LongestStreak)
		require.True(t, day.Equal(*l.LastActiveOn))
	})
}

func TestCertificates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t, ":memory:")

	seedLearner(t, s, "u1", domain.TierPremium)
	seedLearner(t, s, "u2", domain.TierPremium)

	want := testCertificate("UC-2025-07-03-09-00-00-001", "u1")
	require.NoError(t, s.Certificates().CreateCertificate(ctx, want))

	t.Run("read back by id and user", func(t *testing.T) {
		got, err := s.Certificates().GetCertificateByID(ctx, want.ID)
		require.NoError(t, err)
		require.Equal(t, want, got)

		got, err = s.Certificates().GetCertificateByUserID(ctx, "u1")
		require.NoError(t, err)
		require.Equal(t, want, got)

		_, err = s.Certificates().GetCertificateByID(ctx, "UC-2025-07-03-09-00-00-999")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("second certificate for user", func(t *testing.T) {
		err := s.Certificates().CreateCertificate(ctx, testCertificate("UC-2025-07-03-09-00-00-002", "u1"))
		require.ErrorIs(t, err, store.ErrUserAlreadyCertified)
	})

	t.Run("duplicate certificate id", func(t *testing.T) {
		err := s.Certificates().CreateCertificate(ctx, testCertificate(want.ID, "u2"))
		require.ErrorIs(t, err, store.ErrCertificateIDTaken)
	})

	t.Run("rows cannot be updated", func(t *testing.T) {
		_, err := s.db.ExecContext(ctx, `UPDATE certificates SET total_xp_at_completion = 1 WHERE certificate_id = ?`, want.ID)
		require.Error(t, err)

		got, err := s.Certificates().GetCertificateByID(ctx, want.ID)
		require.NoError(t, err)
		require.Equal(t, want.TotalXPAtCompletion, got.TotalXPAtCompletion)
	})

	t.Run("rows cannot be deleted", func(t *testing.T) {
		_, err := s.db.ExecContext(ctx, `DELETE FROM certificates WHERE certificate_id = ?`, want.ID)
		require.ErrorContains(t, err, "immutable")

		_, err = s.Certificates().GetCertificateByID(ctx, want.ID)
		require.NoError(t, err)
	})

	t.Run("paging", func(t *testing.T) {
		require.NoError(t, s.Certificates().CreateCertificate(ctx, testCertificate("UC-2025-07-03-09-00-00-003", "u2")))

		page, err := s.Certificates().ListCertificates(ctx, "", 1)
		require.NoError(t, err)
		require.Len(t, page, 1)
		require.Equal(t, want.ID, page[0].ID)

		page, err = s.Certificates().ListCertificates(ctx, page[0].ID, 10)
		require.NoError(t, err)
		require.Len(t, page, 1)
		require.Equal(t, "UC-2025-07-03-09-00-00-003", page[0].ID)

		page, err = s.Certificates().ListCertificates(ctx, page[0].ID, 10)
		require.NoError(t, err)
		require.Empty(t, page)
	})
}

func TestWithTxRollsBack(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t, ":memory:")
	seedLearner(t, s, "u1", domain.TierPremium)

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(tx store.Tx) error {
		inserted, err := tx.Learners().RecordLessonCompletion(ctx, domain.LessonCompletion{
			UserID: "u1", LessonID: "lesson-001", CompletedAt: t0, XPAwarded: 10,
		})
		require.NoError(t, err)
		require.True(t, inserted)
		return boom
	})
	require.ErrorIs(t, err, boom)

	l, err := s.Learners().GetLearner(ctx, "u1")
	require.NoError(t, err)
	require.Zero(t, l.CompletedLessons)
}

func TestConcurrentCertificateInsert(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t, filepath.Join(t.TempDir(), "certs.db"))
	seedLearner(t, s, "u1", domain.TierPremium)

	const workers = 8
	var (
		wg   sync.WaitGroup
		errs = make([]error, workers)
	)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = s.Certificates().CreateCertificate(ctx,
				testCertificate(fmt.Sprintf("UC-2025-07-03-09-00-00-%03d", i), "u1"))
		}()
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		require.ErrorIs(t, err, store.ErrUserAlreadyCertified)
	}
	require.Equal(t, 1, ok)
}

func TestLockLearner(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, ":memory:")
	seedLearner(t, s, "u1", domain.TierFree)
	ctx := context.Background()

	err := s.WithTx(ctx, func(tx store.Tx) error {
		return tx.Learners().LockLearner(ctx, "u1")
	})
	require.NoError(t, err)

	err = s.WithTx(ctx, func(tx store.Tx) error {
		return tx.Learners().LockLearner(ctx, "missing")
	})
	require.ErrorIs(t, err, store.ErrNotFound)
}
