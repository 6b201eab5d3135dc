package service

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
	"github.com/usapupgrade/certs/internal/certs/domain"
	"github.com/usapupgrade/certs/internal/certs/store"
	"github.com/usapupgrade/certs/internal/certs/store/drivers/sqlite"
	"github.com/usapupgrade/certs/pkg/certid"
)

var t0 = time.Date(2025, 7, 31, 12, 0, 0, 0, time.UTC)

var testHashKey = []byte("0123456789abcdef0123456789abcdef")

type fixture struct {
	store    store.Store
	clock    *clockwork.FakeClock
	certs    *CertificateService
	names    *CertificationNameService
	progress *ProgressService
	learners *LearnerService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	clock := clockwork.NewFakeClockAt(t0)

	return &fixture{
		store: st,
		clock: clock,
		certs: &CertificateService{
			Store:   st,
			Clock:   clock,
			IDs:     certid.NewGenerator(clock),
			HashKey: testHashKey,
		},
		names:    &CertificationNameService{Store: st, Clock: clock},
		progress: &ProgressService{Store: st, Clock: clock},
		learners: &LearnerService{Store: st, Clock: clock},
	}
}

func (f *fixture) seedLearner(t *testing.T, id string, tier domain.Tier) {
	t.Helper()

	ctx := context.Background()
	require.NoError(t, f.learners.EnsureLearner(ctx, id, id+"@example.com"))
	if tier != domain.TierFree {
		require.NoError(t, f.learners.SetTier(ctx, id, tier))
	}
}

func (f *fixture) completeLessons(t *testing.T, id string, n int) {
	t.Helper()
	f.completeLessonsFrom(t, id, 1, n)
}

// completeLessonsFrom completes n lessons numbered from start.
func (f *fixture) completeLessonsFrom(t *testing.T, id string, start, n int) {
	t.Helper()

	for i := range n {
		res, err := f.progress.CompleteLesson(context.Background(), id, domain.LessonID(start+i))
		require.NoError(t, err)
		require.True(t, res.Recorded)
	}
}

func (f *fixture) setName(t *testing.T, id, first, last string) {
	t.Helper()

	_, err := f.names.ChangeCertificationName(context.Background(), id, first, last)
	require.NoError(t, err)
}

// eligibleLearner seeds a premium learner with every lesson done and a
// certification name set.
func (f *fixture) eligibleLearner(t *testing.T, id string) {
	t.Helper()

	f.seedLearner(t, id, domain.TierPremium)
	f.completeLessons(t, id, domain.RequiredLessons)
	f.setName(t, id, "Juan", "Dela Cruz")
}
