package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/usapupgrade/certs/internal/certs/domain"
	"github.com/usapupgrade/certs/internal/certs/store"
	"github.com/usapupgrade/certs/pkg/slogx"
)

// LessonXP is awarded for each lesson, once.
const LessonXP = 20

type ProgressService struct {
	Store store.Store
	Clock clockwork.Clock
}

type LessonResult struct {
	// Recorded is false when the lesson had already been completed.
	Recorded bool
	Learner  domain.Learner
}

// CompleteLesson records a lesson completion, awarding XP and advancing the
// daily streak. Only lessons of the course catalog count; repeat completions
// change nothing.
func (s *ProgressService) CompleteLesson(ctx context.Context, userID, lessonID string) (LessonResult, error) {
	log := slogx.FromContext(ctx)

	if !domain.IsCourseLesson(lessonID) {
		return LessonResult{}, ErrInvalidLesson
	}

	now := utcNow(s.Clock)
	var result LessonResult

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		// Serialise completions per learner before reading stats.
		if err := tx.Learners().LockLearner(ctx, userID); err != nil {
			return err
		}

		recorded, err := tx.Learners().RecordLessonCompletion(ctx, domain.LessonCompletion{
			UserID:      userID,
			LessonID:    lessonID,
			CompletedAt: now,
			XPAwarded:   LessonXP,
		})
		if err != nil {
			return fmt.Errorf("record completion: %w", err)
		}

		l, err := tx.Learners().GetLearner(ctx, userID)
		if err != nil {
			return err
		}

		if recorded {
			applyCompletion(&l, now)
			if err := tx.Learners().UpdateProgressStats(ctx, l); err != nil {
				return fmt.Errorf("update stats: %w", err)
			}
		}

		result = LessonResult{Recorded: recorded, Learner: l}
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return LessonResult{}, ErrLearnerNotFound
		}
		return LessonResult{}, err
	}

	if result.Recorded {
		log.Debug("lesson completed",
			slog.String("user_id", userID),
			slog.String("lesson_id", lessonID),
			slog.Int("completed_lessons", result.Learner.CompletedLessons),
			slog.Int("current_streak", result.Learner.CurrentStreak),
		)
	}
	return result, nil
}

// applyCompletion awards XP and moves the streak for a completion at now.
// Streak days are UTC calendar days.
func applyCompletion(l *domain.Learner, now time.Time) {
	today := now.UTC().Truncate(24 * time.Hour)

	l.TotalXP += LessonXP
	switch {
	case l.LastActiveOn == nil:
		l.CurrentStreak = 1
	case l.LastActiveOn.Equal(today):
		// Already counted today.
	case l.LastActiveOn.Add(24 * time.Hour).Equal(today):
		l.CurrentStreak++
	default:
		l.CurrentStreak = 1
	}
	l.LongestStreak = max(l.LongestStreak, l.CurrentStreak)
	l.LastActiveOn = &today
	l.UpdatedAt = now
}
