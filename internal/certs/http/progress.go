package http

import (
	"net/http"

	"github.com/usapupgrade/certs/internal/certs/service"
	"github.com/usapupgrade/certs/pkg/certsdk"
	"github.com/usapupgrade/certs/pkg/httpx"
)

type ProgressHandler struct {
	ProgressService *service.ProgressService
}

// ServeHTTP godoc
//
//	@Summary		Complete Lesson
//	@Description	Records a lesson completion. Repeats are accepted and change nothing.
//	@Tags			Progress
//	@Produce		json
//	@Security		BearerAuth
//	@Param			lessonID	path		string								true	"Lesson ID"
//	@Success		200			{object}	certsdk.LessonCompletionResponse	"recorded, totals and streaks"
//	@Failure		400			{object}	certsdk.ErrorResponse				"error, error_description"
//	@Failure		401			{object}	certsdk.ErrorResponse				"error, error_description"
//	@Router			/v1/progress/lessons/{lessonID} [post].
func (h *ProgressHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	lessonID := r.PathValue("lessonID")

	res, err := h.ProgressService.CompleteLesson(r.Context(), learnerID(r), lessonID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, certsdk.LessonCompletionResponse{
		LessonID:         lessonID,
		Recorded:         res.Recorded,
		TotalXP:          res.Learner.TotalXP,
		CompletedLessons: res.Learner.CompletedLessons,
		CurrentStreak:    res.Learner.CurrentStreak,
		LongestStreak:    res.Learner.LongestStreak,
	})
}
