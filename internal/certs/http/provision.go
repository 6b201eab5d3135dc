package http

import (
	"net/http"

	"github.com/usapupgrade/certs/internal/certs/service"
	"github.com/usapupgrade/certs/pkg/httpx"
	"github.com/usapupgrade/certs/pkg/slogx"
)

// ProvisionLearner creates the local learner record on a learner's first
// authenticated request. Must run after AuthnMiddleware.
func ProvisionLearner(learners *service.LearnerService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			claims, ok := httpx.ClaimsFromContext(ctx)
			if !ok {
				httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "missing bearer token")
				return
			}

			if err := learners.EnsureLearner(ctx, claims.Subject, claims.Email); err != nil {
				slogx.FromContext(ctx).Error("failed to provision learner", "err", err)
				writeServerError(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
