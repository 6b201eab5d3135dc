package certsdk

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL + "/")
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func TestVerify(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/certificates/verify", r.URL.Path)
		require.Empty(t, r.Header.Get("Authorization"))

		var req VerifyRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "UC-2025-07-31-12-00-00-042", req.CertificateID)

		writeJSON(w, http.StatusOK, VerifyResponse{Valid: req.Name == "Juan Dela Cruz", Reason: "name_mismatch"})
	})

	v, err := c.Verify(context.Background(), "UC-2025-07-31-12-00-00-042", "Juan Santos")
	require.NoError(t, err)
	require.False(t, v.Valid)
	require.Equal(t, "name_mismatch", v.Reason)
}

func TestLearnerCallsSendToken(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer learner-token", r.Header.Get("Authorization"))

		switch r.URL.Path {
		case "/v1/certificates/me":
			writeJSON(w, http.StatusOK, CertificateStatusResponse{
				Requirements: Requirements{Tier: "premium", CompletedLessons: 12, RequiredLessons: 120},
			})
		case "/v1/progress/lessons/lesson 1":
			writeJSON(w, http.StatusOK, LessonCompletionResponse{LessonID: "lesson 1", Recorded: true, TotalXP: 20})
		default:
			http.NotFound(w, r)
		}
	}).WithToken("learner-token")

	status, err := c.Status(context.Background())
	require.NoError(t, err)
	require.False(t, status.HasCertificate)
	require.Equal(t, 12, status.Requirements.CompletedLessons)

	res, err := c.CompleteLesson(context.Background(), "lesson 1")
	require.NoError(t, err)
	require.True(t, res.Recorded)
	require.Equal(t, 20, res.TotalXP)
}

func TestWithTokenCopies(t *testing.T) {
	t.Parallel()

	base := NewClient("https://certs.example.com/")
	authed := base.WithToken("abc")

	require.Equal(t, "https://certs.example.com", base.BaseURL)
	require.Empty(t, base.Token)
	require.Equal(t, "abc", authed.Token)
}

func TestAPIErrors(t *testing.T) {
	t.Parallel()

	t.Run("structured body", func(t *testing.T) {
		days := 12
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusTooManyRequests, ErrorResponse{
				Error:            ErrorCodeNameChangeThrottled,
				ErrorDescription: "Certification name was changed recently",
				DaysRemaining:    &days,
			})
		})

		_, err := c.ChangeCertificationName(context.Background(), "Juan", "Santos")
		require.Error(t, err)
		require.True(t, IsCode(err, ErrorCodeNameChangeThrottled))
		require.False(t, IsCode(err, ErrorCodeInvalidName))

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		require.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
		require.Equal(t, 12, *apiErr.DaysRemaining)
	})

	t.Run("non json body", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad gateway", http.StatusBadGateway)
		})

		_, err := c.Issue(context.Background())
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
		require.Equal(t, ErrorCodeServerError, apiErr.ErrorResponse.Error)
		require.Equal(t, "Bad Gateway", apiErr.ErrorDescription)
	})
}

func TestDownloadPDF(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/certificates/me/pdf":
			w.Header().Set("Content-Type", "application/pdf")
			w.Header().Set("Content-Disposition", `attachment; filename="usapupgrade-certificate-juan-dela-cruz.pdf"`)
			_, _ = w.Write([]byte("%PDF-1.3 fake"))
		case "/v1/certificates/UC-2025-07-31-12-00-00-042/pdf":
			require.Equal(t, "Juan Dela Cruz", r.URL.Query().Get("name"))
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: ErrorCodeNotFound})
		default:
			http.NotFound(w, r)
		}
	})

	pdf, err := c.WithToken("t").DownloadPDF(context.Background())
	require.NoError(t, err)
	require.Equal(t, "usapupgrade-certificate-juan-dela-cruz.pdf", pdf.Filename)
	require.Equal(t, []byte("%PDF-1.3 fake"), pdf.Data)

	_, err = c.PublicPDF(context.Background(), "UC-2025-07-31-12-00-00-042", "Juan Dela Cruz")
	require.True(t, IsCode(err, ErrorCodeNotFound))
}

func TestReadyz(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status: "degraded",
			Checks: &HealthChecks{Database: "error: connection refused"},
		})
	})

	h, err := c.Readyz(context.Background())
	require.Error(t, err)
	require.Equal(t, "degraded", h.Status)
	require.Equal(t, "error: connection refused", h.Checks.Database)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
}
