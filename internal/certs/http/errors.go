package http

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/usapupgrade/certs/internal/certs/service"
	"github.com/usapupgrade/certs/pkg/certsdk"
	"github.com/usapupgrade/certs/pkg/httpx"
	"github.com/usapupgrade/certs/pkg/slogx"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationMessage describes the first failed rule in err.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request"
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "max":
		return fe.Field() + " must be at most " + fe.Param() + " characters"
	default:
		return fe.Field() + " is invalid"
	}
}

// decodeAndValidate reads a JSON body into v and runs its validate tags.
// It writes the 400 itself and reports false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := httpx.DecodeJSON(w, r, v); err != nil {
		writeError(w, http.StatusBadRequest, certsdk.ErrorCodeInvalidRequest, "Invalid JSON in request body")
		return false
	}
	if err := validate.Struct(v); err != nil {
		writeError(w, http.StatusBadRequest, certsdk.ErrorCodeInvalidRequest, validationMessage(err))
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, code int, errCode, desc string) {
	httpx.WriteJSON(w, code, certsdk.ErrorResponse{
		Error:            errCode,
		ErrorDescription: desc,
	})
}

func writeServerError(w http.ResponseWriter) {
	writeError(w, http.StatusInternalServerError, certsdk.ErrorCodeServerError, "An unexpected error occurred")
}

// writeServiceError translates service errors into responses. Anything
// unrecognised is logged and reported as a bare 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		notEligible *service.NotEligibleError
		invalidName *service.InvalidNameError
		throttled   *service.ThrottledError
		issued      *service.AlreadyIssuedError
		idGen       *service.IDGenerationError
	)

	switch {
	case errors.As(err, &notEligible):
		e := notEligible.Eligibility
		httpx.WriteJSON(w, http.StatusForbidden, certsdk.ErrorResponse{
			Error:            certsdk.ErrorCodeNotEligible,
			ErrorDescription: notEligibleDescription(e),
			Reason:           string(e.Reason),
			CompletedLessons: &e.CompletedLessons,
			RequiredLessons:  &e.RequiredLessons,
		})

	case errors.As(err, &invalidName):
		httpx.WriteJSON(w, http.StatusBadRequest, certsdk.ErrorResponse{
			Error:            certsdk.ErrorCodeInvalidName,
			ErrorDescription: invalidName.Error(),
			Field:            invalidName.Field,
		})

	case errors.As(err, &throttled):
		next := throttled.NextAllowedAt.UTC()
		days := throttled.DaysRemaining
		httpx.WriteJSON(w, http.StatusTooManyRequests, certsdk.ErrorResponse{
			Error:            certsdk.ErrorCodeNameChangeThrottled,
			ErrorDescription: "Certification name can only be changed once every 30 days",
			NextAllowedAt:    &next,
			DaysRemaining:    &days,
		})

	case errors.As(err, &issued):
		at := issued.IssuedAt.UTC()
		httpx.WriteJSON(w, http.StatusConflict, certsdk.ErrorResponse{
			Error:            certsdk.ErrorCodeAlreadyIssued,
			ErrorDescription: "A certificate has already been issued for this account",
			CertificateID:    issued.CertificateID,
			IssuedAt:         &at,
		})

	case errors.As(err, &idGen):
		slogx.FromContext(r.Context()).Error("certificate id allocation failed", "err", err)
		w.Header().Set("Retry-After", "1")
		writeError(w, http.StatusServiceUnavailable, certsdk.ErrorCodeTryAgain, "Please try again")

	case errors.Is(err, service.ErrLearnerNotFound):
		writeError(w, http.StatusNotFound, certsdk.ErrorCodeNotFound, "Learner not found")

	case errors.Is(err, service.ErrCertificateNotFound):
		writeError(w, http.StatusNotFound, certsdk.ErrorCodeNotFound, "No certificate has been issued for this account")

	case errors.Is(err, service.ErrInvalidLesson):
		writeError(w, http.StatusBadRequest, certsdk.ErrorCodeInvalidRequest, "Invalid lesson id")

	default:
		slogx.FromContext(r.Context()).Error("request failed", "err", err)
		writeServerError(w)
	}
}

func notEligibleDescription(e service.Eligibility) string {
	if e.Reason == service.ReasonSubscriptionRequired {
		return "An active premium or lifetime subscription is required"
	}
	return "All lessons must be completed before a certificate can be issued"
}

func learnerID(r *http.Request) string {
	id, _ := httpx.UserIDFromContext(r.Context())
	return id
}
