package certsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

const (
	ErrorCodeInvalidRequest      = "invalid_request"
	ErrorCodeInvalidToken        = "invalid_token"
	ErrorCodeForbidden           = "forbidden"
	ErrorCodeNotFound            = "not_found"
	ErrorCodeNotEligible         = "not_eligible"
	ErrorCodeInvalidName         = "invalid_name"
	ErrorCodeNameChangeThrottled = "name_change_throttled"
	ErrorCodeAlreadyIssued       = "already_issued"
	ErrorCodeTryAgain            = "try_again"
	ErrorCodeRateLimitExceeded   = "rate_limit_exceeded"
	ErrorCodeServerError         = "server_error"
)

// APIError is returned by the client for every non-2xx response.
type APIError struct {
	StatusCode int
	ErrorResponse
}

func (e *APIError) Error() string {
	return fmt.Sprintf("certs api: %d %s: %s", e.StatusCode, e.ErrorResponse.Error, e.ErrorDescription)
}

// IsCode reports whether err is an APIError with the given error code.
func IsCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.ErrorResponse.Error == code
}

// parseError reads resp into an APIError. Bodies that are not JSON still
// produce an error carrying the status code.
func parseError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	apiErr := &APIError{StatusCode: resp.StatusCode}
	if err := json.Unmarshal(body, &apiErr.ErrorResponse); err != nil || apiErr.ErrorResponse.Error == "" {
		apiErr.ErrorResponse = ErrorResponse{
			Error:            ErrorCodeServerError,
			ErrorDescription: http.StatusText(resp.StatusCode),
		}
	}
	return apiErr
}
