// Package certsdk is a Go client for the certificates API.
package certsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the certificates service. Token is the learner's Supabase
// access token; public operations work without it.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Token      string
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// WithToken returns a copy of c that authenticates as a learner.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.Token = token
	return &cp
}

// PDF is a downloaded certificate document.
type PDF struct {
	Filename string
	Data     []byte
}

// ============================================================================
// Public
// ============================================================================

func (c *Client) Verify(ctx context.Context, certificateID, name string) (VerifyResponse, error) {
	var out VerifyResponse
	err := c.doJSON(ctx, http.MethodPost, "/v1/certificates/verify", VerifyRequest{
		CertificateID: certificateID,
		Name:          name,
	}, &out)
	return out, err
}

// PublicPDF downloads the PDF for a certificate the caller can name.
func (c *Client) PublicPDF(ctx context.Context, certificateID, name string) (PDF, error) {
	q := url.Values{"name": {name}}
	return c.doPDF(ctx, "/v1/certificates/"+url.PathEscape(certificateID)+"/pdf?"+q.Encode())
}

func (c *Client) Livez(ctx context.Context) (HealthResponse, error) {
	var out HealthResponse
	err := c.doJSON(ctx, http.MethodGet, "/livez", nil, &out)
	return out, err
}

// Readyz returns the health report even when the service is not ready, in
// which case the error is an *APIError with status 503.
func (c *Client) Readyz(ctx context.Context) (HealthResponse, error) {
	resp, err := c.do(ctx, http.MethodGet, "/readyz", nil, "application/json")
	if err != nil {
		return HealthResponse{}, err
	}
	defer resp.Body.Close()

	var out HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return HealthResponse{}, fmt.Errorf("failed to decode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return out, &APIError{StatusCode: resp.StatusCode, ErrorResponse: ErrorResponse{
			Error:            ErrorCodeServerError,
			ErrorDescription: "service " + out.Status,
		}}
	}
	return out, nil
}

// ============================================================================
// Learner
// ============================================================================

func (c *Client) Status(ctx context.Context) (CertificateStatusResponse, error) {
	var out CertificateStatusResponse
	err := c.doJSON(ctx, http.MethodGet, "/v1/certificates/me", nil, &out)
	return out, err
}

func (c *Client) Issue(ctx context.Context) (Certificate, error) {
	var out Certificate
	err := c.doJSON(ctx, http.MethodPost, "/v1/certificates", nil, &out)
	return out, err
}

func (c *Client) DownloadPDF(ctx context.Context) (PDF, error) {
	return c.doPDF(ctx, "/v1/certificates/me/pdf")
}

func (c *Client) CertificationName(ctx context.Context) (CertificationNameResponse, error) {
	var out CertificationNameResponse
	err := c.doJSON(ctx, http.MethodGet, "/v1/certification-name", nil, &out)
	return out, err
}

func (c *Client) ChangeCertificationName(ctx context.Context, firstName, lastName string) (CertificationNameResponse, error) {
	var out CertificationNameResponse
	err := c.doJSON(ctx, http.MethodPut, "/v1/certification-name", CertificationNameRequest{
		FirstName: firstName,
		LastName:  lastName,
	}, &out)
	return out, err
}

func (c *Client) CompleteLesson(ctx context.Context, lessonID string) (LessonCompletionResponse, error) {
	var out LessonCompletionResponse
	err := c.doJSON(ctx, http.MethodPost, "/v1/progress/lessons/"+url.PathEscape(lessonID), nil, &out)
	return out, err
}

// ============================================================================
// Transport
// ============================================================================

func (c *Client) do(ctx context.Context, method, path string, body any, accept string) (*http.Response, error) {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rdr)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", accept)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	return resp, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	resp, err := c.do(ctx, method, path, body, "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return parseError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) doPDF(ctx context.Context, path string) (PDF, error) {
	resp, err := c.do(ctx, http.MethodGet, path, nil, "application/pdf")
	if err != nil {
		return PDF{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return PDF{}, parseError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return PDF{}, fmt.Errorf("failed to read pdf: %w", err)
	}

	pdf := PDF{Data: data}
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		pdf.Filename = params["filename"]
	}
	return pdf, nil
}
