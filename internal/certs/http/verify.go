package http

import (
	"bytes"
	"net/http"

	"github.com/usapupgrade/certs/internal/certs/domain"
	"github.com/usapupgrade/certs/internal/certs/render"
	"github.com/usapupgrade/certs/internal/certs/service"
	"github.com/usapupgrade/certs/pkg/certsdk"
	"github.com/usapupgrade/certs/pkg/httpx"
)

// VerifyHandler serves the public verification endpoints.
type VerifyHandler struct {
	CertificateService *service.CertificateService
	Renderer           *render.Renderer
}

// HandleGet godoc
//
//	@Summary		Verify Certificate
//	@Description	Checks a certificate ID against the name printed on it. An invalid certificate is a 200 with valid=false and a reason.
//	@Tags			Verification
//	@Produce		json
//	@Param			certificate_id	query		string					true	"Certificate ID, e.g. UC-2025-07-31-12-00-00-042"
//	@Param			name			query		string					true	"Full name as printed"
//	@Success		200				{object}	certsdk.VerifyResponse	"valid, reason, certificate"
//	@Failure		400				{object}	certsdk.ErrorResponse	"error, error_description"
//	@Failure		429				{object}	certsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/certificates/verify [get].
func (h *VerifyHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := certsdk.VerifyRequest{
		CertificateID: q.Get("certificate_id"),
		Name:          q.Get("name"),
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, certsdk.ErrorCodeInvalidRequest, validationMessage(err))
		return
	}
	h.verify(w, r, req)
}

// HandlePost godoc
//
//	@Summary		Verify Certificate
//	@Description	Same as the GET form, with the inputs in a JSON body.
//	@Tags			Verification
//	@Accept			json
//	@Produce		json
//	@Param			request	body		certsdk.VerifyRequest	true	"certificate_id and name"
//	@Success		200		{object}	certsdk.VerifyResponse	"valid, reason, certificate"
//	@Failure		400		{object}	certsdk.ErrorResponse	"error, error_description"
//	@Failure		429		{object}	certsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/certificates/verify [post].
func (h *VerifyHandler) HandlePost(w http.ResponseWriter, r *http.Request) {
	var req certsdk.VerifyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	h.verify(w, r, req)
}

func (h *VerifyHandler) verify(w http.ResponseWriter, r *http.Request, req certsdk.VerifyRequest) {
	v, err := h.CertificateService.VerifyCertificate(r.Context(), req.CertificateID, req.Name)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := certsdk.VerifyResponse{
		Valid:  v.Valid,
		Reason: string(v.Reason),
	}
	if v.Certificate != nil {
		dto := certificateDTO(*v.Certificate, h.Renderer)
		resp.Certificate = &dto
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandlePDF godoc
//
//	@Summary		Download Verified Certificate PDF
//	@Description	Renders the certificate PDF, only when the ID and name verify.
//	@Tags			Verification
//	@Produce		application/pdf
//	@Param			id		path		string					true	"Certificate ID"
//	@Param			name	query		string					true	"Full name as printed"
//	@Success		200		{file}		binary					"PDF document"
//	@Failure		400		{object}	certsdk.ErrorResponse	"error, error_description"
//	@Failure		404		{object}	certsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/certificates/{id}/pdf [get].
func (h *VerifyHandler) HandlePDF(w http.ResponseWriter, r *http.Request) {
	req := certsdk.VerifyRequest{
		CertificateID: r.PathValue("id"),
		Name:          r.URL.Query().Get("name"),
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, certsdk.ErrorCodeInvalidRequest, validationMessage(err))
		return
	}

	v, err := h.CertificateService.VerifyCertificate(r.Context(), req.CertificateID, req.Name)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if !v.Valid {
		writeError(w, http.StatusNotFound, certsdk.ErrorCodeNotFound, "No valid certificate matches that ID and name")
		return
	}

	writePDF(w, r, h.Renderer, *v.Certificate)
}

// writePDF renders into memory first so a render failure can still become
// a JSON error.
func writePDF(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, c domain.Certificate) {
	var buf bytes.Buffer
	if err := renderer.Render(&buf, c); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	w.Header().Set("Content-Type", render.ContentType)
	w.Header().Set("Content-Disposition", contentDisposition(renderer.Filename(c)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
