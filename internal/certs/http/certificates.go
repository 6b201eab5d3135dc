package http

import (
	"mime"
	"net/http"

	"github.com/usapupgrade/certs/internal/certs/render"
	"github.com/usapupgrade/certs/internal/certs/service"
	"github.com/usapupgrade/certs/pkg/certsdk"
	"github.com/usapupgrade/certs/pkg/httpx"
)

// CertificatesHandler serves the signed-in learner's certificate endpoints.
type CertificatesHandler struct {
	CertificateService *service.CertificateService
	Renderer           *render.Renderer
}

// HandleStatus godoc
//
//	@Summary		Certificate Status
//	@Description	Returns the learner's certificate if issued, otherwise what is still required.
//	@Tags			Certificates
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	certsdk.CertificateStatusResponse	"has_certificate, certificate, requirements"
//	@Failure		401	{object}	certsdk.ErrorResponse				"error, error_description"
//	@Failure		500	{object}	certsdk.ErrorResponse				"error, error_description"
//	@Router			/v1/certificates/me [get].
func (h *CertificatesHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.CertificateService.GetCertificateStatus(r.Context(), learnerID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := certsdk.CertificateStatusResponse{
		HasCertificate: status.HasCertificate,
		Requirements:   requirementsDTO(status.Requirements),
	}
	if status.Certificate != nil {
		dto := certificateDTO(*status.Certificate, h.Renderer)
		resp.Certificate = &dto
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleIssue godoc
//
//	@Summary		Issue Certificate
//	@Description	Issues the learner's certificate. Each learner receives at most one; repeats return 409 with the existing ID.
//	@Tags			Certificates
//	@Produce		json
//	@Security		BearerAuth
//	@Success		201	{object}	certsdk.Certificate		"issued certificate"
//	@Failure		400	{object}	certsdk.ErrorResponse	"invalid_name: certification name missing or invalid"
//	@Failure		401	{object}	certsdk.ErrorResponse	"error, error_description"
//	@Failure		403	{object}	certsdk.ErrorResponse	"not_eligible with reason, completed_lessons, required_lessons"
//	@Failure		409	{object}	certsdk.ErrorResponse	"already_issued with certificate_id, issued_at"
//	@Failure		503	{object}	certsdk.ErrorResponse	"try_again"
//	@Router			/v1/certificates [post].
func (h *CertificatesHandler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	c, err := h.CertificateService.IssueCertificate(r.Context(), learnerID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Location", "/v1/certificates/me")
	httpx.WriteJSON(w, http.StatusCreated, certificateDTO(c, h.Renderer))
}

// HandlePDF godoc
//
//	@Summary		Download Certificate PDF
//	@Description	Renders the learner's certificate as a Letter landscape PDF.
//	@Tags			Certificates
//	@Produce		application/pdf
//	@Security		BearerAuth
//	@Success		200	{file}		binary					"PDF document"
//	@Failure		401	{object}	certsdk.ErrorResponse	"error, error_description"
//	@Failure		404	{object}	certsdk.ErrorResponse	"no certificate issued"
//	@Router			/v1/certificates/me/pdf [get].
func (h *CertificatesHandler) HandlePDF(w http.ResponseWriter, r *http.Request) {
	c, err := h.CertificateService.GetCertificate(r.Context(), learnerID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writePDF(w, r, h.Renderer, c)
}

func contentDisposition(filename string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": filename})
}
