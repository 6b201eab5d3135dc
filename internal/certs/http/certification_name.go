package http

import (
	"net/http"

	"github.com/usapupgrade/certs/internal/certs/service"
	"github.com/usapupgrade/certs/pkg/certsdk"
	"github.com/usapupgrade/certs/pkg/httpx"
)

type CertificationNameHandler struct {
	CertificationNameService *service.CertificationNameService
}

// HandleGet godoc
//
//	@Summary		Get Certification Name
//	@Description	Returns the name printed on future certificates and whether it can be changed now.
//	@Tags			Certification Name
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	certsdk.CertificationNameResponse	"first_name, last_name, can_change, next_allowed_at"
//	@Failure		401	{object}	certsdk.ErrorResponse				"error, error_description"
//	@Router			/v1/certification-name [get].
func (h *CertificationNameHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	cn, err := h.CertificationNameService.GetCertificationName(r.Context(), learnerID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, certificationNameDTO(cn))
}

// HandlePut godoc
//
//	@Summary		Change Certification Name
//	@Description	Sets the name printed on certificates. Allowed once every 30 days; the first change is always allowed.
//	@Tags			Certification Name
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		certsdk.CertificationNameRequest	true	"first_name, last_name"
//	@Success		200		{object}	certsdk.CertificationNameResponse	"updated name and throttle state"
//	@Failure		400		{object}	certsdk.ErrorResponse				"invalid_request or invalid_name"
//	@Failure		401		{object}	certsdk.ErrorResponse				"error, error_description"
//	@Failure		429		{object}	certsdk.ErrorResponse				"name_change_throttled with next_allowed_at, days_remaining"
//	@Router			/v1/certification-name [put].
func (h *CertificationNameHandler) HandlePut(w http.ResponseWriter, r *http.Request) {
	var req certsdk.CertificationNameRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	cn, err := h.CertificationNameService.ChangeCertificationName(r.Context(), learnerID(r), req.FirstName, req.LastName)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, certificationNameDTO(cn))
}
