package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/snapvault/service/internal/response"
)

// Handler holds HTTP handlers for auth endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new auth Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type tokenRequest struct {
	APIKey string `json:"apiKey" example:"admin"`
}

type tokenData struct {
	Token string `json:"token" example:"eyJhbGci..."`
}

// Token godoc
//
//	@Summary		Issue an admin token
//	@Description	Exchanges the admin API key for a short-lived JWT used on write endpoints.
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body	tokenRequest	true	"admin API key"
//	@Success		200	{object}	response.Envelope{data=tokenData}
//	@Failure		400	{object}	response.Envelope
//	@Failure		401	{object}	response.Envelope
//	@Router			/auth/token [post]
func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	token, err := h.svc.IssueToken(req.APIKey)
	if err != nil {
		if errors.Is(err, ErrInvalidKey) {
			response.Unauthorized(w, "invalid API key")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, tokenData{Token: token})
}
