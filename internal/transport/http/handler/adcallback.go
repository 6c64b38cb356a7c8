package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/adgate/internal/application/adsession"
	"github.com/adgate/internal/domain"
	"github.com/adgate/internal/pkg/validate"
)

// Guidance text returned to the landing page, which displays it verbatim.
const (
	msgSessionInvalid = "Invalid or expired session. Please start over with /getpremium"
	msgSessionExpired = "Session expired. Please start over with /getpremium"
	msgSessionUsed    = "This session has already been used. Please use /getpremium to get a new link."
	msgSessionDone    = "Ad completed! Here's your verification code"
)

// AdCallbackHandler receives completion callbacks from the ad landing page.
type AdCallbackHandler struct {
	svc adsession.Service
}

func NewAdCallbackHandler(svc adsession.Service) *AdCallbackHandler {
	return &AdCallbackHandler{svc: svc}
}

type adCallbackRequest struct {
	SessionID string `json:"session_id" validate:"required,len=32,hexadecimal"`
}

// Complete consumes the caller's ad session and returns the one-time
// verification code the user submits back to the bot.
func (h *AdCallbackHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req adCallbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	code, err := h.svc.Consume(r.Context(), req.SessionID)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, CodeEnvelope{Code: code, Message: msgSessionDone})
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, msgSessionInvalid)
	case errors.Is(err, domain.ErrExpired):
		writeError(w, http.StatusGone, msgSessionExpired)
	case errors.Is(err, domain.ErrAlreadyUsed):
		writeError(w, http.StatusConflict, msgSessionUsed)
	default:
		writeError(w, http.StatusBadGateway, "session store unavailable, please try again")
	}
}
