package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/adgate/internal/pkg/validate"
	"github.com/go-chi/chi/v5"
)

// TierStore updates user account tiers.
type TierStore interface {
	SetTier(ctx context.Context, userID int64, tier string) error
}

// UsersHandler exposes account management to operators. Moving a user to a
// paid tier stops sponsored impressions on their very next interaction.
type UsersHandler struct {
	tiers TierStore
}

func NewUsersHandler(tiers TierStore) *UsersHandler {
	return &UsersHandler{tiers: tiers}
}

type setTierRequest struct {
	Tier string `json:"tier" validate:"required,oneof=free paid premium admin"`
}

func (h *UsersHandler) SetTier(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || userID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req setTierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.tiers.SetTier(r.Context(), userID, req.Tier); err != nil {
		writeError(w, http.StatusBadGateway, "user store unavailable, please try again")
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "tier updated"})
}
