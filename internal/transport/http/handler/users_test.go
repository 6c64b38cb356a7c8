package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/adgate/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// --- mock ---

type mockTierStore struct{ mock.Mock }

func (m *mockTierStore) SetTier(ctx context.Context, userID int64, tier string) error {
	return m.Called(ctx, userID, tier).Error(0)
}

// --- helpers ---

func setTierReq(id string, body []byte) *http.Request {
	r := httptest.NewRequest(http.MethodPut, "/v1/users/"+id+"/tier", bytes.NewReader(body))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func tierBody(tier string) []byte {
	b, _ := json.Marshal(map[string]string{"tier": tier})
	return b
}

// --- SetTier tests ---

func TestSetTier_HappyPath(t *testing.T) {
	ts := &mockTierStore{}
	ts.On("SetTier", mock.Anything, int64(42), domain.TierPremium).Return(nil)
	h := NewUsersHandler(ts)

	rr := httptest.NewRecorder()
	h.SetTier(rr, setTierReq("42", tierBody(domain.TierPremium)))

	assert.Equal(t, http.StatusOK, rr.Code)
	ts.AssertExpectations(t)
}

func TestSetTier_InvalidUserID(t *testing.T) {
	ts := &mockTierStore{}
	h := NewUsersHandler(ts)

	rr := httptest.NewRecorder()
	h.SetTier(rr, setTierReq("not-a-number", tierBody(domain.TierPaid)))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	ts.AssertNotCalled(t, "SetTier", mock.Anything, mock.Anything, mock.Anything)
}

func TestSetTier_UnknownTier(t *testing.T) {
	ts := &mockTierStore{}
	h := NewUsersHandler(ts)

	rr := httptest.NewRecorder()
	h.SetTier(rr, setTierReq("42", tierBody("platinum")))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	ts.AssertNotCalled(t, "SetTier", mock.Anything, mock.Anything, mock.Anything)
}

func TestSetTier_StoreFailure(t *testing.T) {
	ts := &mockTierStore{}
	ts.On("SetTier", mock.Anything, int64(42), domain.TierFree).Return(errors.New("dynamo down"))
	h := NewUsersHandler(ts)

	rr := httptest.NewRecorder()
	h.SetTier(rr, setTierReq("42", tierBody(domain.TierFree)))

	assert.Equal(t, http.StatusBadGateway, rr.Code)
}
