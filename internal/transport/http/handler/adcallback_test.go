package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/adgate/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mock ---

type mockSessionSvc struct{ mock.Mock }

func (m *mockSessionSvc) Create(ctx context.Context, userID int64) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}
func (m *mockSessionSvc) AdLink(ctx context.Context, userID int64) (string, string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.String(1), args.Error(2)
}
func (m *mockSessionSvc) Consume(ctx context.Context, sessionID string) (string, error) {
	args := m.Called(ctx, sessionID)
	return args.String(0), args.Error(1)
}

// --- helpers ---

const testSessionID = "a3f1b2c4d5e6f7a8b9c0d1e2f3a4b5c6"

func completeReq(body []byte) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/v1/ad-callback", bytes.NewReader(body))
}

func sessionBody(id string) []byte {
	b, _ := json.Marshal(map[string]string{"session_id": id})
	return b
}

// --- Complete tests ---

func TestComplete_HappyPath(t *testing.T) {
	svc := &mockSessionSvc{}
	svc.On("Consume", mock.Anything, testSessionID).Return("A1B2C3D4", nil)
	h := NewAdCallbackHandler(svc)

	rr := httptest.NewRecorder()
	h.Complete(rr, completeReq(sessionBody(testSessionID)))

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp CodeEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "A1B2C3D4", resp.Code)
	assert.NotEmpty(t, resp.Message)
	svc.AssertExpectations(t)
}

func TestComplete_InvalidBody(t *testing.T) {
	svc := &mockSessionSvc{}
	h := NewAdCallbackHandler(svc)

	rr := httptest.NewRecorder()
	h.Complete(rr, completeReq([]byte("not-json")))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "Consume", mock.Anything, mock.Anything)
}

func TestComplete_MissingSessionID(t *testing.T) {
	svc := &mockSessionSvc{}
	h := NewAdCallbackHandler(svc)

	rr := httptest.NewRecorder()
	h.Complete(rr, completeReq([]byte(`{}`)))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestComplete_MalformedSessionID(t *testing.T) {
	svc := &mockSessionSvc{}
	h := NewAdCallbackHandler(svc)

	rr := httptest.NewRecorder()
	h.Complete(rr, completeReq(sessionBody("zz-not-hex")))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "Consume", mock.Anything, mock.Anything)
}

func TestComplete_UnknownSession(t *testing.T) {
	svc := &mockSessionSvc{}
	svc.On("Consume", mock.Anything, testSessionID).Return("", domain.ErrNotFound)
	h := NewAdCallbackHandler(svc)

	rr := httptest.NewRecorder()
	h.Complete(rr, completeReq(sessionBody(testSessionID)))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestComplete_ExpiredSession(t *testing.T) {
	svc := &mockSessionSvc{}
	svc.On("Consume", mock.Anything, testSessionID).Return("", domain.ErrExpired)
	h := NewAdCallbackHandler(svc)

	rr := httptest.NewRecorder()
	h.Complete(rr, completeReq(sessionBody(testSessionID)))

	assert.Equal(t, http.StatusGone, rr.Code)
}

func TestComplete_UsedSession(t *testing.T) {
	svc := &mockSessionSvc{}
	svc.On("Consume", mock.Anything, testSessionID).Return("", domain.ErrAlreadyUsed)
	h := NewAdCallbackHandler(svc)

	rr := httptest.NewRecorder()
	h.Complete(rr, completeReq(sessionBody(testSessionID)))

	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestComplete_StoreFailure(t *testing.T) {
	svc := &mockSessionSvc{}
	svc.On("Consume", mock.Anything, testSessionID).Return("", context.DeadlineExceeded)
	h := NewAdCallbackHandler(svc)

	rr := httptest.NewRecorder()
	h.Complete(rr, completeReq(sessionBody(testSessionID)))

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	var resp MessageEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.NotEmpty(t, resp.Error)
}
