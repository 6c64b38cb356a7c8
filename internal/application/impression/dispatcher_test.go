package impression

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/adgate/internal/domain"
	"github.com/gotd/td/tg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// --- mocks ---

type mockTierStore struct{ mock.Mock }

func (m *mockTierStore) GetTier(ctx context.Context, userID int64) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

type mockAdSource struct{ mock.Mock }

func (m *mockAdSource) Fetch(ctx context.Context, locale string, userID int64) ([]domain.Ad, error) {
	args := m.Called(ctx, locale, userID)
	if ads, _ := args.Get(0).([]domain.Ad); ads != nil {
		return ads, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockAdSource) TrackImpression(ctx context.Context, beaconURL string) {
	m.Called(ctx, beaconURL)
}

type mockMessenger struct{ mock.Mock }

func (m *mockMessenger) SendText(ctx context.Context, peer tg.InputPeerClass, text string, btn domain.Button) error {
	return m.Called(ctx, peer, text, btn).Error(0)
}
func (m *mockMessenger) SendPhoto(ctx context.Context, peer tg.InputPeerClass, photoURL, caption string, btn domain.Button) error {
	return m.Called(ctx, peer, photoURL, caption, btn).Error(0)
}

// --- helpers ---

var testPeer = &tg.InputPeerUser{UserID: 42}

func newDispatcher(ts *mockTierStore, src *mockAdSource, msg *mockMessenger) *Dispatcher {
	return NewDispatcher(ts, src, msg, nil, DefaultFallback("https://offers.example.com"), time.Minute)
}

func freeTier(ts *mockTierStore) {
	ts.On("GetTier", mock.Anything, int64(42)).Return(domain.TierFree, nil)
}

func textAd() []domain.Ad {
	return []domain.Ad{{
		Message: "Try SuperVPN today",
		Button:  "Install",
		Link:    "https://ads.example.com/click",
		Title:   "SuperVPN",
		Brand:   "Super",
	}}
}

// --- MaybeShow tests ---

func TestMaybeShow_PrivilegedTierSkipped(t *testing.T) {
	ts, src, msg := &mockTierStore{}, &mockAdSource{}, &mockMessenger{}
	ts.On("GetTier", mock.Anything, int64(42)).Return(domain.TierPremium, nil)

	newDispatcher(ts, src, msg).MaybeShow(context.Background(), testPeer, 42, "en")

	src.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything, mock.Anything)
	msg.AssertNotCalled(t, "SendText", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMaybeShow_UnknownUserCountsAsFree(t *testing.T) {
	ts, src, msg := &mockTierStore{}, &mockAdSource{}, &mockMessenger{}
	ts.On("GetTier", mock.Anything, int64(42)).Return("", domain.ErrNotFound)
	src.On("Fetch", mock.Anything, "en", int64(42)).Return(textAd(), nil)
	msg.On("SendText", mock.Anything, testPeer, "Try SuperVPN today", mock.Anything).Return(nil)

	newDispatcher(ts, src, msg).MaybeShow(context.Background(), testPeer, 42, "en")

	msg.AssertCalled(t, "SendText", mock.Anything, testPeer, "Try SuperVPN today", mock.Anything)
}

func TestMaybeShow_TierLookupErrorSkipsImpression(t *testing.T) {
	ts, src, msg := &mockTierStore{}, &mockAdSource{}, &mockMessenger{}
	ts.On("GetTier", mock.Anything, int64(42)).Return("", errors.New("dynamo unavailable"))

	newDispatcher(ts, src, msg).MaybeShow(context.Background(), testPeer, 42, "en")

	src.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything, mock.Anything)
	msg.AssertNotCalled(t, "SendText", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMaybeShow_TextCreative(t *testing.T) {
	ts, src, msg := &mockTierStore{}, &mockAdSource{}, &mockMessenger{}
	freeTier(ts)
	src.On("Fetch", mock.Anything, "en", int64(42)).Return(textAd(), nil)
	msg.On("SendText", mock.Anything, testPeer, "Try SuperVPN today",
		domain.Button{Text: "Install", URL: "https://ads.example.com/click"}).Return(nil)

	d := newDispatcher(ts, src, msg)
	d.MaybeShow(context.Background(), testPeer, 42, "en")

	assert.Equal(t, int64(1), d.Impressions())
	msg.AssertExpectations(t)
}

func TestMaybeShow_DefaultButtonText(t *testing.T) {
	ts, src, msg := &mockTierStore{}, &mockAdSource{}, &mockMessenger{}
	freeTier(ts)
	ads := textAd()
	ads[0].Button = ""
	src.On("Fetch", mock.Anything, "en", int64(42)).Return(ads, nil)
	msg.On("SendText", mock.Anything, testPeer, "Try SuperVPN today",
		domain.Button{Text: "View Ad", URL: "https://ads.example.com/click"}).Return(nil)

	newDispatcher(ts, src, msg).MaybeShow(context.Background(), testPeer, 42, "en")

	msg.AssertExpectations(t)
}

func TestMaybeShow_PhotoCreativePrefersPreload(t *testing.T) {
	ts, src, msg := &mockTierStore{}, &mockAdSource{}, &mockMessenger{}
	freeTier(ts)
	ads := textAd()
	ads[0].Image = "https://cdn.example.com/full.jpg"
	ads[0].ImagePreload = "https://cdn.example.com/preload.jpg"
	src.On("Fetch", mock.Anything, "en", int64(42)).Return(ads, nil)
	msg.On("SendPhoto", mock.Anything, testPeer, "https://cdn.example.com/preload.jpg",
		"Try SuperVPN today", mock.Anything).Return(nil)

	newDispatcher(ts, src, msg).MaybeShow(context.Background(), testPeer, 42, "en")

	msg.AssertExpectations(t)
	msg.AssertNotCalled(t, "SendText", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMaybeShow_PhotoFailureRetriesAsText(t *testing.T) {
	ts, src, msg := &mockTierStore{}, &mockAdSource{}, &mockMessenger{}
	freeTier(ts)
	ads := textAd()
	ads[0].Image = "https://cdn.example.com/full.jpg"
	src.On("Fetch", mock.Anything, "en", int64(42)).Return(ads, nil)
	msg.On("SendPhoto", mock.Anything, testPeer, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("WEBPAGE_CURL_FAILED"))
	msg.On("SendText", mock.Anything, testPeer, "Try SuperVPN today", mock.Anything).Return(nil)

	d := newDispatcher(ts, src, msg)
	d.MaybeShow(context.Background(), testPeer, 42, "en")

	assert.Equal(t, int64(1), d.Impressions())
	msg.AssertExpectations(t)
}

func TestMaybeShow_FetchErrorFallsBack(t *testing.T) {
	ts, src, msg := &mockTierStore{}, &mockAdSource{}, &mockMessenger{}
	freeTier(ts)
	src.On("Fetch", mock.Anything, "en", int64(42)).Return(nil, errors.New("network timeout"))
	msg.On("SendText", mock.Anything, testPeer, mock.Anything,
		domain.Button{Text: "View Offers", URL: "https://offers.example.com"}).Return(nil)

	d := newDispatcher(ts, src, msg)
	d.MaybeShow(context.Background(), testPeer, 42, "en")

	assert.Equal(t, int64(1), d.Impressions())
	msg.AssertExpectations(t)
}

func TestMaybeShow_NoCreativesFallsBack(t *testing.T) {
	ts, src, msg := &mockTierStore{}, &mockAdSource{}, &mockMessenger{}
	freeTier(ts)
	src.On("Fetch", mock.Anything, "en", int64(42)).Return([]domain.Ad{}, nil)
	msg.On("SendText", mock.Anything, testPeer, mock.Anything, mock.Anything).Return(nil)

	newDispatcher(ts, src, msg).MaybeShow(context.Background(), testPeer, 42, "en")

	msg.AssertCalled(t, "SendText", mock.Anything, testPeer, mock.Anything,
		domain.Button{Text: "View Offers", URL: "https://offers.example.com"})
}

func TestMaybeShow_MissingLinkFallsBack(t *testing.T) {
	ts, src, msg := &mockTierStore{}, &mockAdSource{}, &mockMessenger{}
	freeTier(ts)
	ads := textAd()
	ads[0].Link = ""
	src.On("Fetch", mock.Anything, "en", int64(42)).Return(ads, nil)
	msg.On("SendText", mock.Anything, testPeer, mock.Anything, mock.Anything).Return(nil)

	newDispatcher(ts, src, msg).MaybeShow(context.Background(), testPeer, 42, "en")

	msg.AssertCalled(t, "SendText", mock.Anything, testPeer, mock.Anything,
		domain.Button{Text: "View Offers", URL: "https://offers.example.com"})
}

func TestMaybeShow_AllSendsFailFallsBack(t *testing.T) {
	ts, src, msg := &mockTierStore{}, &mockAdSource{}, &mockMessenger{}
	freeTier(ts)
	src.On("Fetch", mock.Anything, "en", int64(42)).Return(textAd(), nil)
	msg.On("SendText", mock.Anything, testPeer, "Try SuperVPN today", mock.Anything).
		Return(errors.New("PEER_FLOOD"))
	msg.On("SendText", mock.Anything, testPeer, mock.Anything,
		domain.Button{Text: "View Offers", URL: "https://offers.example.com"}).Return(nil)

	d := newDispatcher(ts, src, msg)
	d.MaybeShow(context.Background(), testPeer, 42, "en")

	assert.Equal(t, int64(1), d.Impressions())
}

func TestMaybeShow_CooldownSuppressesSecondImpression(t *testing.T) {
	ts, src, msg := &mockTierStore{}, &mockAdSource{}, &mockMessenger{}
	freeTier(ts)
	src.On("Fetch", mock.Anything, "en", int64(42)).Return(textAd(), nil)
	msg.On("SendText", mock.Anything, testPeer, mock.Anything, mock.Anything).Return(nil)

	d := newDispatcher(ts, src, msg)
	d.MaybeShow(context.Background(), testPeer, 42, "en")
	d.MaybeShow(context.Background(), testPeer, 42, "en")

	assert.Equal(t, int64(1), d.Impressions())
	src.AssertNumberOfCalls(t, "Fetch", 1)
}

func TestMaybeShow_FailedFallbackDoesNotStartCooldown(t *testing.T) {
	ts, src, msg := &mockTierStore{}, &mockAdSource{}, &mockMessenger{}
	freeTier(ts)
	src.On("Fetch", mock.Anything, "en", int64(42)).Return(nil, errors.New("network timeout"))
	msg.On("SendText", mock.Anything, testPeer, mock.Anything, mock.Anything).
		Return(errors.New("PEER_FLOOD"))

	d := newDispatcher(ts, src, msg)
	d.MaybeShow(context.Background(), testPeer, 42, "en")
	d.MaybeShow(context.Background(), testPeer, 42, "en")

	assert.Equal(t, int64(0), d.Impressions())
	src.AssertNumberOfCalls(t, "Fetch", 2)
}

func TestMaybeShow_FiresImpressionBeacon(t *testing.T) {
	ts, src, msg := &mockTierStore{}, &mockAdSource{}, &mockMessenger{}
	freeTier(ts)
	ads := textAd()
	ads[0].NotificationURL = "https://ads.example.com/imp/123"
	src.On("Fetch", mock.Anything, "en", int64(42)).Return(ads, nil)
	msg.On("SendText", mock.Anything, testPeer, mock.Anything, mock.Anything).Return(nil)

	fired := make(chan struct{})
	src.On("TrackImpression", mock.Anything, "https://ads.example.com/imp/123").
		Run(func(mock.Arguments) { close(fired) }).Return()

	newDispatcher(ts, src, msg).MaybeShow(context.Background(), testPeer, 42, "en")

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("impression beacon never fired")
	}
}
