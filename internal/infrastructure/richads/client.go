package richads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/adgate/internal/domain"
)

const (
	fetchTimeout  = 5 * time.Second
	beaconTimeout = 2 * time.Second
)

// Config identifies this publisher to the ad network.
type Config struct {
	APIURL      string
	PublisherID string
	WidgetID    string
	Production  bool
}

// Client fetches sponsored creatives and reports impressions.
type Client struct {
	cfg    Config
	http   *http.Client
	beacon *http.Client
}

func NewClient(cfg Config) *Client {
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: fetchTimeout},
		beacon: &http.Client{Timeout: beaconTimeout},
	}
}

type fetchRequest struct {
	LanguageCode string `json:"language_code"`
	PublisherID  string `json:"publisher_id"`
	WidgetID     string `json:"widget_id"`
	TelegramID   string `json:"telegram_id"`
	Production   bool   `json:"production"`
}

// Fetch requests creatives for the user's locale. The response is a JSON
// array of ads; an empty array is returned as-is so the caller decides on
// fallback content.
func (c *Client) Fetch(ctx context.Context, locale string, userID int64) ([]domain.Ad, error) {
	body, err := json.Marshal(fetchRequest{
		LanguageCode: locale,
		PublisherID:  c.cfg.PublisherID,
		WidgetID:     c.cfg.WidgetID,
		TelegramID:   strconv.FormatInt(userID, 10),
		Production:   c.cfg.Production,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal ad request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build ad request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ad api request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ad api status %d", resp.StatusCode)
	}

	var ads []domain.Ad
	if err := json.NewDecoder(resp.Body).Decode(&ads); err != nil {
		return nil, fmt.Errorf("decode ad response: %w", err)
	}
	return ads, nil
}

// TrackImpression fires the impression beacon. Failure is intentionally
// unobservable: the outcome is logged and discarded, never returned.
func (c *Client) TrackImpression(ctx context.Context, beaconURL string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, beaconURL, nil)
	if err != nil {
		slog.Debug("impression beacon skipped", "err", err)
		return
	}
	resp, err := c.beacon.Do(req)
	if err != nil {
		slog.Debug("impression beacon failed", "err", err)
		return
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
