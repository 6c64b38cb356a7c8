package impression

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/adgate/internal/domain"
	"github.com/adgate/internal/infrastructure/sns"
	"github.com/gotd/td/tg"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultCooldown is the minimum time between sponsored impressions per user.
const DefaultCooldown = 5 * time.Minute

// cooldownEntries bounds the in-process cooldown map; entries also age out
// with the cooldown TTL.
const cooldownEntries = 8192

// TierStore resolves a user's account tier.
type TierStore interface {
	GetTier(ctx context.Context, userID int64) (string, error)
}

// AdSource fetches creatives and reports impressions.
type AdSource interface {
	Fetch(ctx context.Context, locale string, userID int64) ([]domain.Ad, error)
	TrackImpression(ctx context.Context, beaconURL string)
}

// Messenger renders a creative to the chat.
type Messenger interface {
	SendText(ctx context.Context, peer tg.InputPeerClass, text string, btn domain.Button) error
	SendPhoto(ctx context.Context, peer tg.InputPeerClass, photoURL, caption string, btn domain.Button) error
}

// Fallback is the static offer shown when the ad network cannot serve.
type Fallback struct {
	Caption    string
	ButtonText string
	Link       string
}

// DefaultFallback mirrors the offer text shown when no creative is available.
func DefaultFallback(link string) Fallback {
	return Fallback{
		Caption:    "📢 Check Out Our Latest Offers!\n\nDiscover amazing deals and exclusive content.\n\nClick the button below to learn more!",
		ButtonText: "View Offers",
		Link:       link,
	}
}

// Dispatcher shows sponsored messages on a per-user cooldown, recovering
// from any upstream failure with the fallback offer. Callers never observe
// an error: a failed display is only logged.
type Dispatcher struct {
	tiers    TierStore
	ads      AdSource
	msg      Messenger
	events   sns.Publisher // nil disables event fan-out
	fallback Fallback

	cooldown *expirable.LRU[int64, time.Time]
	period   time.Duration

	impressions atomic.Int64
}

func NewDispatcher(tiers TierStore, ads AdSource, msg Messenger, events sns.Publisher, fallback Fallback, period time.Duration) *Dispatcher {
	if period <= 0 {
		period = DefaultCooldown
	}
	return &Dispatcher{
		tiers:    tiers,
		ads:      ads,
		msg:      msg,
		events:   events,
		fallback: fallback,
		cooldown: expirable.NewLRU[int64, time.Time](cooldownEntries, nil, period),
		period:   period,
	}
}

// MaybeShow displays at most one sponsored message to the user: skipped for
// privileged tiers and inside the cooldown window, otherwise a fetched
// creative or the fallback offer. Every display advances the cooldown.
func (d *Dispatcher) MaybeShow(ctx context.Context, peer tg.InputPeerClass, userID int64, locale string) {
	tier, err := d.tiers.GetTier(ctx, userID)
	switch {
	case err == nil && domain.Privileged(tier):
		return
	case err != nil && !errors.Is(err, domain.ErrNotFound):
		// Store trouble. Skip the impression rather than risk showing
		// an ad to a user who already paid for none.
		slog.Warn("tier lookup failed, skipping ad", "user_id", userID, "err", err)
		return
	}
	// Unknown users count as free tier: first-contact users have no row yet
	// and ads are the revenue path.

	if last, ok := d.cooldown.Get(userID); ok && time.Since(last) < d.period {
		return
	}

	ads, err := d.ads.Fetch(ctx, locale, userID)
	if err != nil {
		slog.Warn("ad fetch failed, using fallback", "user_id", userID, "err", err)
		d.showFallback(ctx, peer, userID)
		return
	}
	if len(ads) == 0 {
		slog.Info("ad network returned no creatives, using fallback", "user_id", userID)
		d.showFallback(ctx, peer, userID)
		return
	}

	ad := ads[0]
	if ad.Link == "" {
		slog.Warn("creative missing click link, using fallback", "user_id", userID, "title", ad.Title)
		d.showFallback(ctx, peer, userID)
		return
	}
	btn := domain.Button{Text: ad.Button, URL: ad.Link}
	if btn.Text == "" {
		btn.Text = "View Ad"
	}

	var sendErr error
	if photo := ad.PhotoURL(); photo != "" {
		sendErr = d.msg.SendPhoto(ctx, peer, photo, ad.Message, btn)
		if sendErr != nil {
			slog.Warn("photo ad send failed, retrying as text", "user_id", userID, "err", sendErr)
			sendErr = d.msg.SendText(ctx, peer, ad.Message, btn)
		}
	} else {
		sendErr = d.msg.SendText(ctx, peer, ad.Message, btn)
	}
	if sendErr != nil {
		slog.Warn("creative send failed, using fallback", "user_id", userID, "err", sendErr)
		d.showFallback(ctx, peer, userID)
		return
	}

	if ad.NotificationURL != "" {
		// Detached beacon; its outcome is deliberately discarded.
		go d.ads.TrackImpression(context.WithoutCancel(ctx), ad.NotificationURL)
	}

	n := d.recordShown(ctx, userID, "creative")
	slog.Info("ad shown", "user_id", userID, "impressions", n, "title", ad.Title, "brand", ad.Brand)
}

func (d *Dispatcher) showFallback(ctx context.Context, peer tg.InputPeerClass, userID int64) {
	btn := domain.Button{Text: d.fallback.ButtonText, URL: d.fallback.Link}
	if err := d.msg.SendText(ctx, peer, d.fallback.Caption, btn); err != nil {
		slog.Error("fallback ad send failed", "user_id", userID, "err", err)
		return
	}
	n := d.recordShown(ctx, userID, "fallback")
	slog.Info("fallback ad shown", "user_id", userID, "impressions", n)
}

func (d *Dispatcher) recordShown(ctx context.Context, userID int64, kind string) int64 {
	d.cooldown.Add(userID, time.Now())
	n := d.impressions.Add(1)
	if d.events != nil {
		go d.events.Publish(context.WithoutCancel(ctx), "impression_shown", map[string]string{
			"user_id": strconv.FormatInt(userID, 10),
			"kind":    kind,
		})
	}
	return n
}

// Impressions returns the process-wide count of displayed sponsored messages.
func (d *Dispatcher) Impressions() int64 {
	return d.impressions.Load()
}
