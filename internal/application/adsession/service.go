package adsession

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/adgate/internal/application/verification"
	"github.com/adgate/internal/domain"
	"github.com/adgate/internal/infrastructure/sns"
	"github.com/adgate/internal/pkg/token"
)

// SessionValidity is how long an ad session may satisfy a consumption
// attempt after creation.
const SessionValidity = 30 * time.Minute

// SessionStore is the persistence contract for ad sessions. MarkUsed must be
// atomic: of any number of concurrent calls for the same session, at most
// one may return true.
type SessionStore interface {
	Put(ctx context.Context, s *domain.AdSession) error
	Get(ctx context.Context, sessionID string) (*domain.AdSession, error)
	MarkUsed(ctx context.Context, sessionID string) (bool, error)
	Delete(ctx context.Context, sessionID string) error
}

// CodeStore persists freshly issued verification codes.
type CodeStore interface {
	Put(ctx context.Context, c *domain.VerificationCode) error
}

type Service interface {
	// Create generates an opaque session token for the user and persists it.
	Create(ctx context.Context, userID int64) (string, error)
	// AdLink creates a session and returns the landing-page URL carrying it.
	AdLink(ctx context.Context, userID int64) (sessionID, link string, err error)
	// Consume validates a session, marks it used exactly once, and exchanges
	// it for a verification code. Fails with domain.ErrNotFound,
	// domain.ErrExpired or domain.ErrAlreadyUsed.
	Consume(ctx context.Context, sessionID string) (string, error)
}

type service struct {
	sessions   SessionStore
	codes      CodeStore
	events     sns.Publisher // nil disables event fan-out
	landingURL string
	botDomain  string
}

func NewService(sessions SessionStore, codes CodeStore, events sns.Publisher, landingURL, botDomain string) Service {
	return &service{
		sessions:   sessions,
		codes:      codes,
		events:     events,
		landingURL: landingURL,
		botDomain:  botDomain,
	}
}

func (s *service) Create(ctx context.Context, userID int64) (string, error) {
	sessionID, err := token.NewSessionID()
	if err != nil {
		return "", err
	}
	now := time.Now().UTC()
	sess := &domain.AdSession{
		SessionID: sessionID,
		UserID:    userID,
		Used:      false,
		CreatedAt: now,
		ExpiresAt: now.Add(SessionValidity).Unix(),
	}
	if err := s.sessions.Put(ctx, sess); err != nil {
		return "", err
	}
	slog.Info("created ad session", "session_id", sessionID, "user_id", userID)
	return sessionID, nil
}

// AdLink sends the user to the landing page with their session; the page's
// script walks them through the ad placement and calls the completion
// endpoint back on app_url when a bot domain is configured.
func (s *service) AdLink(ctx context.Context, userID int64) (string, string, error) {
	sessionID, err := s.Create(ctx, userID)
	if err != nil {
		return "", "", err
	}
	link := s.landingURL + "?session=" + sessionID
	if s.botDomain != "" {
		link += "&app_url=" + url.QueryEscape(s.botDomain)
	}
	slog.Info("issued ad link", "user_id", userID, "session_id", sessionID)
	return sessionID, link, nil
}

func (s *service) Consume(ctx context.Context, sessionID string) (string, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return "", err
	}

	if time.Since(sess.CreatedAt) > SessionValidity {
		if err := s.sessions.Delete(ctx, sessionID); err != nil {
			slog.Warn("failed to delete expired ad session", "session_id", sessionID, "err", err)
		}
		return "", fmt.Errorf("ad session %s: %w", sessionID, domain.ErrExpired)
	}

	ok, err := s.sessions.MarkUsed(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("ad session %s: %w", sessionID, domain.ErrAlreadyUsed)
	}

	code, err := token.NewVerificationCode()
	if err != nil {
		return "", err
	}
	now := time.Now().UTC()
	if err := s.codes.Put(ctx, &domain.VerificationCode{
		Code:      code,
		UserID:    sess.UserID,
		CreatedAt: now,
		ExpiresAt: now.Add(verification.CodeValidity).Unix(),
	}); err != nil {
		return "", err
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		slog.Warn("failed to delete consumed ad session", "session_id", sessionID, "err", err)
	}

	slog.Info("ad session consumed", "session_id", sessionID, "user_id", sess.UserID, "code", code)
	if s.events != nil {
		go s.events.Publish(context.WithoutCancel(ctx), "session_consumed", map[string]string{
			"session_id": sessionID,
			"user_id":    strconv.FormatInt(sess.UserID, 10),
		})
	}
	return code, nil
}
