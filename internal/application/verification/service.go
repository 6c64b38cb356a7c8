package verification

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/adgate/internal/domain"
	"github.com/adgate/internal/infrastructure/sns"
)

const (
	// CodeValidity is how long a verification code may be redeemed.
	CodeValidity = 30 * time.Minute
	// BonusDownloads is the fixed credit granted per redeemed code.
	BonusDownloads = 5
)

// CodeStore looks up and destroys one-time verification codes.
type CodeStore interface {
	Get(ctx context.Context, code string) (*domain.VerificationCode, error)
	Delete(ctx context.Context, code string) error
}

// CreditStore grants bonus download credits.
type CreditStore interface {
	AddDownloads(ctx context.Context, userID int64, n int) error
}

type Service interface {
	// Verify redeems a code for the calling user and returns the number of
	// downloads credited. Fails with domain.ErrNotFound,
	// domain.ErrOwnershipMismatch or domain.ErrExpired.
	Verify(ctx context.Context, code string, userID int64) (int, error)
}

type service struct {
	codes   CodeStore
	credits CreditStore
	events  sns.Publisher // nil disables event fan-out
}

func NewService(codes CodeStore, credits CreditStore, events sns.Publisher) Service {
	return &service{codes: codes, credits: credits, events: events}
}

func (s *service) Verify(ctx context.Context, code string, userID int64) (int, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	rec, err := s.codes.Get(ctx, code)
	if err != nil {
		return 0, err
	}

	// Codes are not transferable; ownership wins over expiry so a foreign
	// code never leaks its expiry state.
	if rec.UserID != userID {
		return 0, fmt.Errorf("code %s belongs to user %d: %w", code, rec.UserID, domain.ErrOwnershipMismatch)
	}

	if time.Since(rec.CreatedAt) > CodeValidity {
		if err := s.codes.Delete(ctx, code); err != nil {
			slog.Warn("failed to delete expired verification code", "code", code, "err", err)
		}
		return 0, fmt.Errorf("code %s: %w", code, domain.ErrExpired)
	}

	// Delete before crediting: a code must satisfy at most one verification.
	if err := s.codes.Delete(ctx, code); err != nil {
		return 0, err
	}
	if err := s.credits.AddDownloads(ctx, userID, BonusDownloads); err != nil {
		return 0, err
	}

	slog.Info("verification code redeemed", "code", code, "user_id", userID, "granted", BonusDownloads)
	if s.events != nil {
		go s.events.Publish(context.WithoutCancel(ctx), "code_redeemed", map[string]string{
			"code":    code,
			"user_id": strconv.FormatInt(userID, 10),
			"granted": strconv.Itoa(BonusDownloads),
		})
	}
	return BonusDownloads, nil
}
