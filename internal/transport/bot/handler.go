package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/adgate/internal/application/adsession"
	"github.com/adgate/internal/application/transfer"
	"github.com/adgate/internal/application/verification"
	"github.com/adgate/internal/domain"
	"github.com/adgate/internal/pkg/id"
	"github.com/gotd/td/tg"
)

// Messenger is the outbound messaging surface the handler renders to.
type Messenger interface {
	Reply(ctx context.Context, peer tg.InputPeerClass, text string) error
	SendText(ctx context.Context, peer tg.InputPeerClass, text string, btn domain.Button) error
	SendDocument(ctx context.Context, peer tg.InputPeerClass, file tg.InputFileClass, mimeType string, attrs []tg.DocumentAttributeClass) error
}

// AdDispatcher shows a sponsored message when the user is eligible.
type AdDispatcher interface {
	MaybeShow(ctx context.Context, peer tg.InputPeerClass, userID int64, locale string)
}

// Media moves files between Telegram, local disk and the S3 staging area.
type Media interface {
	DownloadToFile(ctx context.Context, loc tg.InputFileLocationClass, size int64, path string, progress transfer.ProgressFunc) error
	Upload(ctx context.Context, path string, progress transfer.ProgressFunc) (tg.InputFileClass, error)
	CanStage() bool
	StageDownload(ctx context.Context, loc tg.InputFileLocationClass, key, contentType string, ttl time.Duration) (string, error)
}

// Handler routes private-chat bot commands and mirrors incoming files.
type Handler struct {
	sessions adsession.Service
	verifier verification.Service
	ads      AdDispatcher
	msg      Messenger
	media    Media
}

func NewHandler(sessions adsession.Service, verifier verification.Service, ads AdDispatcher, msg Messenger, media Media) *Handler {
	return &Handler{
		sessions: sessions,
		verifier: verifier,
		ads:      ads,
		msg:      msg,
		media:    media,
	}
}

// OnNewMessage handles incoming private messages. Errors are swallowed after
// logging: a failed interaction must not take down the update loop.
func (h *Handler) OnNewMessage(ctx context.Context, e tg.Entities, update *tg.UpdateNewMessage) error {
	msg, ok := update.Message.(*tg.Message)
	if !ok || msg.Out {
		return nil
	}
	peerUser, ok := msg.PeerID.(*tg.PeerUser)
	if !ok {
		return nil // private chats only
	}
	user, ok := e.Users[peerUser.UserID]
	if !ok {
		return nil
	}
	peer := &tg.InputPeerUser{UserID: user.ID, AccessHash: user.AccessHash}
	locale := user.LangCode
	if locale == "" {
		locale = "en"
	}

	if msg.Media != nil {
		h.handleMedia(ctx, peer, user.ID, locale, msg)
		return nil
	}

	text := strings.TrimSpace(msg.Message)
	switch {
	case text == "/start" || text == "/help":
		h.reply(ctx, peer, msgWelcome)
	case text == "/getpremium":
		h.handleGetPremium(ctx, peer, user.ID)
	case strings.HasPrefix(text, "/verify"):
		h.handleVerify(ctx, peer, user.ID, strings.TrimSpace(strings.TrimPrefix(text, "/verify")))
	}
	return nil
}

func (h *Handler) handleGetPremium(ctx context.Context, peer tg.InputPeerClass, userID int64) {
	_, link, err := h.sessions.AdLink(ctx, userID)
	if err != nil {
		slog.Error("ad link creation failed", "user_id", userID, "err", err)
		h.reply(ctx, peer, msgAdLinkFailed)
		return
	}
	text := fmt.Sprintf(msgGetPremium, verification.BonusDownloads)
	if err := h.msg.SendText(ctx, peer, text, domain.Button{Text: btnWatchAd, URL: link}); err != nil {
		slog.Error("ad link send failed", "user_id", userID, "err", err)
	}
}

func (h *Handler) handleVerify(ctx context.Context, peer tg.InputPeerClass, userID int64, code string) {
	if code == "" {
		h.reply(ctx, peer, msgVerifyUsage)
		return
	}
	granted, err := h.verifier.Verify(ctx, code, userID)
	h.reply(ctx, peer, verifyReply(granted, err))
}

// verifyReply maps verifier outcomes to user guidance.
func verifyReply(granted int, err error) string {
	switch {
	case err == nil:
		return fmt.Sprintf(msgVerified, granted)
	case errors.Is(err, domain.ErrNotFound):
		return msgCodeInvalid
	case errors.Is(err, domain.ErrOwnershipMismatch):
		return msgCodeForeign
	case errors.Is(err, domain.ErrExpired):
		return msgCodeExpired
	default:
		return msgCodeStoreDown
	}
}

// stagedLinkTTL bounds how long a staged download link stays valid.
const stagedLinkTTL = 30 * time.Minute

// handleMedia mirrors an incoming document back to the sender. With staging
// configured the file streams into S3 and the sender gets a time-limited
// download link; otherwise it goes through a local temp file and a size-tuned
// parallel re-upload. Either way the ad hook fires after delivery.
func (h *Handler) handleMedia(ctx context.Context, peer tg.InputPeerClass, userID int64, locale string, msg *tg.Message) {
	media, ok := msg.Media.(*tg.MessageMediaDocument)
	if !ok {
		return
	}
	doc, ok := media.Document.AsNotEmpty()
	if !ok {
		return
	}

	if h.media.CanStage() {
		h.mirrorStaged(ctx, peer, userID, locale, doc)
		return
	}

	tmp, err := os.CreateTemp("", "adgate-*")
	if err != nil {
		slog.Error("temp file creation failed", "user_id", userID, "err", err)
		h.reply(ctx, peer, msgMirrorFailed)
		return
	}
	path := tmp.Name()
	tmp.Close()
	defer os.Remove(path)

	loc := doc.AsInputDocumentFileLocation()
	if err := h.media.DownloadToFile(ctx, loc, doc.Size, path, nil); err != nil {
		slog.Error("media download failed", "user_id", userID, "doc_id", doc.ID, "err", err)
		h.reply(ctx, peer, msgMirrorFailed)
		return
	}

	file, err := h.media.Upload(ctx, path, nil)
	if err != nil {
		slog.Error("media upload failed", "user_id", userID, "doc_id", doc.ID, "err", err)
		h.reply(ctx, peer, msgMirrorFailed)
		return
	}
	if err := h.msg.SendDocument(ctx, peer, file, doc.MimeType, doc.Attributes); err != nil {
		slog.Error("media send failed", "user_id", userID, "doc_id", doc.ID, "err", err)
		h.reply(ctx, peer, msgMirrorFailed)
		return
	}

	// Ads ride on the normal delivery flow; the dispatcher decides
	// eligibility and never surfaces errors here.
	h.ads.MaybeShow(ctx, peer, userID, locale)
}

// mirrorStaged streams the document into the staging bucket and hands the
// sender a presigned link, keeping local disk out of the hot path.
func (h *Handler) mirrorStaged(ctx context.Context, peer tg.InputPeerClass, userID int64, locale string, doc *tg.Document) {
	loc := doc.AsInputDocumentFileLocation()
	url, err := h.media.StageDownload(ctx, loc, id.New(), doc.MimeType, stagedLinkTTL)
	if err != nil {
		slog.Error("media staging failed", "user_id", userID, "doc_id", doc.ID, "err", err)
		h.reply(ctx, peer, msgMirrorFailed)
		return
	}
	if err := h.msg.SendText(ctx, peer, msgStagedReady, domain.Button{Text: btnDownload, URL: url}); err != nil {
		slog.Error("staged link send failed", "user_id", userID, "doc_id", doc.ID, "err", err)
		return
	}
	h.ads.MaybeShow(ctx, peer, userID, locale)
}

func (h *Handler) reply(ctx context.Context, peer tg.InputPeerClass, text string) {
	if err := h.msg.Reply(ctx, peer, text); err != nil {
		slog.Error("reply failed", "err", err)
	}
}
