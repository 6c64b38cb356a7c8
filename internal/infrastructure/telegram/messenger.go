package telegram

import (
	"context"
	"crypto/rand"
	"encoding/binary"

	"github.com/adgate/internal/domain"
	"github.com/gotd/td/tg"
)

// Messenger renders bot messages over the raw Telegram API: plain replies,
// text or photo creatives with an inline URL button, and document delivery.
type Messenger struct {
	api *tg.Client
}

func NewMessenger(api *tg.Client) *Messenger {
	return &Messenger{api: api}
}

// Reply sends a plain text message with no markup.
func (m *Messenger) Reply(ctx context.Context, peer tg.InputPeerClass, text string) error {
	req := &tg.MessagesSendMessageRequest{
		Peer:      peer,
		Message:   text,
		RandomID:  randomID(),
		NoWebpage: true,
	}
	_, err := m.api.MessagesSendMessage(ctx, req)
	return err
}

// SendText sends a text message with a single inline URL button.
func (m *Messenger) SendText(ctx context.Context, peer tg.InputPeerClass, text string, btn domain.Button) error {
	req := &tg.MessagesSendMessageRequest{
		Peer:      peer,
		Message:   text,
		RandomID:  randomID(),
		NoWebpage: true,
	}
	req.SetReplyMarkup(inlineURL(btn))
	_, err := m.api.MessagesSendMessage(ctx, req)
	return err
}

// SendPhoto sends an external photo with a caption and inline URL button.
func (m *Messenger) SendPhoto(ctx context.Context, peer tg.InputPeerClass, photoURL, caption string, btn domain.Button) error {
	req := &tg.MessagesSendMediaRequest{
		Peer:     peer,
		Media:    &tg.InputMediaPhotoExternal{URL: photoURL},
		Message:  caption,
		RandomID: randomID(),
	}
	req.SetReplyMarkup(inlineURL(btn))
	_, err := m.api.MessagesSendMedia(ctx, req)
	return err
}

// SendDocument delivers an uploaded file back to the peer.
func (m *Messenger) SendDocument(ctx context.Context, peer tg.InputPeerClass, file tg.InputFileClass, mimeType string, attrs []tg.DocumentAttributeClass) error {
	_, err := m.api.MessagesSendMedia(ctx, &tg.MessagesSendMediaRequest{
		Peer: peer,
		Media: &tg.InputMediaUploadedDocument{
			File:       file,
			MimeType:   mimeType,
			Attributes: attrs,
		},
		RandomID: randomID(),
	})
	return err
}

func inlineURL(btn domain.Button) tg.ReplyMarkupClass {
	return &tg.ReplyInlineMarkup{
		Rows: []tg.KeyboardButtonRow{{
			Buttons: []tg.KeyboardButtonClass{
				&tg.KeyboardButtonURL{Text: btn.Text, URL: btn.URL},
			},
		}},
	}
}

func randomID() int64 {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return int64(binary.LittleEndian.Uint64(b[:]))
}
