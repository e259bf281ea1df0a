package telegram

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"portfolioAnalytics/internal/charts"
)

// MaxMessageLen is the Telegram limit on a text message.
const MaxMessageLen = 4096

// sender is the subset of *tgbotapi.BotAPI the publisher uses.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Publisher posts a report and its figures to one chat.
type Publisher struct {
	api    sender
	chatID int64
	log    *zap.Logger
}

// NewPublisher authenticates against the Bot API with token.
func NewPublisher(token string, chatID int64, log *zap.Logger) (*Publisher, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: failed to create bot: %w", err)
	}
	log.Info("telegram: bot authorized", zap.String("bot", api.Self.UserName), zap.Int64("chat_id", chatID))
	return newPublisher(api, chatID, log), nil
}

func newPublisher(api sender, chatID int64, log *zap.Logger) *Publisher {
	return &Publisher{api: api, chatID: chatID, log: log}
}

// Publish sends text, split to fit the message limit, then every figure as a photo.
func (p *Publisher) Publish(ctx context.Context, text string, figs []charts.Figure) error {
	for i, part := range splitMessage(text, MaxMessageLen) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := p.api.Send(tgbotapi.NewMessage(p.chatID, part)); err != nil {
			return fmt.Errorf("telegram: failed to send message part %d: %w", i+1, err)
		}
	}
	for _, f := range figs {
		if err := ctx.Err(); err != nil {
			return err
		}
		photo := tgbotapi.NewPhoto(p.chatID, tgbotapi.FileBytes{Name: f.Name, Bytes: f.PNG})
		photo.Caption = f.Title
		if _, err := p.api.Send(photo); err != nil {
			return fmt.Errorf("telegram: failed to send %s: %w", f.Name, err)
		}
	}
	p.log.Info("telegram: report published", zap.Int64("chat_id", p.chatID), zap.Int("figures", len(figs)))
	return nil
}

// splitMessage cuts text into parts of at most limit runes, preferring line breaks.
func splitMessage(text string, limit int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	var parts []string
	for utf8.RuneCountInString(text) > limit {
		cut := runeOffset(text, limit)
		if nl := strings.LastIndexByte(text[:cut], '\n'); nl > 0 {
			cut = nl
		}
		parts = append(parts, strings.TrimRight(text[:cut], "\n"))
		text = strings.TrimLeft(text[cut:], "\n")
	}
	if text != "" {
		parts = append(parts, text)
	}
	return parts
}

// runeOffset returns the byte offset of the n-th rune of s.
func runeOffset(s string, n int) int {
	i := 0
	for off := range s {
		if i == n {
			return off
		}
		i++
	}
	return len(s)
}
