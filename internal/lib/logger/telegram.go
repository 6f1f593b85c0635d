package logger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
)

// MessageSender is the part of *gotgbot.Bot the handler needs.
type MessageSender interface {
	SendMessage(chatId int64, text string, opts *tgbotapi.SendMessageOpts) (*tgbotapi.Message, error)
}

// NewTelegramBot creates the bot used to deliver log alerts.
func NewTelegramBot(apiKey string) (*tgbotapi.Bot, error) {
	b, err := tgbotapi.NewBot(apiKey, nil)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return b, nil
}

// TelegramHandler forwards records at or above minLevel to an admin chat
// and always passes them on to the wrapped handler.
type TelegramHandler struct {
	next     slog.Handler
	sender   MessageSender
	chatID   int64
	minLevel slog.Level
	attrs    []slog.Attr
	group    string
}

func SetupTelegramHandler(log *slog.Logger, sender MessageSender, chatID int64, level slog.Level) *slog.Logger {
	return slog.New(NewTelegramHandler(log.Handler(), sender, chatID, level))
}

func NewTelegramHandler(next slog.Handler, sender MessageSender, chatID int64, level slog.Level) *TelegramHandler {
	return &TelegramHandler{
		next:     next,
		sender:   sender,
		chatID:   chatID,
		minLevel: level,
	}
}

func (h *TelegramHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.minLevel || h.next.Enabled(ctx, level)
}

func (h *TelegramHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= h.minLevel && h.sender != nil && h.chatID != 0 {
		text := h.format(r)
		go func() {
			_, _ = h.sender.SendMessage(h.chatID, text, nil)
		}()
	}
	if h.next.Enabled(ctx, r.Level) {
		return h.next.Handle(ctx, r)
	}
	return nil
}

func (h *TelegramHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &TelegramHandler{
		next:     h.next.WithAttrs(attrs),
		sender:   h.sender,
		chatID:   h.chatID,
		minLevel: h.minLevel,
		attrs:    merged,
		group:    h.group,
	}
}

func (h *TelegramHandler) WithGroup(name string) slog.Handler {
	group := name
	if h.group != "" {
		group = h.group + "." + name
	}
	return &TelegramHandler{
		next:     h.next.WithGroup(name),
		sender:   h.sender,
		chatID:   h.chatID,
		minLevel: h.minLevel,
		attrs:    h.attrs,
		group:    group,
	}
}

func (h *TelegramHandler) format(r slog.Record) string {
	var b strings.Builder
	b.WriteString(r.Level.String())
	b.WriteString(": ")
	b.WriteString(r.Message)
	write := func(a slog.Attr) bool {
		key := a.Key
		if h.group != "" {
			key = h.group + "." + key
		}
		b.WriteString("\n")
		b.WriteString(key)
		b.WriteString(" = ")
		b.WriteString(a.Value.String())
		return true
	}
	for _, a := range h.attrs {
		write(a)
	}
	r.Attrs(write)
	return b.String()
}
