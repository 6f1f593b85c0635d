package logger

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu    sync.Mutex
	texts []string
	done  chan struct{}
}

func (s *recordingSender) SendMessage(chatId int64, text string, _ *tgbotapi.SendMessageOpts) (*tgbotapi.Message, error) {
	s.mu.Lock()
	s.texts = append(s.texts, text)
	s.mu.Unlock()
	s.done <- struct{}{}
	return &tgbotapi.Message{}, nil
}

func TestTelegramHandlerForwardsWarnings(t *testing.T) {
	var buf bytes.Buffer
	sender := &recordingSender{done: make(chan struct{}, 4)}
	base := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	log := SetupTelegramHandler(base, sender, 42, slog.LevelWarn).With(slog.String("module", "checkout"))
	log.Info("order submitted")
	log.Warn("ipn registration failed", slog.String("order_id", "A-1"))

	select {
	case <-sender.done:
	case <-time.After(time.Second):
		t.Fatal("warning was not forwarded")
	}

	sender.mu.Lock()
	defer sender.mu.Unlock()
	require.Len(t, sender.texts, 1)
	assert.Contains(t, sender.texts[0], "ipn registration failed")
	assert.Contains(t, sender.texts[0], "module = checkout")
	assert.Contains(t, sender.texts[0], "order_id = A-1")
	assert.Contains(t, buf.String(), "order submitted")
}
