package bot

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaenox/copilot-bot/internal/models"
	"github.com/xaenox/copilot-bot/internal/responder"
	"github.com/xaenox/copilot-bot/internal/storage"
	"go.uber.org/zap/zaptest"
)

type fakeMessenger struct {
	mu   sync.Mutex
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeMessenger) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, f.err
}

func (f *fakeMessenger) messages() []tgbotapi.MessageConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]tgbotapi.MessageConfig, len(f.sent))
	copy(out, f.sent)
	return out
}

func newTestBot(t *testing.T, store storage.Storage) (*Bot, *fakeMessenger) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	m := &fakeMessenger{}
	return newBot(m, store, responder.New(responder.DefaultStyle(), logger), 5, logger), m
}

func textMessage(userID int64, text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		MessageID: 100,
		From:      &tgbotapi.User{ID: userID},
		Chat:      &tgbotapi.Chat{ID: userID * 10},
		Text:      text,
	}
}

func commandMessage(userID int64, cmd string) *tgbotapi.Message {
	msg := textMessage(userID, cmd)
	msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}}
	return msg
}

func TestBot_ReplyAndSave(t *testing.T) {
	store := storage.NewMemoryStorage()
	b, m := newTestBot(t, store)
	ctx := context.Background()

	b.handleMessage(ctx, textMessage(1, "math: 2+3*4"))

	sent := m.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, int64(10), sent[0].ChatID)
	assert.Equal(t, 100, sent[0].ReplyToMessageID)
	assert.Contains(t, sent[0].Text, "\\(14\\)")

	exchanges, err := store.GetUserExchanges(ctx, 1, 0, 0)
	require.NoError(t, err)
	require.Len(t, exchanges, 1)
	assert.Equal(t, "math", exchanges[0].Intent)
	assert.Equal(t, sent[0].Text, exchanges[0].Response)
}

func TestBot_CaptionAndEmpty(t *testing.T) {
	b, m := newTestBot(t, storage.NewMemoryStorage())

	msg := textMessage(1, "")
	msg.Caption = "rank: b, a"
	b.handleMessage(context.Background(), msg)
	b.handleMessage(context.Background(), textMessage(1, "   "))

	sent := m.messages()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].Text, "## Ranking")
}

func TestBot_Commands(t *testing.T) {
	tests := []struct {
		cmd  string
		want string
	}{
		{"/start", "Welcome!"},
		{"/help", "## Commands"},
		{"/history", "You don't have any exchanges yet."},
		{"/tags", "Unknown command."},
	}
	for _, tt := range tests {
		t.Run(tt.cmd, func(t *testing.T) {
			b, m := newTestBot(t, storage.NewMemoryStorage())
			b.handleMessage(context.Background(), commandMessage(3, tt.cmd))

			sent := m.messages()
			require.Len(t, sent, 1)
			assert.Equal(t, int64(30), sent[0].ChatID)
			assert.Contains(t, sent[0].Text, tt.want)
		})
	}
}

func TestBot_HistoryIsPerUser(t *testing.T) {
	b, m := newTestBot(t, storage.NewMemoryStorage())
	ctx := context.Background()

	b.handleMessage(ctx, textMessage(1, "explain: tides"))
	b.handleMessage(ctx, textMessage(2, "rank: z, y"))
	b.handleMessage(ctx, commandMessage(1, "/history"))

	sent := m.messages()
	require.Len(t, sent, 3)
	assert.Contains(t, sent[2].Text, "explain: tides")
	assert.NotContains(t, sent[2].Text, "rank: z, y")
}

type brokenStore struct{}

func (brokenStore) SaveExchange(context.Context, *models.Exchange) error { return errors.New("down") }

func (brokenStore) GetUserExchanges(context.Context, int64, int, int) ([]*models.Exchange, error) {
	return nil, errors.New("down")
}

func (brokenStore) Close() error { return nil }

func TestBot_StorageErrors(t *testing.T) {
	b, m := newTestBot(t, brokenStore{})
	ctx := context.Background()

	b.handleMessage(ctx, textMessage(1, "hello"))
	b.handleMessage(ctx, commandMessage(1, "/history"))

	sent := m.messages()
	require.Len(t, sent, 2)
	assert.Equal(t, "Got it. Want a quick breakdown or a deeper dive?", sent[0].Text)
	assert.Equal(t, "⚠️ Sorry, I couldn't retrieve your history.", sent[1].Text)
}

func TestBot_Serve(t *testing.T) {
	b, m := newTestBot(t, storage.NewMemoryStorage())
	updates := make(chan tgbotapi.Update)

	done := make(chan struct{})
	go func() {
		b.serve(context.Background(), updates)
		close(done)
	}()

	updates <- tgbotapi.Update{UpdateID: 1}
	updates <- tgbotapi.Update{UpdateID: 2, Message: textMessage(1, "math: 1+1")}
	updates <- tgbotapi.Update{UpdateID: 3, Message: textMessage(2, "math: 2+2")}
	close(updates)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("serve did not return after the channel closed")
	}
	assert.Len(t, m.messages(), 2)
}

func TestBot_ServeStopsOnCancel(t *testing.T) {
	b, _ := newTestBot(t, storage.NewMemoryStorage())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		b.serve(ctx, make(chan tgbotapi.Update))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}

func TestNew_EmptyToken(t *testing.T) {
	_, err := New("", storage.NewMemoryStorage(), nil, 5, zaptest.NewLogger(t))
	assert.Error(t, err)
}
