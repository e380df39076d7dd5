package bot

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/xaenox/copilot-bot/internal/models"
	"github.com/xaenox/copilot-bot/internal/responder"
	"github.com/xaenox/copilot-bot/internal/storage"
	"go.uber.org/zap"
)

// messenger is the part of *tgbotapi.BotAPI the handlers need.
type messenger interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Bot struct {
	api          *tgbotapi.BotAPI
	sender       messenger
	storage      storage.Storage
	responder    *responder.Responder
	historyLimit int
	logger       *zap.Logger
	wg           sync.WaitGroup
}

func New(token string, storage storage.Storage, resp *responder.Responder, historyLimit int, logger *zap.Logger) (*Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram token is empty")
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	b := newBot(api, storage, resp, historyLimit, logger)
	b.api = api
	return b, nil
}

func newBot(sender messenger, storage storage.Storage, resp *responder.Responder, historyLimit int, logger *zap.Logger) *Bot {
	if historyLimit <= 0 {
		historyLimit = 5
	}
	return &Bot{
		sender:       sender,
		storage:      storage,
		responder:    resp,
		historyLimit: historyLimit,
		logger:       logger,
	}
}

// Start long-polls for updates until ctx is done, then waits for in-flight
// handlers.
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	b.logger.Info("Bot started", zap.String("username", b.api.Self.UserName))

	b.serve(ctx, updates)
	b.api.StopReceivingUpdates()
	return nil
}

func (b *Bot) serve(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	defer b.wg.Wait()
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil {
				continue
			}

			b.wg.Add(1)
			go func(message *tgbotapi.Message) {
				defer b.wg.Done()
				b.handleMessage(ctx, message)
			}(update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.IsCommand() {
		b.handleCommand(ctx, message)
		return
	}

	content := message.Text
	if message.Caption != "" {
		content = message.Caption
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return
	}

	reply := b.responder.Respond(content)

	exchange := &models.Exchange{
		ID:        uuid.New().String(),
		UserID:    userID(message),
		Input:     content,
		Intent:    string(reply.Intent),
		Response:  reply.Text,
		CreatedAt: time.Now(),
	}
	if err := b.storage.SaveExchange(ctx, exchange); err != nil {
		b.logger.Error("Failed to save exchange",
			zap.Error(err),
			zap.String("exchange_id", exchange.ID),
			zap.Int64("user_id", exchange.UserID))
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, reply.Text)
	msg.ReplyToMessageID = message.MessageID
	if _, err := b.sender.Send(msg); err != nil {
		b.logger.Error("Failed to send reply",
			zap.Error(err),
			zap.Int64("chat_id", message.Chat.ID))
	}
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		b.handleStart(message)
	case "help":
		b.sendMessage(message.Chat.ID, responder.HelpText())
	case "history":
		b.handleHistory(ctx, message)
	default:
		b.sendMessage(message.Chat.ID, "Unknown command. Use /help to see available commands.")
	}
}

func (b *Bot) handleStart(message *tgbotapi.Message) {
	welcome := `Welcome! I'm an offline Copilot-style assistant.
Send a message, or try math: 2+3*4, compare: a, b | price, rank: a, b, c.
Use /help to see all available commands.`

	b.sendMessage(message.Chat.ID, welcome)
}

func (b *Bot) handleHistory(ctx context.Context, message *tgbotapi.Message) {
	exchanges, err := b.storage.GetUserExchanges(ctx, userID(message), b.historyLimit, 0)
	if err != nil {
		b.logger.Error("Failed to get user exchanges",
			zap.Error(err),
			zap.Int64("user_id", userID(message)))
		b.sendErrorMessage(message.Chat.ID, "Sorry, I couldn't retrieve your history.")
		return
	}

	b.sendMessage(message.Chat.ID, responder.FormatHistory(exchanges))
}

func userID(message *tgbotapi.Message) int64 {
	if message.From != nil {
		return message.From.ID
	}
	return message.Chat.ID
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.sender.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}

func (b *Bot) sendErrorMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, "⚠️ "+text)
	if _, err := b.sender.Send(msg); err != nil {
		b.logger.Error("Failed to send error message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}
