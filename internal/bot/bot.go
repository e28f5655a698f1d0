// Package bot lets the admins drive duplications from Telegram.
package bot

import (
	"context"
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"

	"trame-planner/internal/logger"
	"trame-planner/internal/models/config"
	"trame-planner/internal/service"
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Bot struct {
	api                *tgbotapi.BotAPI
	out                sender
	DuplicationService service.DuplicationService
	admins             map[int64]bool
	log                *logger.Logger

	userSessions map[int64]*UserSession // chatID -> session
	mu           sync.RWMutex
}

// NewBot returns nil when no token is configured.
func NewBot(cfg *config.Config, duplicationService service.DuplicationService, log *logger.Logger) (*Bot, error) {
	nc := cfg.Notifier
	if nc.Token == "" {
		log.Info("telegram bot disabled: BOT_TOKEN is empty")
		return nil, nil
	}

	api, err := tgbotapi.NewBotAPI(nc.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}
	api.Debug = nc.Debug

	log.Info("telegram bot ready", "bot", api.Self.UserName, "debug", nc.Debug, "admins", nc.AdminIDs)

	b := newBot(api, duplicationService, nc.AdminIDs, log)
	b.api = api
	return b, nil
}

func newBot(out sender, duplicationService service.DuplicationService, adminIDs []int64, log *logger.Logger) *Bot {
	admins := make(map[int64]bool, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = true
	}
	return &Bot{
		out:                out,
		DuplicationService: duplicationService,
		admins:             admins,
		log:                log,
		userSessions:       make(map[int64]*UserSession),
	}
}

// Start polls updates until ctx is done.
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates, err := b.api.GetUpdatesChan(u)
	if err != nil {
		return err
	}
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			go b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) send(msg tgbotapi.MessageConfig) {
	if _, err := b.out.Send(msg); err != nil {
		b.log.Warn("telegram send failed", "chat_id", msg.ChatID, "error", err)
	}
}

func (b *Bot) sendText(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = createMainKeyboard()
	b.send(msg)
}
