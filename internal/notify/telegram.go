package notify

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"

	"trame-planner/internal/logger"
	"trame-planner/internal/models"
	"trame-planner/internal/models/config"
	"trame-planner/internal/progress"
	"trame-planner/internal/service"
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type telegramNotifier struct {
	api     sender
	chatIDs []int64
	log     *logger.Logger
}

// NewNotifier returns a telegram notifier, or a no-op one when no bot token
// is configured.
func NewNotifier(cfg *config.Config, log *logger.Logger) (service.JobNotifier, error) {
	nc := cfg.Notifier
	if nc.Token == "" || len(nc.AdminIDs) == 0 {
		log.Info("telegram notifications disabled")
		return service.NopNotifier{}, nil
	}

	api, err := tgbotapi.NewBotAPI(nc.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}
	api.Debug = nc.Debug

	log.Info("telegram notifier ready", "bot", api.Self.UserName, "admins", nc.AdminIDs)
	return newTelegramNotifier(api, nc.AdminIDs, log), nil
}

func newTelegramNotifier(api sender, chatIDs []int64, log *logger.Logger) *telegramNotifier {
	return &telegramNotifier{api: api, chatIDs: chatIDs, log: log}
}

func (n *telegramNotifier) DuplicationFinished(ctx context.Context, tramme *models.Tramme, snap progress.Snapshot) {
	start := ""
	if snap.StartDate != nil {
		start = snap.StartDate.Format(time.DateOnly)
	}
	n.broadcast(ctx, fmt.Sprintf("✅ Trame %q duplicated (run %s), first day %s", tramme.Name, snap.RunID, start))
}

func (n *telegramNotifier) DuplicationFailed(ctx context.Context, tramme *models.Tramme, err error) {
	n.broadcast(ctx, fmt.Sprintf("❌ Duplication of trame %q stopped: %v\nClear its courses before running it again.", tramme.Name, err))
}

func (n *telegramNotifier) broadcast(ctx context.Context, text string) {
	for _, chatID := range n.chatIDs {
		if ctx.Err() != nil {
			return
		}
		if _, err := n.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
			n.log.Warn("telegram notification failed", "chat_id", chatID, "error", err)
		}
	}
}
