package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"

	"trame-planner/internal/progress"
	"trame-planner/internal/service"
)

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.From == nil {
		return
	}
	chatID := message.Chat.ID
	b.log.Debug("telegram message", "user", message.From.UserName, "text", message.Text)

	if !b.admins[int64(message.From.ID)] {
		b.send(tgbotapi.NewMessage(chatID, "❌ Réservé aux administrateurs"))
		return
	}

	session := b.getOrCreateSession(chatID)

	if message.Text == btnBack {
		b.resetSession(chatID)
		b.sendText(chatID, "Menu principal")
		return
	}

	switch session.State {
	case StateAwaitingTrammeToDuplicate:
		if id, ok := b.parseTrammeID(chatID, message.Text); ok {
			b.askDuplicationConfirmation(chatID, id)
		}
		return
	case StateConfirmingDuplication:
		if message.Text != btnConfirm {
			b.askDuplicationConfirmation(chatID, session.SelectedTrammeID)
			return
		}
		b.resetSession(chatID)
		b.startDuplication(ctx, chatID, session.SelectedTrammeID)
		return
	case StateAwaitingTrammeToWatch:
		if id, ok := b.parseTrammeID(chatID, message.Text); ok {
			b.resetSession(chatID)
			b.showProgress(chatID, id)
		}
		return
	case StateAwaitingTrammeToCancel:
		if id, ok := b.parseTrammeID(chatID, message.Text); ok {
			b.resetSession(chatID)
			b.cancelDuplication(chatID, id)
		}
		return
	}

	if message.IsCommand() {
		arg := strings.TrimSpace(message.CommandArguments())
		switch message.Command() {
		case "duplicate":
			b.withTrammeArg(chatID, arg, StateAwaitingTrammeToDuplicate, func(id int64) {
				b.startDuplication(ctx, chatID, id)
			})
		case "progress":
			b.withTrammeArg(chatID, arg, StateAwaitingTrammeToWatch, func(id int64) {
				b.showProgress(chatID, id)
			})
		case "cancel":
			b.withTrammeArg(chatID, arg, StateAwaitingTrammeToCancel, func(id int64) {
				b.cancelDuplication(chatID, id)
			})
		default:
			b.sendWelcomeMessage(chatID)
		}
		return
	}

	switch message.Text {
	case btnDuplicate:
		b.askTrammeID(chatID, StateAwaitingTrammeToDuplicate)
	case btnProgress:
		b.askTrammeID(chatID, StateAwaitingTrammeToWatch)
	case btnCancel:
		b.askTrammeID(chatID, StateAwaitingTrammeToCancel)
	default:
		b.sendWelcomeMessage(chatID)
	}
}

func (b *Bot) sendWelcomeMessage(chatID int64) {
	b.sendText(chatID, "Commandes : /duplicate <id>, /progress <id>, /cancel <id>")
}

// withTrammeArg runs fn with the id given after the command, or asks for it.
func (b *Bot) withTrammeArg(chatID int64, arg string, next BotState, fn func(id int64)) {
	if arg == "" {
		b.askTrammeID(chatID, next)
		return
	}
	if id, ok := b.parseTrammeID(chatID, arg); ok {
		fn(id)
	}
}

func (b *Bot) askTrammeID(chatID int64, next BotState) {
	b.setState(chatID, next)
	msg := tgbotapi.NewMessage(chatID, "Numéro de la trame ?")
	msg.ReplyMarkup = createBackKeyboard()
	b.send(msg)
}

func (b *Bot) parseTrammeID(chatID int64, text string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil || id <= 0 {
		b.send(tgbotapi.NewMessage(chatID, "❌ Numéro de trame invalide, réessayez"))
		return 0, false
	}
	return id, true
}

func (b *Bot) askDuplicationConfirmation(chatID, trammeID int64) {
	b.mu.Lock()
	if s, ok := b.userSessions[chatID]; ok {
		s.State = StateConfirmingDuplication
		s.SelectedTrammeID = trammeID
	}
	b.mu.Unlock()

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf(
		"Dupliquer la trame %d ?\nLes cours générés après la semaine type seront remplacés.", trammeID))
	msg.ReplyMarkup = createConfirmationKeyboard()
	b.send(msg)
}

func (b *Bot) startDuplication(ctx context.Context, chatID, trammeID int64) {
	err := b.DuplicationService.Start(ctx, trammeID)
	if err != nil {
		b.log.Warn("duplication not started from telegram", "tramme_id", trammeID, "error", err)
		b.sendText(chatID, "❌ "+describeError(err))
		return
	}
	b.sendText(chatID, fmt.Sprintf("🚀 Duplication de la trame %d lancée", trammeID))
}

func (b *Bot) showProgress(chatID, trammeID int64) {
	b.sendText(chatID, formatSnapshot(trammeID, b.DuplicationService.Progress(trammeID)))
}

func (b *Bot) cancelDuplication(chatID, trammeID int64) {
	if !b.DuplicationService.Cancel(trammeID) {
		b.sendText(chatID, fmt.Sprintf("Aucune duplication en cours pour la trame %d", trammeID))
		return
	}
	b.sendText(chatID, fmt.Sprintf("⛔️ Annulation demandée pour la trame %d", trammeID))
}

func describeError(err error) string {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		parts := make([]string, 0, len(verr.Fields))
		for _, f := range verr.Fields {
			parts = append(parts, f.Field+" "+f.Error)
		}
		return "trame incomplète : " + strings.Join(parts, ", ")
	case errors.Is(err, service.ErrNotFound):
		return "trame introuvable"
	case errors.Is(err, progress.ErrAlreadyRunning):
		return "une duplication est déjà en cours"
	}
	return "erreur interne"
}

func formatSnapshot(trammeID int64, s progress.Snapshot) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Trame %d : %s\n", trammeID, s.State)
	if s.State == progress.StateIdle {
		return sb.String()
	}
	if s.CurrentLayerName != "" {
		fmt.Fprintf(&sb, "Calque : %s (%d%%)\n", s.CurrentLayerName, s.PercentageLayer)
	}
	fmt.Fprintf(&sb, "Total : %d%%\n", s.PercentageTotal)
	if s.StartDate != nil {
		fmt.Fprintf(&sb, "Premier jour : %s\n", s.StartDate.Format(time.DateOnly))
	}
	if s.Error != "" {
		fmt.Fprintf(&sb, "Erreur : %s\n", s.Error)
	}
	return sb.String()
}
