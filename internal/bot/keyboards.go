package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
)

const (
	btnDuplicate = "🗓 Dupliquer une trame"
	btnProgress  = "📊 Avancement"
	btnCancel    = "⛔️ Annuler"
	btnConfirm   = "✅ Confirmer"
	btnBack      = "◀️ Retour"
)

func createMainKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnDuplicate),
			tgbotapi.NewKeyboardButton(btnProgress),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCancel),
		),
	)
}

func createConfirmationKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnConfirm),
			tgbotapi.NewKeyboardButton(btnBack),
		),
	)
}

func createBackKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnBack),
		),
	)
}
