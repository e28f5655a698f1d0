package bot

type BotState int

const (
	StateDefault BotState = iota

	// waiting for a tramme id typed after a menu button
	StateAwaitingTrammeToDuplicate
	StateAwaitingTrammeToWatch
	StateAwaitingTrammeToCancel
	StateConfirmingDuplication
)

type UserSession struct {
	State            BotState
	SelectedTrammeID int64
}

// getOrCreateSession returns a copy of the chat's session taken under the lock.
func (b *Bot) getOrCreateSession(chatID int64) UserSession {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.userSessions[chatID]
	if !ok {
		s = &UserSession{State: StateDefault}
		b.userSessions[chatID] = s
	}
	return *s
}

func (b *Bot) resetSession(chatID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.userSessions, chatID)
}

func (b *Bot) setState(chatID int64, state BotState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.userSessions[chatID]
	if !ok {
		s = &UserSession{}
		b.userSessions[chatID] = s
	}
	s.State = state
}
