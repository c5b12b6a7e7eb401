package telegram

import (
	"context"

	"lingua-bot/internal/domain"
)

var reminderChoices = []domain.Action{
	domain.ActionStartListening,
	domain.ActionStartReading,
	domain.ActionGenerateNewEssay,
}

// Notifier delivers the daily reminder. Telegram user ids double as private
// chat ids.
type Notifier struct {
	sender    Sender
	presenter *Presenter
}

func NewNotifier(sender Sender, presenter *Presenter) *Notifier {
	return &Notifier{sender: sender, presenter: presenter}
}

func (n *Notifier) Notify(ctx context.Context, user *domain.UserRecord) error {
	if err := ctx.Err(); err != nil {
		return domain.NewDeliveryError(user.UserID, err)
	}

	reply := domain.NewReply(user.LanguageOrDefault(), domain.Message{Key: domain.MsgReminder, Choices: reminderChoices})
	for _, msg := range n.presenter.Render(user.UserID, reply) {
		if _, err := n.sender.Send(msg); err != nil {
			return domain.NewDeliveryError(user.UserID, err)
		}
	}
	return nil
}
