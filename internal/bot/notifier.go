package bot

import (
	"fmt"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"igmond/internal/models"
	"igmond/internal/monitor"
	"igmond/internal/monitor/interfaces"
	"igmond/internal/providers"
)

// Notifier delivers status-change alerts to subscribers over Telegram.
type Notifier struct {
	sender Sender
	clock  interfaces.ClockInterface
	logger providers.Logger
}

func NewNotifier(sender Sender, clock interfaces.ClockInterface, logger providers.Logger) monitor.Notifier {
	return &Notifier{
		sender: sender,
		clock:  clock,
		logger: logger,
	}
}

func (n *Notifier) Notify(subscriberID int64, kind monitor.NotificationKind, profile *models.Profile) error {
	header := "🚫 *ACCOUNT BANNED*"
	if kind == monitor.KindUnbanned {
		header = "✅ *ACCOUNT UNBANNED*"
	}

	text := fmt.Sprintf(
		"%s\n\n📧 *Username:* @%s\n🕐 *Last checked:* %s",
		header, profile.Username, n.clock.Now().Format("2006-01-02 15:04:05"),
	)

	msg := tgbotapi.NewMessage(subscriberID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := n.sender.Send(msg); err != nil {
		return err
	}
	n.logger.Debugf(providers.TypeBot, "Alerted %d: %s %s", subscriberID, profile.Username, kind)
	return nil
}
