package notify

import (
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/sv8bshs/enrollment/internal/observability"
)

// isSystemErr: 5xx, 429 and timeouts go to Sentry; Telegram validation errors do not.
func isSystemErr(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	if strings.Contains(s, "Bad Request") ||
		strings.Contains(s, "chat not found") ||
		strings.Contains(s, "can't parse entities") {
		return false
	}
	return strings.Contains(s, "429") || strings.Contains(s, "502") || strings.Contains(s, "503") || strings.Contains(s, "timeout")
}

type botSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// StaffAlerter posts plain-text alerts to the admin chats. A nil bot makes it a no-op.
type StaffAlerter struct {
	bot     botSender
	chatIDs []int64
	log     *zap.Logger
}

func NewStaffAlerter(token string, chatIDs []int64, log *zap.Logger) (*StaffAlerter, error) {
	a := &StaffAlerter{chatIDs: chatIDs, log: log}
	if token == "" || len(chatIDs) == 0 {
		return a, nil
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	a.bot = bot
	return a, nil
}

// Alert tries every chat once; the joined error lists the chats that failed.
func (a *StaffAlerter) Alert(ctx context.Context, text string) error {
	if a == nil || a.bot == nil {
		return nil
	}
	var errs []error
	for _, id := range a.chatIDs {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, err := a.bot.Send(tgbotapi.NewMessage(id, text))
		if err == nil {
			continue
		}
		if isSystemErr(err) {
			observability.CaptureErr(err)
		}
		a.log.Warn("staff alert failed", zap.Int64("chat_id", id), zap.Error(err))
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
