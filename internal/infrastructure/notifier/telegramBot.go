package notifier

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"gig_market/internal/domain/entity"
	"gig_market/internal/domain/value"
	"gig_market/pkg/logx"
)

// TelegramBot шлёт оповещения о закрытых сделках в операционный чат.
type TelegramBot struct {
	bot    *telego.Bot
	chatID int64
}

func NewTelegramBot(token string, chatID int64) (*TelegramBot, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return &TelegramBot{
		bot:    bot,
		chatID: chatID,
	}, nil
}

// DealResolved отправляет сводку по принятой или отклонённой сделке.
// Best-effort: отказ телеграма логируется и не влияет на сделку.
func (b *TelegramBot) DealResolved(ctx context.Context, deal entity.Deal) {
	var text string

	switch deal.Status {
	case value.DealStatusAccepted:
		text = fmt.Sprintf(
			"✅ <b>Deal accepted</b>\n\n"+
				"🏟 <b>Venue:</b> %s\n"+
				"📅 <b>Date:</b> %s\n"+
				"💰 <b>Fee:</b> %s\n"+
				"🔁 <b>Rounds:</b> %d",
			deal.VenueName,
			deal.Date.Format("2006-01-02"),
			deal.Fee.String(),
			deal.Revision,
		)
	case value.DealStatusDeclined:
		text = fmt.Sprintf(
			"❌ <b>Deal declined</b>\n\n"+
				"🏟 <b>Venue:</b> %s\n"+
				"📅 <b>Date:</b> %s\n"+
				"📝 <b>Reason:</b> %s",
			deal.VenueName,
			deal.Date.Format("2006-01-02"),
			deal.DeclineReason,
		)
	default:
		return
	}

	msg := tu.Message(
		tu.ID(b.chatID),
		text,
	).WithParseMode(telego.ModeHTML)

	if _, err := b.bot.SendMessage(ctx, msg); err != nil {
		logger(ctx).Error("bot.SendMessage", logx.Error(err))
	}
}

// SendText отправляет простое текстовое сообщение.
func (b *TelegramBot) SendText(ctx context.Context, text string) error {
	msg := tu.Message(tu.ID(b.chatID), text)

	_, err := b.bot.SendMessage(ctx, msg)
	return err
}
