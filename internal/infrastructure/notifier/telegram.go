// Package notifier шлёт исследователям уведомления о завершённых сессиях.
package notifier

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"verhandlungsbot/internal/domain/entity"
	"verhandlungsbot/pkg/contextx"
	"verhandlungsbot/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

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

// Run читает завершённые сессии из канала до его закрытия. Сбой отправки
// логируется и не влияет на сами переговоры.
func (b *TelegramBot) Run(ctx context.Context, concluded <-chan *entity.Result) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case result, ok := <-concluded:
			if !ok {
				return nil
			}
			if err := b.SendResult(ctx, result); err != nil {
				logger(ctx).Error("failed to send result notification",
					logx.Error(err),
					logx.FieldConversationID, result.ConversationID,
				)
			}
		}
	}
}

func (b *TelegramBot) SendResult(ctx context.Context, result *entity.Result) error {
	price := "—"
	if result.FinalPrice != nil {
		price = fmt.Sprintf("%d €", result.FinalPrice.Int64())
	}

	icon := "❌"
	if result.Outcome == entity.OutcomeDeal {
		icon = "🤝"
	}

	text := fmt.Sprintf(
		"%s <b>Session beendet</b>\n\n"+
			"<b>Conversation:</b> %s\n"+
			"<b>Variant:</b> %s\n"+
			"<b>Outcome:</b> %s\n"+
			"<b>Price:</b> %s\n"+
			"<b>Messages:</b> %d\n"+
			"<b>Ended:</b> %s / %s",
		icon,
		result.ConversationID,
		result.VariantTag,
		result.Outcome,
		price,
		result.MessageCount,
		result.EndedBy,
		result.EndedVia,
	)

	msg := tu.Message(
		tu.ID(b.chatID),
		text,
	).WithParseMode(telego.ModeHTML)

	if _, err := b.bot.SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}

// SendText отправляет простое текстовое сообщение.
func (b *TelegramBot) SendText(ctx context.Context, text string) error {
	msg := tu.Message(tu.ID(b.chatID), text)

	_, err := b.bot.SendMessage(ctx, msg)
	return err
}
