package sinks

import (
	"context"
	"fmt"
	"time"

	"newswire/models/entities"

	"github.com/PaulSonOfLars/gotgbot/v2"
)

// TelegramSink posts one message per article to a configured chat.
type TelegramSink struct {
	bot    *gotgbot.Bot
	chatID int64
}

func NewTelegram(token string, chatID int64) (*TelegramSink, error) {
	if token == "" {
		return nil, ErrTokenIsMissing
	}
	if chatID == 0 {
		return nil, ErrChatIDIsMissing
	}

	bot, err := gotgbot.NewBot(token, nil)
	if err != nil {
		return nil, err
	}

	return &TelegramSink{bot: bot, chatID: chatID}, nil
}

func (sink *TelegramSink) Name() string {
	return "telegram"
}

func (sink *TelegramSink) Deliver(ctx context.Context, event entities.Envelope) error {
	timeout := 10 * time.Second
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return ctx.Err()
		}
	}

	text := fmt.Sprintf("📰 %s\n%s", event.Title, event.URL)
	_, err := sink.bot.SendMessage(sink.chatID, text, &gotgbot.SendMessageOpts{
		DisableNotification: true,
		RequestOpts:         &gotgbot.RequestOpts{Timeout: timeout},
	})
	return err
}
