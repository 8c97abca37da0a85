// internal/infra/telegram/client.go
package telegram

import (
	"fmt"
	"net/http"
	"time"

	"homework_status_bot/internal/domain/homework"
	domainTelegram "homework_status_bot/internal/domain/telegram"

	"gopkg.in/telebot.v3"
)

var _ domainTelegram.Client = (*TelebotAdapter)(nil)

// BotOptions configures the underlying telebot instance.
type BotOptions struct {
	Token   string
	APIURL  string // Empty means the public Bot API
	Timeout time.Duration
	Offline bool
}

// NewBot creates a send-only bot. Outside of offline mode telebot calls getMe,
// so an invalid token fails here, at startup.
func NewBot(opts BotOptions) (*telebot.Bot, error) {
	pref := telebot.Settings{
		URL:     opts.APIURL,
		Token:   opts.Token,
		Offline: opts.Offline,
		Client:  &http.Client{Timeout: opts.Timeout},
	}
	b, err := telebot.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return b, nil
}

// TelebotAdapter implements the Client interface using the gopkg.in/telebot.v3 library.
type TelebotAdapter struct {
	bot *telebot.Bot
}

func NewTelebotAdapter(b *telebot.Bot) *TelebotAdapter {
	return &TelebotAdapter{bot: b}
}

// SendMessage sends a plain text message to the chat. Failures are returned as *homework.NotifyError.
func (tba *TelebotAdapter) SendMessage(recipientChatID int64, text string) error {
	recipient := &telebot.Chat{ID: recipientChatID} // Works for private chats and groups alike
	if _, err := tba.bot.Send(recipient, text, &telebot.SendOptions{}); err != nil {
		return &homework.NotifyError{RecipientID: recipientChatID, Err: err}
	}
	return nil
}
