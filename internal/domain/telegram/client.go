package telegram

// Client delivers plain-text notifications to a single chat.
// Implementations report delivery failures as *homework.NotifyError.
type Client interface {
	SendMessage(recipientChatID int64, text string) error
}
