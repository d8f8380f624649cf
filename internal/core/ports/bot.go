package ports

import (
	"context"
)

// SendMessageParams holds all possible options for sending a message.
type SendMessageParams struct {
	ChatID                int64
	Text                  string
	ParseMode             string // e.g., "MarkdownV2" or "HTML"
	DisableWebPagePreview bool
}

// BotClientPort defines the interface for *sending* messages to the staff
// channel. Staff notifications are the only outbound chat traffic.
type BotClientPort interface {
	SendMessage(ctx context.Context, params SendMessageParams) error
}
