package telegram

import (
	"ContinuingEducation/internal/core/ports"
	"fmt"
	"strings"
)

// messageBuilder helps construct plain-text SendMessageParams line by line.
type messageBuilder struct {
	params ports.SendMessageParams
	lines  []string
}

func newMessage(chatID int64) *messageBuilder {
	return &messageBuilder{
		params: ports.SendMessageParams{
			ChatID:                chatID,
			ParseMode:             "", // Plain text, applicant data is not escaped
			DisableWebPagePreview: true,
		},
	}
}

// line appends a formatted line.
func (b *messageBuilder) line(format string, args ...any) *messageBuilder {
	b.lines = append(b.lines, fmt.Sprintf(format, args...))
	return b
}

// field appends "label: value", skipping empty values.
func (b *messageBuilder) field(label, value string) *messageBuilder {
	if strings.TrimSpace(value) == "" {
		return b
	}
	return b.line("%s: %s", label, value)
}

func (b *messageBuilder) build() ports.SendMessageParams {
	b.params.Text = strings.Join(b.lines, "\n")
	return b.params
}
