// Package store provides chat history storage for the chat facade.
// The chat ID is carried in the context via pkg/chatmodel.
package store

import (
	"context"
	"strings"

	"github.com/effective-security/nexusllm/pkg/llms"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/nexusllm", "store")

// MaxMessages is the number of messages retained per chat.
const MaxMessages = 50

// MessageStore stores chat messages per chat ID.
type MessageStore interface {
	// Messages returns the stored messages for the chat in the context.
	Messages(ctx context.Context) []llms.Message
	// Add appends messages to the chat in the context.
	Add(ctx context.Context, msgs ...llms.Message) error
	// Reset removes all messages for the chat in the context.
	Reset(ctx context.Context) error
}

// MessageModel is the serializable form of a chat message.
// Only the textual content is persisted.
type MessageModel struct {
	Role    llms.Role `json:"role"`
	Content string    `json:"content"`
}

// ToModel converts a message to its serializable form.
func ToModel(msg llms.Message) MessageModel {
	return MessageModel{
		Role:    msg.Role,
		Content: strings.TrimSuffix(msg.GetContent(), "\n"),
	}
}

// ToMessage converts a serializable message back to a chat message.
func (m MessageModel) ToMessage() llms.Message {
	return llms.MessageFromTextParts(m.Role, m.Content)
}
