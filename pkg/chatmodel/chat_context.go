package chatmodel

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/x/values"
	"github.com/google/uuid"
)

// ErrInvalidChatContext is returned when the context does not carry a chat ID.
var ErrInvalidChatContext = errors.New("invalid chat context")

// ChatContext carries the identity and metadata of a chat session.
// Metadata is mutable and safe for concurrent use, AppData is fixed
// at creation.
type ChatContext interface {
	GetChatID() string
	AppData() any
	GetMetadata(key string) (value any, ok bool)
	SetMetadata(key string, value any)
}

// NewChatContext creates a ChatContext with the given chat ID,
// or a generated one when empty.
func NewChatContext(chatID string, appData any) ChatContext {
	return &chatSession{
		id:      values.StringsCoalesce(chatID, NewChatID()),
		appData: appData,
	}
}

// NewChatID generates a new chat ID.
func NewChatID() string {
	return uuid.NewString()
}

type chatSession struct {
	id       string
	appData  any
	metadata sync.Map
}

func (s *chatSession) GetChatID() string {
	return s.id
}

func (s *chatSession) AppData() any {
	return s.appData
}

func (s *chatSession) GetMetadata(key string) (value any, ok bool) {
	return s.metadata.Load(key)
}

func (s *chatSession) SetMetadata(key string, value any) {
	s.metadata.Store(key, value)
}

type chatContextKey struct{}

// WithChatContext attaches the chat session to the context.
func WithChatContext(ctx context.Context, chatCtx ChatContext) context.Context {
	return context.WithValue(ctx, chatContextKey{}, chatCtx)
}

// GetChatContext returns the chat session from the context, or nil.
func GetChatContext(ctx context.Context) ChatContext {
	v, _ := ctx.Value(chatContextKey{}).(ChatContext)
	return v
}

// GetChatID returns the chat ID from the context, or an empty string
// when no chat session is attached.
func GetChatID(ctx context.Context) string {
	if v := GetChatContext(ctx); v != nil {
		return v.GetChatID()
	}
	return ""
}
