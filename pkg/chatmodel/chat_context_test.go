package chatmodel_test

import (
	"context"
	"testing"

	"github.com/effective-security/nexusllm/pkg/chatmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ChatContext(t *testing.T) {
	t.Parallel()

	appData := map[string]string{"key": "value"}
	chatCtx := chatmodel.NewChatContext("chat1", appData)
	assert.Equal(t, "chat1", chatCtx.GetChatID())
	assert.Equal(t, appData, chatCtx.AppData())

	_, ok := chatCtx.GetMetadata("missing")
	assert.False(t, ok)

	chatCtx.SetMetadata("model", "gpt-5-mini")
	val, ok := chatCtx.GetMetadata("model")
	require.True(t, ok)
	assert.Equal(t, "gpt-5-mini", val)

	ctx := context.Background()
	assert.Nil(t, chatmodel.GetChatContext(ctx))
	assert.Empty(t, chatmodel.GetChatID(ctx))

	ctx = chatmodel.WithChatContext(ctx, chatCtx)
	assert.Equal(t, chatCtx, chatmodel.GetChatContext(ctx))
	assert.Equal(t, "chat1", chatmodel.GetChatID(ctx))
}

func Test_ChatContext_GeneratedID(t *testing.T) {
	t.Parallel()

	first := chatmodel.NewChatContext("", nil)
	second := chatmodel.NewChatContext("", nil)
	assert.NotEmpty(t, first.GetChatID())
	assert.NotEmpty(t, second.GetChatID())
	assert.NotEqual(t, first.GetChatID(), second.GetChatID())
}
