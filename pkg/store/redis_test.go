package store_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/effective-security/nexusllm/pkg/chatmodel"
	"github.com/effective-security/nexusllm/pkg/llms"
	"github.com/effective-security/nexusllm/pkg/store"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	rediscon "github.com/testcontainers/testcontainers-go/modules/redis"
)

func Test_RedisStore(t *testing.T) {
	ctx := context.Background()
	redisContainer, err := rediscon.Run(ctx, "redis:7",
		testcontainers.WithConfigModifier(func(config *container.Config) {
			config.Env = []string{
				"ALLOW_EMPTY_PASSWORD=yes",
				"REDIS_PASSWORD=redis",
				"REDIS_TLS_PORT=16379",
			}
		}),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, redisContainer.Terminate(ctx))
	})

	state, err := redisContainer.State(ctx)
	require.NoError(t, err)
	require.True(t, state.Running)

	root := fmt.Sprintf("test-%d", time.Now().Unix())

	host, err := redisContainer.ConnectionString(ctx)
	require.NoError(t, err)

	options, err := redis.ParseURL(host)
	require.NoError(t, err)

	client := redis.NewClient(options)

	rs := client.Ping(ctx) // Ensure the connection is established
	require.NoError(t, rs.Err(), "failed to connect to Redis")

	st := store.NewRedisStore(client, root)

	msg1 := llms.MessageFromTextParts(llms.RoleHuman, "Hello")
	msg2 := llms.MessageFromTextParts(llms.RoleAI, "Hi there!")

	expErr := "invalid chat context"
	assert.EqualError(t, st.Reset(ctx), expErr)
	assert.EqualError(t, st.Add(ctx, msg1), expErr)
	assert.Empty(t, st.Messages(ctx))

	chatCtx := chatmodel.NewChatContext("chat1", map[string]string{"key": "value"})
	ctx = chatmodel.WithChatContext(ctx, chatCtx)

	require.NoError(t, st.Add(ctx, msg1))
	require.NoError(t, st.Add(ctx, msg2))

	messages := st.Messages(ctx)
	require.Equal(t, 2, len(messages))
	assert.Equal(t, msg1.GetContent(), messages[0].GetContent())
	assert.Equal(t, llms.RoleHuman, messages[0].Role)
	assert.Equal(t, msg2.GetContent(), messages[1].GetContent())
	assert.Equal(t, llms.RoleAI, messages[1].Role)

	// only the most recent messages are kept
	var batch []llms.Message
	for i := 0; i < store.MaxMessages+5; i++ {
		batch = append(batch, llms.MessageFromTextParts(llms.RoleHuman, fmt.Sprintf("message %d", i)))
	}
	require.NoError(t, st.Add(ctx, batch...))

	messages = st.Messages(ctx)
	require.Equal(t, store.MaxMessages, len(messages))
	assert.Equal(t, fmt.Sprintf("message %d\n", store.MaxMessages+4), messages[len(messages)-1].GetContent())

	err = st.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, len(st.Messages(ctx)))
}
