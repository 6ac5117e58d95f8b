package anthropic_test

import (
	"os"
	"testing"

	"github.com/effective-security/nexusllm/pkg/llms"
	"github.com/effective-security/nexusllm/pkg/llms/anthropic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_New(t *testing.T) {
	t.Setenv(anthropic.TokenEnvVarName, "placeholder")
	require.NoError(t, os.Unsetenv(anthropic.TokenEnvVarName))

	_, err := anthropic.New(anthropic.WithModel("claude-sonnet-4-5"))
	require.Error(t, err)
	assert.ErrorIs(t, err, anthropic.ErrMissingToken)

	_, err = anthropic.New(anthropic.WithToken("sk-ant-test"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model is required")

	llm, err := anthropic.New(
		anthropic.WithToken("sk-ant-test"),
		anthropic.WithModel("claude-sonnet-4-5"),
	)
	require.NoError(t, err)
	assert.Equal(t, "claude-sonnet-4-5", llm.GetName())
	assert.Equal(t, llms.ProviderAnthropic, llm.GetProviderType())
}

func Test_New_TokenFromEnv(t *testing.T) {
	t.Setenv(anthropic.TokenEnvVarName, "sk-ant-from-env")

	llm, err := anthropic.New(anthropic.WithModel("claude-sonnet-4-5"))
	require.NoError(t, err)
	require.NotNil(t, llm.Client)
}

func Test_ProcessMessages(t *testing.T) {
	messages := []llms.Message{
		llms.MessageFromTextParts(llms.RoleSystem, "Be terse."),
		llms.MessageFromTextParts(llms.RoleHuman, "Hello"),
		llms.MessageFromTextParts(llms.RoleAI, "Hi!"),
	}

	sdkMessages, system, err := anthropic.ProcessMessages(messages)
	require.NoError(t, err)
	assert.Equal(t, "Be terse.", system)
	require.Equal(t, 2, len(sdkMessages))
	assert.Equal(t, "user", string(sdkMessages[0].Role))
	assert.Equal(t, "assistant", string(sdkMessages[1].Role))
}

func Test_ProcessMessages_Unsupported(t *testing.T) {
	messages := []llms.Message{
		{Role: llms.Role("tool"), Parts: []llms.ContentPart{llms.TextPart("x")}},
	}
	_, _, err := anthropic.ProcessMessages(messages)
	require.Error(t, err)
}
