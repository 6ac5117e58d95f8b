package llmutils_test

import (
	"strings"
	"testing"

	"github.com/effective-security/nexusllm/pkg/llms"
	"github.com/effective-security/nexusllm/pkg/llmutils"
	"github.com/stretchr/testify/assert"
)

func Test_CleanJSON(t *testing.T) {
	llmOutput := "\n```json\n\n{\"city\": \"Paris\", \"country\": \"France\"}\n\n```\n\n"
	clean := llmutils.CleanJSON([]byte(llmOutput))

	expected := "{\"city\": \"Paris\", \"country\": \"France\"}"
	assert.Equal(t, expected, string(clean))

	llmOutput = "Here you go:\n```json\n\n[{\"city\": \"Paris\", \"country\": \"France\"}]\n```\n\n"
	clean = llmutils.CleanJSON([]byte(llmOutput))

	expected = "[{\"city\": \"Paris\", \"country\": \"France\"}]"
	assert.Equal(t, expected, string(clean))

	// a JSON object holding backticked JSON in a string value stays intact
	resp := "{\n\t\"answer\": \"Here is the search query used to find the top 5 assets under attack:\\n\\n```json\\n{\\n  \\\"queryId\\\": \\\"Asset\\\",\\n  \\\"filterQuery\\\": {\\n    \\\"term\\\": {\\n      \\\"asset.OnAttack\\\": true\\n    }\\n  },\\n  \\\"sort\\\": \\\"asset.AttackCount DESC\\\",\\n  \\\"limit\\\": 5\\n}\\n```\",\n\t\"chatTitle\": \"Top 5 Assets Under Attack\",\n\t\"actions\": []\n}"
	assert.Equal(t, resp, string(llmutils.CleanJSON([]byte(resp))))

	// no JSON at all
	assert.Equal(t, "no payload", string(llmutils.CleanJSON([]byte("no payload"))))
}

func Test_BytesTrimBackticks(t *testing.T) {
	expected := "{\"city\": \"Paris\", \"country\": \"France\"}"

	assert.Equal(t, expected, string(llmutils.BytesTrimBackticks([]byte("\n```json\n\n{\"city\": \"Paris\", \"country\": \"France\"}\n\n```\n\n"))))
	// no fence, returned as is
	assert.Equal(t, expected, string(llmutils.BytesTrimBackticks([]byte(expected))))
	assert.Equal(t, expected, string(llmutils.BytesTrimBackticks([]byte("\n```\n\n{\"city\": \"Paris\", \"country\": \"France\"}\n\n```\n\n"))))
	// payload right after the fence, no language tag line
	assert.Equal(t, expected, string(llmutils.BytesTrimBackticks([]byte("\n```{\"city\": \"Paris\", \"country\": \"France\"}\n\n```\n\n"))))
}

func Test_PrintMessages(t *testing.T) {
	msgs := []llms.Message{
		llms.MessageFromTextParts(llms.RoleSystem, "What is the capital of Italy?"),
		llms.MessageFromTextParts(llms.RoleHuman, "What is the capital of Germany?"),
		llms.MessageFromTextParts(llms.RoleAI, "What is the capital of France?"),
	}

	var buf strings.Builder
	llmutils.PrintMessages(&buf, msgs)
	exp := `SYSTEM: What is the capital of Italy?
HUMAN: What is the capital of Germany?
AI: What is the capital of France?
`
	assert.Equal(t, exp, buf.String())
}

func Test_CountMessagesContentSize(t *testing.T) {
	msgs := []llms.Message{
		llms.MessageFromTextParts(llms.RoleHuman, "Hello"),
		llms.MessageFromTextParts(llms.RoleAI, "Hi there"),
	}
	size := llmutils.CountMessagesContentSize(msgs)
	// roles plus text
	assert.Equal(t, uint64(5+5+2+8), size)
}

func Test_CountResponseContentSize(t *testing.T) {
	resp := &llms.ContentResponse{
		Choices: []*llms.ContentChoice{
			{
				Content: "Hello world",
			},
		},
	}
	size := llmutils.CountResponseContentSize(resp)
	assert.Equal(t, uint64(11), size)
}

func Test_CountTokens(t *testing.T) {
	resp := &llms.ContentResponse{
		Choices: []*llms.ContentChoice{
			{
				Content: "Hello",
				GenerationInfo: map[string]any{
					"InputTokens":  int64(10),
					"OutputTokens": int64(5),
					"TotalTokens":  int64(15),
				},
			},
			{
				Content: "World",
				GenerationInfo: map[string]any{
					"InputTokens":  int64(1),
					"OutputTokens": int64(2),
					"TotalTokens":  int64(3),
				},
			},
		},
	}
	in, out, total := llmutils.CountTokens(resp)
	assert.Equal(t, int64(11), in)
	assert.Equal(t, int64(7), out)
	assert.Equal(t, int64(18), total)
}
