package prompts

import (
	"strings"

	"github.com/effective-security/nexusllm/pkg/llms"
	"github.com/effective-security/nexusllm/pkg/llmutils"
)

// ChatPromptValue is a rendered prompt as a list of chat messages.
type ChatPromptValue []llms.Message

var _ llms.PromptValue = ChatPromptValue{}

// Messages returns the message slice.
func (v ChatPromptValue) Messages() []llms.Message {
	return v
}

// String renders the messages one per line, prefixed with the role.
func (v ChatPromptValue) String() string {
	var buf strings.Builder
	llmutils.PrintMessages(&buf, v)
	return buf.String()
}
