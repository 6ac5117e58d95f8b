package prompts

import (
	"strings"
	"text/template"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/nexusllm/pkg/llms"
)

// MessageFormatter produces chat messages from a value mapping.
type MessageFormatter interface {
	FormatMessages(values map[string]any) ([]llms.Message, error)
	GetInputVariables() []string
}

// MessageTemplate renders a single chat message from a Go text template.
// Rendering fails when a declared input variable is missing from the values.
type MessageTemplate struct {
	role           llms.Role
	template       string
	inputVariables []string
}

var _ MessageFormatter = MessageTemplate{}

// NewSystemMessagePromptTemplate creates a template for system messages.
func NewSystemMessagePromptTemplate(tpl string, inputVariables []string) MessageTemplate {
	return MessageTemplate{
		role:           llms.RoleSystem,
		template:       tpl,
		inputVariables: inputVariables,
	}
}

// NewHumanMessagePromptTemplate creates a template for human messages.
func NewHumanMessagePromptTemplate(tpl string, inputVariables []string) MessageTemplate {
	return MessageTemplate{
		role:           llms.RoleHuman,
		template:       tpl,
		inputVariables: inputVariables,
	}
}

// NewAIMessagePromptTemplate creates a template for AI messages.
func NewAIMessagePromptTemplate(tpl string, inputVariables []string) MessageTemplate {
	return MessageTemplate{
		role:           llms.RoleAI,
		template:       tpl,
		inputVariables: inputVariables,
	}
}

// GetInputVariables implements MessageFormatter.
func (t MessageTemplate) GetInputVariables() []string {
	return t.inputVariables
}

// FormatMessages implements MessageFormatter.
func (t MessageTemplate) FormatMessages(values map[string]any) ([]llms.Message, error) {
	for _, name := range t.inputVariables {
		if _, ok := values[name]; !ok {
			return nil, errors.Errorf("missing input variable: %s", name)
		}
	}

	tmpl, err := template.New("prompt").Option("missingkey=error").Parse(t.template)
	if err != nil {
		return nil, errors.Wrap(err, "invalid template")
	}

	var buf strings.Builder
	err = tmpl.Execute(&buf, values)
	if err != nil {
		return nil, errors.Wrap(err, "failed to render template")
	}

	return []llms.Message{llms.MessageFromTextParts(t.role, buf.String())}, nil
}

// ChatPromptTemplate is a sequence of message formatters
// rendered together into a chat prompt.
type ChatPromptTemplate struct {
	// Messages is the list of the messages to be formatted.
	Messages []MessageFormatter
}

// NewChatPromptTemplate creates a new chat prompt template from a list of
// message formatters.
func NewChatPromptTemplate(messages []MessageFormatter) ChatPromptTemplate {
	return ChatPromptTemplate{
		Messages: messages,
	}
}

// FormatPrompt renders all message templates with the given values.
func (p ChatPromptTemplate) FormatPrompt(values map[string]any) (llms.PromptValue, error) {
	result := make(ChatPromptValue, 0, len(p.Messages))
	for _, m := range p.Messages {
		msgs, err := m.FormatMessages(values)
		if err != nil {
			return nil, err
		}
		result = append(result, msgs...)
	}
	return result, nil
}

// GetInputVariables returns the union of the input variables of all templates.
func (p ChatPromptTemplate) GetInputVariables() []string {
	seen := map[string]bool{}
	var result []string
	for _, m := range p.Messages {
		for _, v := range m.GetInputVariables() {
			if !seen[v] {
				seen[v] = true
				result = append(result, v)
			}
		}
	}
	return result
}
