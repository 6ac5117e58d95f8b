package chat

import (
	"context"
	"reflect"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/nexusllm/pkg/encoding"
	"github.com/effective-security/nexusllm/pkg/llms"
	"github.com/effective-security/nexusllm/pkg/schema"
)

func isJSONMode(mode encoding.Mode) bool {
	return mode == encoding.ModeJSON ||
		mode == encoding.ModeJSONSchema ||
		mode == encoding.ModeJSONSchemaStrict
}

// GenerateStructured asks the model for a reply shaped as T, encoded per
// req.Format (JSON schema when empty). For JSON modes on providers with
// schema support the schema is attached to the call; otherwise format
// instructions are appended to the system prompt. The reply is decoded
// leniently.
func GenerateStructured[T any](ctx context.Context, c *Client, req *Request) (*T, error) {
	mode := req.Format
	if mode == "" {
		mode = encoding.ModeJSONSchema
	}

	var output T
	parser, err := encoding.NewTypedOutputParser(output, mode)
	if err != nil {
		return nil, err
	}

	prov := c.llm.GetProviderType()

	var extraSystem string
	var callOpts []llms.CallOption
	if isJSONMode(mode) && prov.Supports(llms.CapabilityJSONSchema) {
		strict := prov.Supports(llms.CapabilityJSONSchemaStrict)
		rf, err := schema.NewResponseFormat(reflect.TypeOf(output), strict)
		if err != nil {
			return nil, errors.WithMessage(err, "failed to create response format")
		}
		callOpts = append(callOpts, llms.WithResponseFormat(rf))
	} else {
		extraSystem = strings.TrimRight(parser.GetFormatInstructions(), "\n")
	}

	messages, userMessage, err := c.buildMessages(ctx, req, extraSystem)
	if err != nil {
		return nil, err
	}
	callOpts = append(callOpts, req.Options...)

	resp, err := c.call(ctx, messages, callOpts...)
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("model returned no choices")
	}

	result := resp.Choices[0].Content
	parsed, err := parser.Parse(result)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to parse model response")
	}

	c.persistExchange(ctx, userMessage, result)
	return parsed, nil
}
