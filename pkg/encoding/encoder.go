// Package encoding provides schema encoders for structured model
// output: format instructions for the prompt and lenient decoding of
// the reply.
package encoding

import (
	"github.com/cockroachdb/errors"
	dummyenc "github.com/effective-security/nexusllm/pkg/encoding/dummy"
	jsonenc "github.com/effective-security/nexusllm/pkg/encoding/json"
	tomlenc "github.com/effective-security/nexusllm/pkg/encoding/toml"
	yamlenc "github.com/effective-security/nexusllm/pkg/encoding/yaml"
)

// SchemaEncoder describes and decodes one reply format.
type SchemaEncoder interface {
	Marshal(req any) ([]byte, error)
	Unmarshal([]byte, any) error
	// GetFormatInstructions returns the reply schema wrapped for the prompt
	GetFormatInstructions() string
}

type Validator interface {
	Validate(any) error
}

// Mode selects the reply format of a structured call.
type Mode = string

const (
	ModeJSON             Mode = "json"
	ModeJSONSchema       Mode = "json_schema"
	ModeJSONSchemaStrict Mode = "json_schema_strict" // Not all providers support this and all props must be required
	ModeYAML             Mode = "yaml"
	ModeTOML             Mode = "toml"
	ModePlainText        Mode = "plain_text"
)

// PredefinedSchemaEncoder returns the encoder for the mode,
// bound to the reply type.
func PredefinedSchemaEncoder(mode Mode, req any) (SchemaEncoder, error) {
	switch mode {
	case ModeJSON, ModeJSONSchema, ModeJSONSchemaStrict:
		return jsonenc.NewEncoder(req)
	case ModeYAML:
		return yamlenc.NewEncoder(req), nil
	case ModeTOML:
		return tomlenc.NewEncoder(req), nil
	case ModePlainText:
		return dummyenc.NewEncoder(), nil
	default:
		return nil, errors.New("no predefined encoder")
	}
}

var (
	_ SchemaEncoder = (*dummyenc.Encoder)(nil)
	_ SchemaEncoder = (*jsonenc.Encoder)(nil)
	_ SchemaEncoder = (*tomlenc.Encoder)(nil)
	_ SchemaEncoder = (*yamlenc.Encoder)(nil)
)
