// Package json encodes structured replies as JSON, described to the
// model by a generated JSON schema.
package json

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/bububa/ljson"
	"github.com/effective-security/nexusllm/pkg/llmutils"
	"github.com/effective-security/nexusllm/pkg/schema"
	"github.com/go-playground/validator/v10"
)

type Encoder struct {
	schema *schema.Schema
}

func NewEncoder(req any) (*Encoder, error) {
	sc, err := schema.New(reflect.TypeOf(req))
	if err != nil {
		return nil, err
	}
	return &Encoder{schema: sc}, nil
}

func (e *Encoder) Marshal(req any) ([]byte, error) {
	return json.Marshal(req)
}

// Unmarshal strips chatter around the payload and decodes it leniently,
// models occasionally truncate or slightly malform the JSON.
func (e *Encoder) Unmarshal(bs []byte, ret any) error {
	return ljson.Unmarshal(llmutils.CleanJSON(bs), ret)
}

func (e *Encoder) Validate(req any) error {
	return validator.New().Struct(req)
}

func (e *Encoder) GetFormatInstructions() string {
	return strings.Join([]string{
		"",
		"Respond with JSON in the following JSON schema:",
		"```json",
		e.schema.String(),
		"```",
		"Make sure to return an instance of the JSON, not the schema itself.",
		"Use the exact field names as they are defined in the schema.",
		"",
	}, "\n")
}

func (e *Encoder) Schema() *schema.Schema {
	return e.schema
}
