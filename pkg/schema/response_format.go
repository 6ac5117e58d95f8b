package schema

import (
	"reflect"

	"github.com/invopop/jsonschema"
)

// ResponseFormat is an OpenAI style response format selector.
type ResponseFormat struct {
	Type       string                    `json:"type"`
	JSONSchema *ResponseFormatJSONSchema `json:"json_schema,omitempty"`
}

// ResponseFormatJSONSchema names a schema attached to a response format.
type ResponseFormatJSONSchema struct {
	Name   string                            `json:"name"`
	Strict bool                              `json:"strict"`
	Schema *ResponseFormatJSONSchemaProperty `json:"schema"`
}

// ResponseFormatJSONSchemaProperty is one node of the schema tree.
type ResponseFormatJSONSchemaProperty struct {
	Type                 string                                       `json:"type"`
	Title                string                                       `json:"title,omitempty"`
	Description          string                                       `json:"description,omitempty"`
	Enum                 []any                                        `json:"enum,omitempty"`
	Default              any                                          `json:"default,omitempty"`
	Items                *ResponseFormatJSONSchemaProperty            `json:"items,omitempty"`
	Properties           map[string]*ResponseFormatJSONSchemaProperty `json:"properties,omitempty"`
	AdditionalProperties *bool                                        `json:"additionalProperties,omitempty"`
	Required             []string                                     `json:"required,omitempty"`
	Ref                  string                                       `json:"$ref,omitempty"`
}

// NewResponseFormat creates a json_schema response format from the
// given Go type.
func NewResponseFormat(t reflect.Type, strict bool) (*ResponseFormat, error) {
	sc, err := New(t)
	if err != nil {
		return nil, err
	}
	return &ResponseFormat{
		Type: "json_schema",
		JSONSchema: &ResponseFormatJSONSchema{
			Name:   t.Name(),
			Strict: strict,
			Schema: convertProperty(sc.Parameters, strict),
		},
	}, nil
}

func boolPtr(b bool) *bool {
	return &b
}

func convertProperty(in *jsonschema.Schema, strict bool) *ResponseFormatJSONSchemaProperty {
	if in == nil {
		return nil
	}

	out := &ResponseFormatJSONSchemaProperty{
		Type:        in.Type,
		Title:       in.Title,
		Description: in.Description,
		Enum:        in.Enum,
		Default:     in.Default,
		Required:    in.Required,
		Ref:         in.Ref,
		Items:       convertProperty(in.Items, strict),
	}

	// object schemas must pin additionalProperties, strict mode
	// requires them to be disallowed
	if in.AdditionalProperties != nil {
		out.AdditionalProperties = boolPtr(true)
	} else if in.Type == "object" {
		out.AdditionalProperties = boolPtr(false)
	}

	if in.Properties != nil {
		out.Properties = make(map[string]*ResponseFormatJSONSchemaProperty, in.Properties.Len())
		for pair := in.Properties.Oldest(); pair != nil; pair = pair.Next() {
			out.Properties[pair.Key] = convertProperty(pair.Value, strict)
		}
	}

	return out
}
