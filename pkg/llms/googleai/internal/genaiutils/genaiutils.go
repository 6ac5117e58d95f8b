// Package genaiutils converts generic schema types to genai ones.
package genaiutils

import (
	"github.com/effective-security/nexusllm/pkg/schema"
	"google.golang.org/genai"
)

// ConvertResponseFormatJSONSchema converts a json_schema response format to a genai.Schema.
func ConvertResponseFormatJSONSchema(jschema *schema.ResponseFormatJSONSchema) (*genai.Schema, error) {
	if jschema == nil || jschema.Schema == nil {
		return nil, nil
	}
	return convertProperty(jschema.Schema), nil
}

func convertProperty(p *schema.ResponseFormatJSONSchemaProperty) *genai.Schema {
	if p == nil {
		return nil
	}

	out := &genai.Schema{
		Type:        ConvertSchemaType(p.Type),
		Description: p.Description,
		Required:    p.Required,
		Items:       convertProperty(p.Items),
	}
	if len(p.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(p.Properties))
		for k, v := range p.Properties {
			out.Properties[k] = convertProperty(v)
		}
	}
	return out
}

// ConvertSchemaType converts a JSON schema type name to a genai enum.
func ConvertSchemaType(ty string) genai.Type {
	switch ty {
	case "object":
		return genai.TypeObject
	case "string":
		return genai.TypeString
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	default:
		return genai.TypeUnspecified
	}
}

func Float32Ptr(f float32) *float32 {
	if f == 0 {
		return nil
	}
	return &f
}

func Int32Ptr(i int32) *int32 {
	if i == 0 {
		return nil
	}
	return &i
}
