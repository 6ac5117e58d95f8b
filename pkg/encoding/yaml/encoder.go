// Package yaml encodes structured replies as YAML.
package yaml

import (
	"bytes"
	"reflect"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/effective-security/nexusllm/pkg/llmutils"
	"github.com/effective-security/nexusllm/pkg/schema"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Encoder struct {
	reqType reflect.Type
}

func NewEncoder(req any) *Encoder {
	return &Encoder{
		reqType: reflect.TypeOf(req),
	}
}

func (e *Encoder) Marshal(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

func (e *Encoder) Unmarshal(bs []byte, ret any) error {
	return yaml.Unmarshal(llmutils.BytesTrimBackticks(bs), ret)
}

func (e *Encoder) Validate(req any) error {
	return validator.New().Struct(req)
}

// GetFormatInstructions renders an example instance of the reply type,
// populated with fake values, as a YAML block for the prompt.
func (e *Encoder) GetFormatInstructions() string {
	bs, err := e.Marshal(sampleInstance(e.reqType))
	if err != nil {
		return ""
	}
	var b bytes.Buffer
	b.WriteString("\nRespond with YAML in the following YAML schema without comments:\n")
	b.WriteString("```yaml\n")
	b.Write(bs)
	b.WriteString("```")
	b.WriteString("\nMake sure to return an instance of the YAML, not the schema itself.\n")
	return b.String()
}

func sampleInstance(t reflect.Type) any {
	v := reflect.New(t)
	if f, ok := v.Elem().Interface().(schema.Faker); ok {
		return f.Fake()
	}
	instance := v.Interface()
	_ = gofakeit.Struct(instance)
	return instance
}
