// Package toml encodes structured replies as TOML.
package toml

import (
	"bytes"
	"reflect"

	"github.com/BurntSushi/toml"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/effective-security/nexusllm/pkg/llmutils"
	"github.com/effective-security/nexusllm/pkg/schema"
	"github.com/go-playground/validator/v10"
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
	return toml.Marshal(v)
}

func (e *Encoder) Unmarshal(bs []byte, ret any) error {
	return toml.Unmarshal(llmutils.BytesTrimBackticks(bs), ret)
}

func (e *Encoder) Validate(req any) error {
	return validator.New().Struct(req)
}

// GetFormatInstructions renders an example instance of the reply type,
// populated with fake values, as a TOML block for the prompt.
func (e *Encoder) GetFormatInstructions() string {
	bs, err := e.Marshal(sampleInstance(e.reqType))
	if err != nil {
		return ""
	}
	var b bytes.Buffer
	b.WriteString("\nRespond with TOML in the following TOML schema:\n")
	b.WriteString("```toml\n")
	b.Write(bs)
	b.WriteString("```")
	b.WriteString("\nMake sure to return an instance of the TOML, not the schema itself.\n")
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
