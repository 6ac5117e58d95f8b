// Package dummy passes replies through as plain text.
package dummy

import (
	"encoding/json"
)

type Stringer interface {
	String() string
}

type Unmarshaler interface {
	Unmarshal(bs []byte) error
}

type Encoder struct{}

func NewEncoder() *Encoder {
	return new(Encoder)
}

// Marshal returns text-like values as is, anything else as JSON.
func (e *Encoder) Marshal(v any) ([]byte, error) {
	switch t := v.(type) {
	case Stringer:
		return []byte(t.String()), nil
	case string:
		return []byte(t), nil
	case []byte:
		return t, nil
	case *string:
		return []byte(*t), nil
	case *[]byte:
		return *t, nil
	}
	return json.Marshal(v)
}

func (e *Encoder) Unmarshal(bs []byte, ret any) error {
	switch t := ret.(type) {
	case Unmarshaler:
		return t.Unmarshal(bs)
	case *string:
		*t = string(bs)
		return nil
	case *[]byte:
		*t = bs
		return nil
	}
	return json.Unmarshal(bs, ret)
}

func (e *Encoder) Validate(req any) error {
	return nil
}

// GetFormatInstructions is empty, plain text needs no schema.
func (e *Encoder) GetFormatInstructions() string {
	return ""
}
