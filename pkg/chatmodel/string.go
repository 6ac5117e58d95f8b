package chatmodel

import "strings"

// String adapts a plain text reply to the typed output contracts.
type String struct {
	value string
}

func NewString(str string) *String {
	return &String{value: str}
}

func (s String) String() string {
	return s.value
}

// GetContent returns the text for the chat history.
func (s String) GetContent() string {
	return s.value
}

func (s String) Bytes() []byte {
	return []byte(s.value)
}

// Unmarshal keeps the raw text, trimming surrounding quotes that some
// models add around short replies.
func (s *String) Unmarshal(bs []byte) error {
	s.value = strings.Trim(string(bs), `"`)
	return nil
}
