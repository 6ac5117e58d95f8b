package chatmodel

// OutputParser decodes the textual output of an LLM call into T.
type OutputParser[T any] interface {
	// Parse decodes the model reply.
	Parse(text string) (*T, error)
	// GetFormatInstructions describes the expected reply format,
	// suitable for inclusion in a prompt.
	GetFormatInstructions() string
	// Type is a key identifying this class of parser.
	Type() string
}

// FewShotExample is a single prompt and completion pair used to
// prime the model before the user input.
type FewShotExample struct {
	Prompt     string `json:"prompt" yaml:"prompt"`
	Completion string `json:"completion" yaml:"completion"`
}

type FewShotExamples []FewShotExample
