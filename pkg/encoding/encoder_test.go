package encoding_test

import (
	"testing"

	"github.com/effective-security/nexusllm/pkg/encoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type SearchType string

const (
	Web   SearchType = "web"
	Image SearchType = "image"
	Video SearchType = "video"
)

type Search struct {
	Topic string     `json:"topic" yaml:"topic" jsonschema:"title=Topic,description=Topic of the search,example=golang" fake:"golang"`
	Query string     `json:"query" yaml:"query" jsonschema:"title=Query,description=Query to search for relevant content,example=what is golang" fake:"what is golang"`
	Type  SearchType `json:"type" yaml:"type" jsonschema:"title=Type,description=Type of search,default=web,enum=web,enum=image,enum=video" fake:"web"`
}

func Test_JSON_Encoding(t *testing.T) {
	e, err := encoding.PredefinedSchemaEncoder(encoding.ModeJSON, Search{})
	require.NoError(t, err)

	instructions := e.GetFormatInstructions()
	assert.Contains(t, instructions, "Respond with JSON in the following JSON schema:")
	assert.Contains(t, instructions, `"description": "Topic of the search"`)
	assert.Contains(t, instructions, "Make sure to return an instance of the JSON, not the schema itself.")

	var res Search
	err = e.Unmarshal([]byte("```json\n{\"topic\": \"golang\", \"query\": \"what is golang\", \"type\": \"web\"}\n```"), &res)
	require.NoError(t, err)
	assert.Equal(t, "golang", res.Topic)
	assert.Equal(t, Web, res.Type)

	// lenient decoding tolerates chatter around the payload
	err = e.Unmarshal([]byte("Sure, here you go:\n{\"topic\": \"golang\", \"query\": \"q\", \"type\": \"image\"}\nLet me know!"), &res)
	require.NoError(t, err)
	assert.Equal(t, Image, res.Type)
}

func Test_YAML_Encoding(t *testing.T) {
	e, err := encoding.PredefinedSchemaEncoder(encoding.ModeYAML, Search{})
	require.NoError(t, err)

	instructions := e.GetFormatInstructions()
	assert.Contains(t, instructions, "topic: golang")
	assert.Contains(t, instructions, "query: what is golang")
	assert.Contains(t, instructions, "type: web")

	var res Search
	err = e.Unmarshal([]byte("```yaml\ntopic: golang\nquery: what is golang\ntype: video\n```"), &res)
	require.NoError(t, err)
	assert.Equal(t, "golang", res.Topic)
	assert.Equal(t, Video, res.Type)
}

func Test_PlainText_Encoding(t *testing.T) {
	e, err := encoding.PredefinedSchemaEncoder(encoding.ModePlainText, "")
	require.NoError(t, err)
	assert.Empty(t, e.GetFormatInstructions())

	var res string
	require.NoError(t, e.Unmarshal([]byte("just text"), &res))
	assert.Equal(t, "just text", res)
}

func Test_UnknownMode(t *testing.T) {
	_, err := encoding.PredefinedSchemaEncoder("unknown", Search{})
	require.Error(t, err)
}

func Test_TypedOutputParser(t *testing.T) {
	p, err := encoding.NewTypedOutputParser(Search{}, encoding.ModeJSONSchema)
	require.NoError(t, err)

	res, err := p.Parse("{\"topic\": \"golang\", \"query\": \"what is golang\", \"type\": \"web\"}")
	require.NoError(t, err)
	assert.Equal(t, "golang", res.Topic)
	assert.Equal(t, "what is golang", res.Query)

	_, err = p.Parse("no payload here")
	require.Error(t, err)
}
