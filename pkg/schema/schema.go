// Package schema generates JSON schemas for Go types, used to
// describe the expected response shape to a model.
package schema

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Faker lets a type supply its own example instance for prompt
// format instructions.
type Faker interface {
	Fake() any
}

// Schema is the JSON schema of a Go type.
type Schema struct {
	RawSchema *jsonschema.Schema
	// Parameters is the inlined form with $defs references resolved.
	Parameters *jsonschema.Schema
}

var (
	schemasMu sync.Mutex
	schemas   = map[reflect.Type]*Schema{}
)

// New returns the schema for the given type.
// Schemas are generated once and cached per type.
func New(t reflect.Type) (*Schema, error) {
	schemasMu.Lock()
	defer schemasMu.Unlock()

	if s, ok := schemas[t]; ok {
		return s, nil
	}

	raw := generate(t)
	s := &Schema{
		RawSchema:  raw,
		Parameters: inlineDefs(raw),
	}
	schemas[t] = s
	return s, nil
}

func (s *Schema) String() string {
	js, _ := json.MarshalIndent(s.Parameters, "", "\t")
	return string(js)
}

func generate(t reflect.Type) *jsonschema.Schema {
	// VS Code tooling does not handle the 2020-12 dialect
	jsonschema.Version = "http://json-schema.org/draft-07/schema#"

	r := jsonschema.Reflector{
		ExpandedStruct:            true,
		DoNotReference:            true,
		AllowAdditionalProperties: true,
		// Struct names can collide across packages, which breaks $ref
		// targets. Hash the package path into the name to keep them unique.
		Namer: func(t reflect.Type) string {
			if t.Kind() != reflect.Struct {
				return t.Name()
			}
			id := xxhash.Sum64String(t.PkgPath() + "/" + t.Name())
			return t.Name() + "@" + strconv.FormatUint(id, 10)
		},
	}
	return r.ReflectFromType(t)
}

// inlineDefs returns a schema holding the top level properties with
// all $defs references resolved inline.
func inlineDefs(raw *jsonschema.Schema) *jsonschema.Schema {
	rootName := strings.TrimPrefix(raw.Ref, "#/$defs/")

	root := raw
	defs := map[string]*jsonschema.Schema{}
	for name, def := range raw.Definitions {
		if name == rootName {
			root = def
			continue
		}
		defs[name] = def
	}

	out := &jsonschema.Schema{
		Type:       root.Type,
		Properties: root.Properties,
		Required:   root.Required,
	}
	expandRefs(out.Properties, defs)
	return out
}

func deref(s *jsonschema.Schema, defs map[string]*jsonschema.Schema) *jsonschema.Schema {
	if s == nil || s.Ref == "" {
		return s
	}
	if def, ok := defs[strings.TrimPrefix(s.Ref, "#/$defs/")]; ok {
		return def
	}
	return s
}

func expandRefs(props *orderedmap.OrderedMap[string, *jsonschema.Schema], defs map[string]*jsonschema.Schema) {
	if props == nil {
		return
	}
	for pair := props.Oldest(); pair != nil; pair = pair.Next() {
		child := deref(pair.Value, defs)
		pair.Value = child
		child.Items = deref(child.Items, defs)
		expandRefs(child.Properties, defs)
	}
}

// FromAny builds a json schema from a generic value, typically a
// map[string]any literal describing the schema.
func FromAny(t any) (*jsonschema.Schema, error) {
	js, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	out := &jsonschema.Schema{}
	err = json.Unmarshal(js, out)
	if err != nil {
		return nil, err
	}
	return out, nil
}
