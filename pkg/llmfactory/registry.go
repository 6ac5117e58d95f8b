package llmfactory

import (
	"sort"
	"sync"

	"github.com/effective-security/nexusllm/pkg/llms"
)

// BuildFunc constructs a client from the provider parameter mapping.
type BuildFunc func(params Params) (llms.Model, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]BuildFunc{}
)

// Register makes a client builder available under the given class path key.
// Built-in providers are registered under their Go import paths; applications
// may register custom builders under their own keys and reference them from
// the config via class_path. Later registrations replace earlier ones.
func Register(classPath string, build BuildFunc) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[classPath] = build
}

func lookupBuilder(classPath string) (BuildFunc, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	b, ok := registry[classPath]
	return b, ok
}

// RegisteredClassPaths returns the sorted registered class path keys.
func RegisteredClassPaths() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	keys := make([]string, 0, len(registry))
	for k := range registry {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func init() {
	Register("github.com/effective-security/nexusllm/pkg/llms/openai", buildOpenAI)
	Register("github.com/effective-security/nexusllm/pkg/llms/anthropic", buildAnthropic)
	Register("github.com/effective-security/nexusllm/pkg/llms/googleai", buildGoogleAI)
	Register("github.com/effective-security/nexusllm/pkg/llms/bedrock", buildBedrock)
}
