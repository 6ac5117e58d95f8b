package llmfactory

import (
	"os"
	"regexp"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/x/values"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Params is the provider construction parameter mapping,
// passed to the client builder as is.
type Params = values.MapAny

// Config describes the set of configured LLM providers.
type Config struct {
	// LLMProviders specifies the named providers available to the factory.
	LLMProviders map[string]*ProviderConfig `json:"llm_providers" yaml:"llm_providers" validate:"required,min=1"`
}

// ProviderConfig describes a single provider entry.
// Exactly one of Type or ClassPath must be set:
// Type selects a built-in provider alias,
// ClassPath selects a registered custom builder.
type ProviderConfig struct {
	Type      string `json:"type,omitempty" yaml:"type,omitempty"`
	ClassPath string `json:"class_path,omitempty" yaml:"class_path,omitempty"`
	Params    Params `json:"params,omitempty" yaml:"params,omitempty"`
}

// ProviderNames returns the sorted configured provider names.
func (c *Config) ProviderNames() []string {
	names := make([]string, 0, len(c.LLMProviders))
	for name := range c.LLMProviders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadConfig loads and validates provider settings from a YAML file.
func LoadConfig(file string) (*Config, error) {
	bs, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.WithMessagef(ErrConfiguration, "failed to read config: %s", err.Error())
	}
	return ParseConfig(bs)
}

// ParseConfig loads and validates provider settings from a YAML document.
func ParseConfig(bs []byte) (*Config, error) {
	cfg := new(Config)
	err := yaml.Unmarshal(bs, cfg)
	if err != nil {
		return nil, errors.WithMessagef(ErrConfiguration, "failed to parse config: %s", err.Error())
	}

	err = resolveEnv(cfg)
	if err != nil {
		return nil, err
	}

	err = validateConfig(cfg)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

var envVarRe = regexp.MustCompile(`\$\{env:([A-Za-z_][A-Za-z0-9_]*)\}`)

// resolveEnv replaces ${env:NAME} placeholders in all string values with the
// value of the named environment variable. An unset variable fails the load.
func resolveEnv(cfg *Config) error {
	for name, p := range cfg.LLMProviders {
		var err error
		p.Type, err = resolveEnvString(name, p.Type)
		if err != nil {
			return err
		}
		p.ClassPath, err = resolveEnvString(name, p.ClassPath)
		if err != nil {
			return err
		}
		resolved, err := resolveEnvValue(name, map[string]any(p.Params))
		if err != nil {
			return err
		}
		if m, ok := resolved.(map[string]any); ok {
			p.Params = Params(m)
		}
	}
	return nil
}

func resolveEnvValue(provider string, val any) (any, error) {
	switch v := val.(type) {
	case string:
		return resolveEnvString(provider, v)
	case map[string]any:
		for k, item := range v {
			resolved, err := resolveEnvValue(provider, item)
			if err != nil {
				return nil, err
			}
			v[k] = resolved
		}
		return v, nil
	case []any:
		for i, item := range v {
			resolved, err := resolveEnvValue(provider, item)
			if err != nil {
				return nil, err
			}
			v[i] = resolved
		}
		return v, nil
	default:
		return val, nil
	}
}

func resolveEnvString(provider, s string) (string, error) {
	var missing string
	resolved := envVarRe.ReplaceAllStringFunc(s, func(match string) string {
		name := envVarRe.FindStringSubmatch(match)[1]
		val, ok := os.LookupEnv(name)
		if !ok {
			missing = name
			return match
		}
		return val
	})
	if missing != "" {
		return "", errors.WithMessagef(ErrConfiguration,
			"provider %q: environment variable %q is not set", provider, missing)
	}
	return resolved, nil
}

func validateConfig(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return errors.WithMessagef(ErrConfiguration, "invalid config: %s", err.Error())
	}

	for _, name := range cfg.ProviderNames() {
		p := cfg.LLMProviders[name]
		if p == nil {
			return errors.WithMessagef(ErrConfiguration, "provider %q: empty definition", name)
		}
		if p.Type != "" && p.ClassPath != "" {
			return errors.WithMessagef(ErrConfiguration,
				"provider %q: type and class_path are mutually exclusive", name)
		}
		if p.Type == "" && p.ClassPath == "" {
			return errors.WithMessagef(ErrConfiguration,
				"provider %q: either type or class_path is required", name)
		}
	}
	return nil
}
