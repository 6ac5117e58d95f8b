package llmfactory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/nexusllm/pkg/llms"
	"github.com/effective-security/nexusllm/pkg/llms/anthropic"
	"github.com/effective-security/nexusllm/pkg/llms/bedrock"
	"github.com/effective-security/nexusllm/pkg/llms/googleai"
	"github.com/effective-security/nexusllm/pkg/llms/openai"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/nexusllm", "llmfactory")

// NewLLM is a wrapper for CreateLLM to allow for overriding the default implementation.
var NewLLM = CreateLLM

// Factory creates LLM clients from named provider settings.
type Factory interface {
	// CreateClient returns a new client for the named provider.
	// Every call constructs a fresh client.
	CreateClient(name string) (llms.Model, error)
	// ProviderNames returns the configured provider names.
	ProviderNames() []string
}

// Load returns a factory from a YAML settings file.
func Load(location string) (Factory, error) {
	cfg, err := LoadConfig(location)
	if err != nil {
		return nil, err
	}
	return New(cfg), nil
}

type factory struct {
	cfg *Config
}

// New creates a new LLM factory
func New(cfg *Config) Factory {
	return &factory{
		cfg: cfg,
	}
}

func (f *factory) ProviderNames() []string {
	return f.cfg.ProviderNames()
}

func (f *factory) CreateClient(name string) (llms.Model, error) {
	cfg, ok := f.cfg.LLMProviders[name]
	if !ok {
		return nil, errors.WithMessagef(ErrUnknownProvider,
			"provider %q is not configured, available: %s",
			name, strings.Join(f.cfg.ProviderNames(), ", "))
	}

	model, err := NewLLM(cfg)
	if err != nil {
		return nil, err
	}

	logger.KV(xlog.DEBUG,
		"status", "created_llm",
		"provider", name,
		"type", cfg.Type,
		"class_path", cfg.ClassPath,
		"model", model.GetName())

	return model, nil
}

// builtinProviders is the fixed alias table mapping provider type names to
// client builders. Groq, Ollama and Perplexity expose OpenAI compatible APIs
// and are constructed through the openai adapter with preset base URLs.
var builtinProviders = map[string]BuildFunc{
	"openai":     buildOpenAI,
	"azure":      buildAzure,
	"anthropic":  buildAnthropic,
	"google":     buildGoogleAI,
	"bedrock":    buildBedrock,
	"groq":       buildGroq,
	"ollama":     buildOllama,
	"perplexity": buildPerplexity,
}

// BuiltinProviderTypes returns the sorted provider type aliases.
func BuiltinProviderTypes() []string {
	types := make([]string, 0, len(builtinProviders))
	for t := range builtinProviders {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// CreateLLM constructs a client from a single provider entry,
// resolving either the built-in type alias or a registered class path.
func CreateLLM(cfg *ProviderConfig) (llms.Model, error) {
	if cfg.Type != "" {
		build, ok := builtinProviders[strings.ToLower(cfg.Type)]
		if !ok {
			return nil, errors.WithMessagef(ErrConfiguration,
				"unsupported provider type %q, valid types: %s",
				cfg.Type, strings.Join(BuiltinProviderTypes(), ", "))
		}
		model, err := build(cfg.Params)
		if err != nil {
			return nil, errors.WithMessagef(ErrResolution,
				"failed to create client for type %q: %s", cfg.Type, err.Error())
		}
		return model, nil
	}

	build, ok := lookupBuilder(cfg.ClassPath)
	if !ok {
		return nil, errors.WithMessagef(ErrResolution,
			"class path %q is not registered", cfg.ClassPath)
	}
	model, err := build(cfg.Params)
	if err != nil {
		return nil, errors.WithMessagef(ErrResolution,
			"failed to create client for class path %q: %s", cfg.ClassPath, err.Error())
	}
	return model, nil
}

// decodeParams maps the generic parameter mapping onto a typed options struct.
func decodeParams(params Params, out any) error {
	js, err := json.Marshal(map[string]any(params))
	if err != nil {
		return errors.WithStack(err)
	}
	err = json.Unmarshal(js, out)
	if err != nil {
		return errors.WithStack(err)
	}
	return nil
}

type openAIParams struct {
	Model        string `json:"model"`
	APIKey       string `json:"api_key"`
	BaseURL      string `json:"base_url"`
	Organization string `json:"organization"`
	APIVersion   string `json:"api_version"`
	AzureAD      bool   `json:"azure_ad"`
}

func newOpenAICompatible(params Params, provider llms.ProviderType, defaultBaseURL string) (llms.Model, error) {
	var p openAIParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	opts := []openai.Option{
		openai.WithProvider(provider),
	}
	if p.Model != "" {
		opts = append(opts, openai.WithModel(p.Model))
	}
	if p.APIKey != "" {
		opts = append(opts, openai.WithToken(p.APIKey))
	}
	if p.Organization != "" {
		opts = append(opts, openai.WithOrganization(p.Organization))
	}
	if p.APIVersion != "" {
		opts = append(opts, openai.WithAPIVersion(p.APIVersion))
	}
	if baseURL := p.BaseURL; baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	} else if defaultBaseURL != "" {
		opts = append(opts, openai.WithBaseURL(defaultBaseURL))
	}
	return openai.New(opts...)
}

func buildOpenAI(params Params) (llms.Model, error) {
	return newOpenAICompatible(params, llms.ProviderOpenAI, "")
}

func buildAzure(params Params) (llms.Model, error) {
	var p openAIParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	provider := llms.ProviderAzure
	if p.AzureAD {
		provider = llms.ProviderAzureAD
	}
	return newOpenAICompatible(params, provider, "")
}

func buildGroq(params Params) (llms.Model, error) {
	return newOpenAICompatible(params, llms.ProviderGroq, openai.GroqBaseURL)
}

func buildOllama(params Params) (llms.Model, error) {
	return newOpenAICompatible(params, llms.ProviderOllama, openai.OllamaBaseURL)
}

func buildPerplexity(params Params) (llms.Model, error) {
	return newOpenAICompatible(params, llms.ProviderPerplexity, openai.PerplexityBaseURL)
}

type anthropicParams struct {
	Model   string `json:"model"`
	APIKey  string `json:"api_key"`
	BaseURL string `json:"base_url"`
}

func buildAnthropic(params Params) (llms.Model, error) {
	var p anthropicParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	var opts []anthropic.Option
	if p.Model != "" {
		opts = append(opts, anthropic.WithModel(p.Model))
	}
	if p.APIKey != "" {
		opts = append(opts, anthropic.WithToken(p.APIKey))
	}
	if p.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(p.BaseURL))
	}
	return anthropic.New(opts...)
}

type googleAIParams struct {
	Model         string `json:"model"`
	APIKey        string `json:"api_key"`
	CloudProject  string `json:"cloud_project"`
	CloudLocation string `json:"cloud_location"`
}

func buildGoogleAI(params Params) (llms.Model, error) {
	var p googleAIParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	var opts []googleai.Option
	if p.Model != "" {
		opts = append(opts, googleai.WithDefaultModel(p.Model))
	}
	if p.APIKey != "" {
		opts = append(opts, googleai.WithAPIKey(p.APIKey))
	}
	if p.CloudProject != "" {
		opts = append(opts, googleai.WithCloudProject(p.CloudProject))
	}
	if p.CloudLocation != "" {
		opts = append(opts, googleai.WithCloudLocation(p.CloudLocation))
	}
	return googleai.New(context.Background(), opts...)
}

type bedrockParams struct {
	Model string `json:"model"`
}

func buildBedrock(params Params) (llms.Model, error) {
	var p bedrockParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	var opts []bedrock.Option
	if p.Model != "" {
		opts = append(opts, bedrock.WithModel(p.Model))
	}
	return bedrock.New(opts...)
}
