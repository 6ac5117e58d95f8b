package llmfactory

import "github.com/cockroachdb/errors"

var (
	// ErrConfiguration is returned when the provider settings are invalid.
	ErrConfiguration = errors.New("configuration error")
	// ErrUnknownProvider is returned when the requested provider name is not configured.
	ErrUnknownProvider = errors.New("unknown provider")
	// ErrResolution is returned when a configured provider cannot be resolved
	// to a client, either because its class path is not registered or because
	// the construction failed.
	ErrResolution = errors.New("resolution error")
)
