package llm

import (
	"fmt"
	"strings"
)

const defaultOllamaHost = "http://localhost:11434"

// ollamaAPIKey is sent as the bearer token. Ollama ignores it, but the
// OpenAI client refuses to run without one.
const ollamaAPIKey = "ollama"

// OllamaProvider talks to a local Ollama server through its
// OpenAI-compatible /v1 endpoint.
type OllamaProvider struct {
	*OpenAIProvider
	host string
}

// NewOllamaProvider creates a provider for the Ollama server at cfg.Host.
func NewOllamaProvider(cfg OllamaConfig) (*OllamaProvider, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("ollama model is required")
	}

	host := cfg.Host
	if host == "" {
		host = defaultOllamaHost
	}
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}

	inner, err := newOpenAIProviderRaw(OpenAIConfig{
		APIKey:  ollamaAPIKey,
		Model:   cfg.Model,
		BaseURL: ollamaBaseURL(host),
	})
	if err != nil {
		return nil, err
	}

	return &OllamaProvider{OpenAIProvider: inner, host: host}, nil
}

// Host returns the server address the provider was configured with.
func (p *OllamaProvider) Host() string {
	return p.host
}

func ollamaBaseURL(host string) string {
	host = strings.TrimRight(host, "/")
	if strings.HasSuffix(host, "/v1") {
		return host
	}
	return host + "/v1"
}
