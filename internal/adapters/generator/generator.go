// Package generator builds the configured ports.ResponseGenerator from a
// "provider:model" string.
package generator

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/bnema/studybuddy/internal/adapters/generator/gemini"
	"github.com/bnema/studybuddy/internal/adapters/generator/openai"
	"github.com/bnema/studybuddy/internal/ports"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	DefaultModel = ProviderGemini + ":" + gemini.DefaultModel
)

var Providers = []string{ProviderGemini, ProviderOpenAI}

type Options struct {
	Model   string
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// ParseModel splits "provider:model". A bare model name is treated as a
// gemini model.
func ParseModel(raw string) (provider string, model string, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = DefaultModel
	}

	provider, model, found := strings.Cut(raw, ":")
	if !found {
		provider, model = ProviderGemini, raw
	}
	provider = strings.ToLower(strings.TrimSpace(provider))
	model = strings.TrimSpace(model)

	if !slices.Contains(Providers, provider) {
		return "", "", fmt.Errorf("unknown generator provider %q (want one of %s)", provider, strings.Join(Providers, ", "))
	}
	if model == "" {
		return "", "", fmt.Errorf("generator model is empty in %q", raw)
	}

	return provider, model, nil
}

// CredentialEnvVar names the environment variable that carries provider's key.
func CredentialEnvVar(provider string) string {
	switch strings.ToLower(provider) {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	default:
		return "GOOGLE_API_KEY"
	}
}

func New(opts Options) (ports.ResponseGenerator, error) {
	provider, model, err := ParseModel(opts.Model)
	if err != nil {
		return nil, err
	}

	switch provider {
	case ProviderOpenAI:
		return openai.NewClient(opts.APIKey, model, opts.BaseURL, opts.Timeout), nil
	default:
		return gemini.NewClient(opts.APIKey, model, opts.BaseURL, opts.Timeout), nil
	}
}
