package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	oerrors "github.com/devspell/cli/internal/errors"
)

// Providers accepted by New.
const (
	ProviderGemini = "gemini"
	ProviderGroq   = "groq"
	ProviderFake   = "fake"
)

// Default models per provider.
const (
	DefaultGeminiModel = "gemini-2.5-flash"
	DefaultGroqModel   = "llama-3.3-70b-versatile"
)

// Options configures New.
type Options struct {
	Provider string
	Model    string
	APIKey   string

	// BaseURL overrides the Groq endpoint.
	BaseURL string

	// Timeout bounds each attempt.
	Timeout time.Duration
	Retries int
	RPS     float64
	Burst   int
}

// New builds the configured client wrapped in logging, retry, rate-limit and
// timeout middleware, outermost first.
func New(ctx context.Context, opts Options) (Client, error) {
	var (
		inner Client
		err   error
	)

	switch strings.ToLower(strings.TrimSpace(opts.Provider)) {
	case ProviderGemini:
		model := opts.Model
		if model == "" {
			model = DefaultGeminiModel
		}
		inner, err = NewGeminiClient(ctx, opts.APIKey, model)
		if err != nil {
			return nil, err
		}
	case ProviderGroq:
		if opts.APIKey == "" {
			return nil, oerrors.NewValidationError("groq requires an API key", "", "llm.apiKey",
				"Set DEVSPELL_LLM_APIKEY or GROQ_API_KEY")
		}
		model := opts.Model
		if model == "" {
			model = DefaultGroqModel
		}
		inner = NewGroqClient(opts.APIKey, model, opts.BaseURL)
	case ProviderFake, "":
		inner = NewFakeClient()
	default:
		return nil, oerrors.NewValidationError(fmt.Sprintf("unknown llm provider %q", opts.Provider), "", "llm.provider",
			"Use one of: gemini, groq, fake")
	}

	return Wrap(inner,
		Logging(),
		Retry(opts.Retries+1, 0),
		RateLimit(opts.RPS, opts.Burst),
		Timeout(opts.Timeout),
	), nil
}
