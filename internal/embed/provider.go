package embed

import (
	"fmt"
	"os"
)

// Options selects and configures an embedder from CLI flags.
type Options struct {
	Provider  string // mock|hf|openai|cohere|voyage
	Model     string
	Dimension int
	BaseURL   string
}

// NewFromOptions resolves an Embedder from CLI flags and the environment
// variables SPEC_FULL.md §6 names for each provider (HF_TOKEN,
// OPENAI_API_KEY, COHERE_API_KEY, VOYAGE_API_KEY).
func NewFromOptions(opts Options) (Embedder, error) {
	switch opts.Provider {
	case "", "mock":
		return NewMock(opts.Dimension), nil
	case "openai":
		return NewOpenAI(os.Getenv("OPENAI_API_KEY"), opts.BaseURL, defaultModel(opts.Model, "text-embedding-3-small"), opts.Dimension), nil
	case "cohere":
		return NewCohere(os.Getenv("COHERE_API_KEY"), opts.BaseURL, defaultModel(opts.Model, "embed-english-v3.0"), opts.Dimension), nil
	case "voyage":
		return NewVoyage(os.Getenv("VOYAGE_API_KEY"), opts.BaseURL, defaultModel(opts.Model, "voyage-2"), opts.Dimension), nil
	case "hf":
		return NewHuggingFace(os.Getenv("HF_TOKEN"), opts.BaseURL, defaultModel(opts.Model, "sentence-transformers/all-MiniLM-L6-v2"), opts.Dimension), nil
	default:
		return nil, fmt.Errorf("unknown embedder provider %q", opts.Provider)
	}
}

func defaultModel(model, fallback string) string {
	if model == "" {
		return fallback
	}
	return model
}
