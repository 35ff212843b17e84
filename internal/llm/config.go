// Package llm wraps the Gemini API behind a small client interface so
// pipeline stages can be exercised against fakes.
package llm

// ModelTier selects how much model capability a call gets. Extraction and
// short compositions run on the lite tier; drafting on standard; optimizing
// a draft against reviewer feedback on advanced.
type ModelTier string

const (
	TierLite     ModelTier = "lite"
	TierStandard ModelTier = "standard"
	TierAdvanced ModelTier = "advanced"
)

// Config maps tiers to concrete model names.
type Config struct {
	Models         map[ModelTier]string
	EmbeddingModel string
}

// DefaultGeminiConfig returns the stock Gemini tier mapping.
func DefaultGeminiConfig() *Config {
	return &Config{
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		EmbeddingModel: "text-embedding-004",
	}
}

// modelFor resolves a tier to a model name, degrading to standard and then
// lite when the requested tier has no mapping.
func (c *Config) modelFor(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	return c.Models[TierLite]
}
