// Package llm - config.go maps model tiers to Gemini model names. Persona
// synthesis defaults to the standard tier; the CLI can pick another tier or
// pin an explicit model.
package llm

import "fmt"

// ModelTier selects a capability/cost point.
type ModelTier string

const (
	// TierLite is the cheapest tier, enough for short low-stakes runs.
	TierLite ModelTier = "lite"
	// TierStandard is the default tier for persona synthesis.
	TierStandard ModelTier = "standard"
	// TierAdvanced trades cost for deeper reasoning on large histories.
	TierAdvanced ModelTier = "advanced"
)

// ParseTier maps a CLI flag value to a ModelTier.
func ParseTier(s string) (ModelTier, error) {
	switch ModelTier(s) {
	case TierLite, TierStandard, TierAdvanced:
		return ModelTier(s), nil
	}
	return "", fmt.Errorf("unknown model tier %q (expected lite, standard, or advanced)", s)
}

// Config holds the tier-to-model mapping.
type Config struct {
	Models map[ModelTier]string
}

// DefaultConfig returns the default Gemini model per tier.
func DefaultConfig() *Config {
	return &Config{
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
	}
}

// GetModel returns the model name for a tier, falling back to standard and
// then lite when the tier is not configured.
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// WithModel returns a copy of the config with one tier remapped. The
// receiver is not modified.
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := &Config{
		Models: make(map[ModelTier]string, len(c.Models)),
	}
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return newConfig
}
