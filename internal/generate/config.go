package generate

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// MaxTokens is the token budget for the completion.
	MaxTokens int

	// Temperature controls output randomness (0.0-1.0).
	Temperature float64

	// MaxSourceChars caps the source text sent to the model, in runes.
	// Zero disables the cap.
	MaxSourceChars int

	// Structured requests schema-constrained JSON from providers that
	// support it. Without it the completion is free text and goes through
	// the tolerant normalizer only.
	Structured bool
}

// DefaultConfig returns the recommended defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:      4096,
		Temperature:    0.3,
		MaxSourceChars: 30000,
		Structured:     true,
	}
}
