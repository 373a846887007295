package core

const (
	// MaxTextLength is the maximum number of characters accepted for synthesis
	MaxTextLength = 2000

	// DefaultModel is the voice model used when the caller does not pick one
	DefaultModel = "aura-2-thalia-en"
)

// SpeechRequest is a validated-on-entry request to synthesize audio from text
type SpeechRequest struct {
	Text  string // Text to synthesize
	Model string // Voice model identifier, DefaultModel when empty
}
