package ports

import (
	"context"
	"io"
)

// Synthesizer is the external text-to-speech provider boundary.
type Synthesizer interface {
	// Synthesize produces a bounded stream of raw audio bytes for the given
	// text and voice model. The caller drains and closes the stream.
	// Provider failures are reported as core.ErrSynthesisFailed, or
	// core.ErrTextTooLong when the provider rejected the input length.
	Synthesize(ctx context.Context, text, model string) (io.ReadCloser, error)
}
