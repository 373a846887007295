package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/layer-3/gamelan/core"
	"github.com/layer-3/gamelan/ports"
)

// SynthesisService validates synthesis requests and delegates to the external
// provider, draining its chunked response into a single audio payload.
type SynthesisService struct {
	synthesizer ports.Synthesizer
	logger      *slog.Logger
}

// NewSynthesisService creates a new synthesis service
func NewSynthesisService(synthesizer ports.Synthesizer, logger *slog.Logger) *SynthesisService {
	return &SynthesisService{
		synthesizer: synthesizer,
		logger:      logger,
	}
}

// Synthesize validates the request and returns the synthesized audio bytes.
// Validation failures never reach the provider.
func (s *SynthesisService) Synthesize(ctx context.Context, req core.SpeechRequest) ([]byte, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, fmt.Errorf("%w: text field is required and cannot be empty", core.ErrInvalidRequest)
	}

	// Character count, not bytes, so multibyte text is measured the way
	// callers see it
	if utf8.RuneCountInString(text) > core.MaxTextLength {
		return nil, core.ErrTextTooLong
	}

	model := req.Model
	if model == "" {
		model = core.DefaultModel
	}

	stream, err := s.synthesizer.Synthesize(ctx, text, model)
	if err != nil {
		s.logger.Error("synthesis failed", "model", model, "error", err)
		return nil, err
	}
	defer stream.Close()

	var audio bytes.Buffer
	if _, err := io.Copy(&audio, stream); err != nil {
		s.logger.Error("failed to read audio stream", "model", model, "error", err)
		return nil, fmt.Errorf("%w: reading audio stream: %v", core.ErrSynthesisFailed, err)
	}

	return audio.Bytes(), nil
}
