package speech

import (
	"context"
	"fmt"
)

// OpenAIProvider is dispatched like any other member of the provider set but
// has no synthesis backend yet; every call fails with ErrNotImplemented.
type OpenAIProvider struct{}

var _ Provider = (*OpenAIProvider)(nil)

// NewOpenAIProvider creates the placeholder OpenAI provider.
func NewOpenAIProvider() *OpenAIProvider { return &OpenAIProvider{} }

// Synthesize always fails with ErrNotImplemented.
func (p *OpenAIProvider) Synthesize(ctx context.Context, text, voiceID string) (any, error) {
	return nil, fmt.Errorf("openai speech synthesis: %w", ErrNotImplemented)
}
