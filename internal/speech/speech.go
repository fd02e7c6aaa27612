// Package speech synthesizes narration audio. A closed set of voice providers
// sits behind a single Synthesize capability; identical requests are
// deduplicated through a content-addressable file cache and transient provider
// failures are retried with a fixed delay.
package speech

import (
	"context"
	"errors"
)

// ProviderKind identifies a voice provider. The set is closed: dispatch is a
// switch over these values and anything else fails with ErrProviderUnsupported.
type ProviderKind string

const (
	ProviderTikTok     ProviderKind = "tiktok"
	ProviderElevenLabs ProviderKind = "elevenlabs"
	ProviderOpenAI     ProviderKind = "openai"
	ProviderAirForce   ProviderKind = "airforce"
)

// ParseProviderKind validates a provider name from config or API input.
func ParseProviderKind(s string) (ProviderKind, error) {
	switch k := ProviderKind(s); k {
	case ProviderTikTok, ProviderElevenLabs, ProviderOpenAI, ProviderAirForce:
		return k, nil
	}
	return "", errors.New("unrecognized voice provider: " + s)
}

var (
	// ErrProviderUnsupported is returned when a request names a provider
	// outside the closed set.
	ErrProviderUnsupported = errors.New("voice provider not supported")

	// ErrNotImplemented is returned by providers that are dispatched but have
	// no working synthesis backend yet.
	ErrNotImplemented = errors.New("voice provider not implemented")

	// ErrUnsupportedPayload is returned when a provider response matches none
	// of the known audio payload shapes.
	ErrUnsupportedPayload = errors.New("unsupported audio payload shape")
)

// Request is one immutable narration request.
type Request struct {
	Provider ProviderKind
	VoiceID  string
	Text     string

	// StaticMode makes the output filename deterministic (the voice id instead
	// of a random suffix). Used by tests and fixture generation.
	StaticMode bool
}

// Provider is the single capability every voice backend implements. The
// returned payload may be raw bytes, a response object carrying an audio
// buffer, or a readable stream; persistence tries those shapes in that order.
type Provider interface {
	Synthesize(ctx context.Context, text, voiceID string) (any, error)
}
