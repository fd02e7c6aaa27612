package speech

import (
	"fmt"
	"io"
)

// ---------------------------------------------------------------------------
// Payload shape adapters
//
// Providers do not return a uniform type: some hand back the raw audio bytes,
// some a response object carrying a byte buffer, some a readable stream. The
// adapters below are tried in a fixed order; the first one that matches wins.
// ---------------------------------------------------------------------------

// AudioBearer is implemented by provider response objects that carry their
// audio in a byte field.
type AudioBearer interface {
	AudioBytes() []byte
}

type payloadAdapter struct {
	name    string
	extract func(payload any) ([]byte, bool, error)
}

// payloadAdapters is the closed, ranked set of payload shapes: raw bytes, an
// embedded byte field, a readable stream, then best-effort string coercion.
var payloadAdapters = []payloadAdapter{
	{
		name: "raw bytes",
		extract: func(payload any) ([]byte, bool, error) {
			b, ok := payload.([]byte)
			return b, ok, nil
		},
	},
	{
		name: "audio field",
		extract: func(payload any) ([]byte, bool, error) {
			bearer, ok := payload.(AudioBearer)
			if !ok {
				return nil, false, nil
			}
			return bearer.AudioBytes(), true, nil
		},
	},
	{
		name: "stream",
		extract: func(payload any) ([]byte, bool, error) {
			r, ok := payload.(io.Reader)
			if !ok {
				return nil, false, nil
			}
			b, err := io.ReadAll(r)
			if err != nil {
				return nil, true, fmt.Errorf("failed to drain audio stream: %w", err)
			}
			return b, true, nil
		},
	},
	{
		name: "string coercion",
		extract: func(payload any) ([]byte, bool, error) {
			s, ok := payload.(string)
			return []byte(s), ok, nil
		},
	},
}

// payloadBytes materializes a provider payload into audio bytes, trying each
// adapter in rank order.
func payloadBytes(payload any) ([]byte, error) {
	for _, a := range payloadAdapters {
		b, ok, err := a.extract(payload)
		if err != nil {
			return nil, fmt.Errorf("%s payload: %w", a.name, err)
		}
		if ok {
			return b, nil
		}
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedPayload, payload)
}
