package speech

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type bearerPayload struct{ audio []byte }

func (b *bearerPayload) AudioBytes() []byte { return b.audio }

func TestPayloadBytesShapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload any
		want    []byte
	}{
		{"raw bytes", []byte{1, 2, 3}, []byte{1, 2, 3}},
		{"audio field", &bearerPayload{audio: []byte("mp3")}, []byte("mp3")},
		{"stream", bytes.NewReader([]byte("stream-audio")), []byte("stream-audio")},
		{"string coercion", "raw-string-audio", []byte("raw-string-audio")},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := payloadBytes(tt.payload)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestPayloadBytesRanking(t *testing.T) {
	t.Parallel()

	// A payload that is both a bearer and a reader must resolve through the
	// higher-ranked bearer adapter.
	type bearerReader struct {
		*bearerPayload
		*bytes.Reader
	}
	p := bearerReader{
		bearerPayload: &bearerPayload{audio: []byte("from-bearer")},
		Reader:        bytes.NewReader([]byte("from-stream")),
	}

	got, err := payloadBytes(p)
	require.NoError(t, err)
	require.Equal(t, []byte("from-bearer"), got)
}

func TestPayloadBytesUnsupported(t *testing.T) {
	t.Parallel()

	_, err := payloadBytes(struct{ X int }{X: 1})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrUnsupportedPayload))

	_, err = payloadBytes(nil)
	require.True(t, errors.Is(err, ErrUnsupportedPayload))
}
