package speech

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

// ---------------------------------------------------------------------------
// AirForce voice provider
// Simple GET endpoint; the response body is the audio file. The payload is
// handed back as a readable stream.
// ---------------------------------------------------------------------------

const airForceBaseURL = "https://api.airforce"

// AirForceProvider handles text-to-speech via the api.airforce audio endpoint.
type AirForceProvider struct {
	baseURL string
	client  *http.Client
}

var _ Provider = (*AirForceProvider)(nil)

// NewAirForceProvider creates an AirForce provider with defaults.
func NewAirForceProvider() *AirForceProvider {
	return &AirForceProvider{
		baseURL: airForceBaseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// Synthesize fetches audio for the text. The payload is an io.Reader over the
// response bytes.
func (p *AirForceProvider) Synthesize(ctx context.Context, text, voiceID string) (any, error) {
	q := url.Values{}
	q.Set("text", text)
	q.Set("voice", voiceID)
	endpoint := fmt.Sprintf("%s/get-audio?%s", p.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create AirForce request: %w", err)
	}

	log.Printf("[AirForce] Generating speech (voice=%s, textLen=%d)", voiceID, len(text))

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("AirForce request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("AirForce returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read AirForce audio response: %w", err)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("AirForce returned empty audio")
	}

	return bytes.NewReader(body), nil
}
