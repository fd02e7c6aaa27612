package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// ---------------------------------------------------------------------------
// TikTok voice provider
// Converts text through a TikTok TTS gateway; the audio comes back as a
// base64 payload inside a JSON envelope.
// ---------------------------------------------------------------------------

const tiktokDefaultEndpoint = "https://tiktok-tts.weilnet.workers.dev/api/generation"

// TikTokProvider handles text-to-speech via a TikTok TTS gateway.
type TikTokProvider struct {
	endpoint string
	client   *http.Client
}

var _ Provider = (*TikTokProvider)(nil)

// NewTikTokProvider creates a TikTok provider against the default gateway.
func NewTikTokProvider() *TikTokProvider {
	return &TikTokProvider{
		endpoint: tiktokDefaultEndpoint,
		client:   &http.Client{Timeout: 60 * time.Second},
	}
}

// NewTikTokProviderWithEndpoint creates a TikTok provider against a custom
// gateway URL (self-hosted workers).
func NewTikTokProviderWithEndpoint(endpoint string) *TikTokProvider {
	p := NewTikTokProvider()
	if endpoint != "" {
		p.endpoint = endpoint
	}
	return p
}

type tiktokRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice"`
}

type tiktokResponse struct {
	Data  string `json:"data"`
	Error string `json:"error"`
}

// Synthesize converts text to speech using the TikTok gateway. The payload is
// the decoded raw audio bytes.
func (p *TikTokProvider) Synthesize(ctx context.Context, text, voiceID string) (any, error) {
	jsonData, err := json.Marshal(tiktokRequest{Text: text, Voice: voiceID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal TikTok request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create TikTok request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	log.Printf("[TikTok] Generating speech (voice=%s, textLen=%d)", voiceID, len(text))

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("TikTok request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("TikTok gateway returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed tiktokResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode TikTok response: %w", err)
	}
	if parsed.Error != "" {
		return nil, fmt.Errorf("TikTok gateway error: %s", parsed.Error)
	}

	audioData, err := base64.StdEncoding.DecodeString(parsed.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode TikTok audio payload: %w", err)
	}
	if len(audioData) == 0 {
		return nil, fmt.Errorf("TikTok gateway returned empty audio")
	}

	return audioData, nil
}
