package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// ---------------------------------------------------------------------------
// ElevenLabs Text-to-Speech provider
// Uses the ElevenLabs REST API to convert text into narration audio.
// Model: eleven_multilingual_v2
// ---------------------------------------------------------------------------

const (
	elevenLabsBaseURL      = "https://api.elevenlabs.io"
	elevenLabsDefaultModel = "eleven_multilingual_v2"
	elevenLabsOutputFormat = "mp3_44100_128"
)

// ElevenLabsProvider handles text-to-speech via the ElevenLabs API.
type ElevenLabsProvider struct {
	apiKey  string
	modelID string
	baseURL string
	client  *http.Client
}

// Ensure ElevenLabsProvider implements Provider at compile time.
var _ Provider = (*ElevenLabsProvider)(nil)

// NewElevenLabsProvider creates an ElevenLabs provider with defaults.
func NewElevenLabsProvider(apiKey string) *ElevenLabsProvider {
	return &ElevenLabsProvider{
		apiKey:  apiKey,
		modelID: elevenLabsDefaultModel,
		baseURL: elevenLabsBaseURL,
		client:  &http.Client{Timeout: 90 * time.Second},
	}
}

type elevenLabsRequest struct {
	Text          string                   `json:"text"`
	ModelID       string                   `json:"model_id"`
	VoiceSettings *elevenLabsVoiceSettings `json:"voice_settings,omitempty"`
}

type elevenLabsVoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style,omitempty"`
	UseSpeakerBoost bool    `json:"use_speaker_boost,omitempty"`
}

// ElevenLabsResponse is the provider's payload: a response object exposing its
// audio through a byte field rather than returning raw bytes.
type ElevenLabsResponse struct {
	AudioData []byte
	Format    string
}

// AudioBytes implements AudioBearer.
func (r *ElevenLabsResponse) AudioBytes() []byte { return r.AudioData }

// Synthesize converts text to speech using ElevenLabs.
func (p *ElevenLabsProvider) Synthesize(ctx context.Context, text, voiceID string) (any, error) {
	reqBody := elevenLabsRequest{
		Text:    text,
		ModelID: p.modelID,
		VoiceSettings: &elevenLabsVoiceSettings{
			Stability:       0.71,
			SimilarityBoost: 0.5,
			Style:           0.0,
			UseSpeakerBoost: true,
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ElevenLabs request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s?output_format=%s", p.baseURL, voiceID, elevenLabsOutputFormat)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create ElevenLabs request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", p.apiKey)

	log.Printf("[ElevenLabs] Generating speech (voiceID=%s, model=%s, textLen=%d)", voiceID, p.modelID, len(text))

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ElevenLabs request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ElevenLabs returned status %d: %s", resp.StatusCode, string(body))
	}

	// The response body IS the audio file.
	audioData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read ElevenLabs audio response: %w", err)
	}
	if len(audioData) == 0 {
		return nil, fmt.Errorf("ElevenLabs returned empty audio")
	}

	return &ElevenLabsResponse{AudioData: audioData, Format: "mp3"}, nil
}
