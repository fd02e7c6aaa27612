package speech

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
)

const (
	// Whole-call retry policy: every attempt reruns the full prepare → probe →
	// dispatch → persist → cache sequence.
	synthAttempts   = 3
	synthRetryDelay = 4 * time.Second
)

// Providers holds one implementation per member of the closed provider set.
type Providers struct {
	TikTok     Provider
	ElevenLabs Provider
	OpenAI     Provider
	AirForce   Provider
}

// Synthesizer turns narration requests into audio files on disk.
type Synthesizer struct {
	cache     *Cache
	chunkDir  string
	providers Providers

	// retryDelay is overridable so tests don't sleep for real.
	retryDelay time.Duration
}

// NewSynthesizer creates a synthesizer writing per-request artifacts into
// chunkDir and deduplicating through cache.
func NewSynthesizer(cache *Cache, chunkDir string, providers Providers) (*Synthesizer, error) {
	if err := os.MkdirAll(chunkDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create audio chunk dir: %w", err)
	}
	return &Synthesizer{
		cache:      cache,
		chunkDir:   chunkDir,
		providers:  providers,
		retryDelay: synthRetryDelay,
	}, nil
}

// SetRetryDelay overrides the fixed inter-attempt delay.
func (s *Synthesizer) SetRetryDelay(d time.Duration) { s.retryDelay = d }

// Synthesize produces the narration audio for one request and returns the
// output file path. The full call is retried up to 3 times with a fixed delay;
// after the final attempt the last error propagates with attempt context.
func (s *Synthesizer) Synthesize(ctx context.Context, req Request) (string, error) {
	var (
		path    string
		attempt int
	)

	op := func() error {
		attempt++
		p, err := s.synthOnce(ctx, req)
		if err != nil {
			log.Printf("[Synth] attempt %d/%d failed (provider=%s): %v", attempt, synthAttempts, req.Provider, err)
			return err
		}
		path = p
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(s.retryDelay), synthAttempts-1), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return "", fmt.Errorf("speech synthesis failed after %d attempts (provider=%s): %w", attempt, req.Provider, err)
	}
	return path, nil
}

// synthOnce runs a single pass of the synthesis state machine.
func (s *Synthesizer) synthOnce(ctx context.Context, req Request) (string, error) {
	// Prepare: a fresh artifact path per call so repeated requests never
	// overwrite each other's output, even when they share a cache entry.
	suffix := uuid.NewString()
	if req.StaticMode {
		suffix = req.VoiceID
	}
	speechPath := filepath.Join(s.chunkDir, fmt.Sprintf("%s_%s%s", req.Provider, suffix, speechExt))
	key := CacheKey(req.VoiceID, req.Text)

	// CacheProbe: a hit short-circuits the provider entirely.
	if cached, ok := s.cache.Lookup(key); ok {
		log.Printf("[Synth] found speech in cache: %s", cached)
		if err := copyFile(cached, speechPath); err != nil {
			return "", fmt.Errorf("failed to copy cached speech: %w", err)
		}
		return speechPath, nil
	}

	log.Printf("[Synth] synthesizing text (provider=%s, voice=%s, textLen=%d)", req.Provider, req.VoiceID, len(req.Text))

	// Dispatch over the closed provider set.
	provider, err := s.provider(req.Provider)
	if err != nil {
		return "", err
	}

	payload, err := provider.Synthesize(ctx, req.Text, req.VoiceID)
	if err != nil {
		return "", fmt.Errorf("provider call failed: %w", err)
	}

	// Persist: accept any of the known payload shapes.
	data, err := payloadBytes(payload)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(speechPath, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to persist speech audio: %w", err)
	}

	// CacheStore: best-effort, never fails the call.
	if err := s.cache.Store(key, speechPath); err != nil {
		log.Printf("[Synth] warning: failed to cache speech for key %s: %v", key, err)
	}

	return speechPath, nil
}

func (s *Synthesizer) provider(kind ProviderKind) (Provider, error) {
	var p Provider
	switch kind {
	case ProviderTikTok:
		p = s.providers.TikTok
	case ProviderElevenLabs:
		p = s.providers.ElevenLabs
	case ProviderOpenAI:
		p = s.providers.OpenAI
	case ProviderAirForce:
		p = s.providers.AirForce
	default:
		return nil, fmt.Errorf("%w: %q", ErrProviderUnsupported, kind)
	}
	if p == nil {
		return nil, fmt.Errorf("%w: %q has no configured backend", ErrProviderUnsupported, kind)
	}
	return p, nil
}
