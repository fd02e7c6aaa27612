package speech

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// stubProvider fails failures times, then returns payload.
type stubProvider struct {
	calls    int
	failures int
	payload  any
}

func (s *stubProvider) Synthesize(ctx context.Context, text, voiceID string) (any, error) {
	s.calls++
	if s.calls <= s.failures {
		return nil, errors.New("simulated provider outage")
	}
	return s.payload, nil
}

func newTestSynthesizer(t *testing.T, providers Providers) (*Synthesizer, *Cache) {
	t.Helper()

	dir := t.TempDir()
	cache, err := NewCache(filepath.Join(dir, "speech_cache"))
	require.NoError(t, err)

	synth, err := NewSynthesizer(cache, filepath.Join(dir, "audio_chunks"), providers)
	require.NoError(t, err)
	synth.SetRetryDelay(time.Millisecond)
	return synth, cache
}

func TestSynthesizeWritesArtifactAndCaches(t *testing.T) {
	t.Parallel()

	stub := &stubProvider{payload: []byte("tiktok-audio")}
	synth, cache := newTestSynthesizer(t, Providers{TikTok: stub})

	req := Request{Provider: ProviderTikTok, VoiceID: "en_us_007", Text: "Hello world"}
	path, err := synth.Synthesize(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, 1, stub.calls)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, []byte("tiktok-audio"), data)

	_, ok := cache.Lookup(CacheKey("en_us_007", "Hello world"))
	require.True(t, ok)
}

func TestSynthesizeCacheShortCircuit(t *testing.T) {
	t.Parallel()

	stub := &stubProvider{payload: []byte("fresh-audio")}
	synth, cache := newTestSynthesizer(t, Providers{TikTok: stub})

	// Pre-populate the cache for this exact request.
	seed := filepath.Join(t.TempDir(), "seed.mp3")
	require.NoError(t, os.WriteFile(seed, []byte("cached-audio"), 0o644))
	require.NoError(t, cache.Store(CacheKey("en_us_007", "Hello world"), seed))

	req := Request{Provider: ProviderTikTok, VoiceID: "en_us_007", Text: "Hello world"}
	path, err := synth.Synthesize(context.Background(), req)
	require.NoError(t, err)

	// The provider must not be invoked, and the artifact must be byte-identical
	// to the cached entry.
	require.Equal(t, 0, stub.calls)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, []byte("cached-audio"), data)
}

func TestSynthesizeRetriesThenSucceeds(t *testing.T) {
	t.Parallel()

	stub := &stubProvider{failures: 2, payload: []byte("third-time-audio")}
	synth, _ := newTestSynthesizer(t, Providers{AirForce: stub})

	req := Request{Provider: ProviderAirForce, VoiceID: "nova", Text: "retry me"}
	path, err := synth.Synthesize(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, 3, stub.calls)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, []byte("third-time-audio"), data)
}

func TestSynthesizeRetryBudgetExhausted(t *testing.T) {
	t.Parallel()

	stub := &stubProvider{failures: 10}
	synth, _ := newTestSynthesizer(t, Providers{TikTok: stub})

	req := Request{Provider: ProviderTikTok, VoiceID: "en_us_007", Text: "never works"}
	_, err := synth.Synthesize(context.Background(), req)
	require.Error(t, err)
	require.Equal(t, 3, stub.calls)
	require.Contains(t, err.Error(), "after 3 attempts")
}

func TestSynthesizeUnknownProvider(t *testing.T) {
	t.Parallel()

	synth, _ := newTestSynthesizer(t, Providers{})

	req := Request{Provider: ProviderKind("robovoice"), VoiceID: "v", Text: "t"}
	_, err := synth.Synthesize(context.Background(), req)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrProviderUnsupported))
}

func TestSynthesizeOpenAINotImplemented(t *testing.T) {
	t.Parallel()

	synth, _ := newTestSynthesizer(t, Providers{OpenAI: NewOpenAIProvider()})

	req := Request{Provider: ProviderOpenAI, VoiceID: "alloy", Text: "t"}
	_, err := synth.Synthesize(context.Background(), req)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrNotImplemented))
}

func TestSynthesizeStaticModeDeterministicPath(t *testing.T) {
	t.Parallel()

	stub := &stubProvider{payload: []byte("a")}
	synth, _ := newTestSynthesizer(t, Providers{TikTok: stub})

	req := Request{Provider: ProviderTikTok, VoiceID: "en_us_007", Text: "static", StaticMode: true}
	first, err := synth.Synthesize(context.Background(), req)
	require.NoError(t, err)
	second, err := synth.Synthesize(context.Background(), req)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, "tiktok_en_us_007.mp3", filepath.Base(first))
}

func TestSynthesizeDistinctArtifactsShareCacheEntry(t *testing.T) {
	t.Parallel()

	stub := &stubProvider{payload: []byte("a")}
	synth, cache := newTestSynthesizer(t, Providers{TikTok: stub})

	req := Request{Provider: ProviderTikTok, VoiceID: "en_us_007", Text: "same text"}
	first, err := synth.Synthesize(context.Background(), req)
	require.NoError(t, err)
	second, err := synth.Synthesize(context.Background(), req)
	require.NoError(t, err)

	// One provider call total: the second request is a cache hit, but it still
	// gets its own artifact.
	require.Equal(t, 1, stub.calls)
	require.NotEqual(t, first, second)

	entries, err := os.ReadDir(cache.Dir())
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestParseProviderKind(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{"tiktok", "elevenlabs", "openai", "airforce"} {
		kind, err := ParseProviderKind(valid)
		require.NoError(t, err)
		require.Equal(t, ProviderKind(valid), kind)
	}

	_, err := ParseProviderKind("robovoice")
	require.Error(t, err)
}
