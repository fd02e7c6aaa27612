package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	APIPort            string
	WorkerEnabled      bool
	BackendAPIKey      string // API key for authenticating requests (empty = no auth, dev mode)
	CorsAllowedOrigins string // Comma-separated allowed origins (empty = *, dev mode)

	// Database (optional job history; empty disables it)
	DatabaseURL string

	// Redis
	RedisURL string

	// OpenAI (script + keyword generation; optional, prompt jobs need it)
	OpenAIKey   string
	OpenAIModel string

	// Pexels (stock footage search; optional, clip-less jobs need it)
	PexelsKey string

	// ElevenLabs voice synthesis
	ElevenLabsKey string

	// Directories
	WorkDir       string // Per-job intermediates (narration chunks, subtitles, downloads)
	OutputDir     string // Finished reels
	SpeechCache   string // Content-addressed narration cache
	VideoCache    string // Downloaded footage cache
	FontsDir      string // Fonts made visible to the subtitle renderer
	WatermarkFont string // Font file used for text watermarks

	// Render engines
	FFmpegPath  string
	FFprobePath string

	// Worker
	MaxConcurrentJobs int
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	_ = godotenv.Load()

	cfg := &Config{
		APIPort:            getEnv("API_PORT", "8080"),
		WorkerEnabled:      getEnvBool("WORKER_ENABLED", true),
		BackendAPIKey:      getEnv("BACKEND_API_KEY", ""),
		CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", ""),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		OpenAIKey:          getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:        getEnv("OPENAI_MODEL", ""),
		PexelsKey:          getEnv("PEXELS_API_KEY", ""),
		ElevenLabsKey:      getEnv("ELEVENLABS_API_KEY", ""),
		WorkDir:            getEnv("WORK_DIR", "/tmp/reelsmaker"),
		OutputDir:          getEnv("OUTPUT_DIR", "output"),
		SpeechCache:        getEnv("SPEECH_CACHE_DIR", "cache/speech"),
		VideoCache:         getEnv("VIDEO_CACHE_DIR", "cache/videos"),
		FontsDir:           getEnv("FONTS_DIR", "assets/fonts"),
		WatermarkFont:      getEnv("WATERMARK_FONT", "assets/fonts/LuckiestGuy-Regular.ttf"),
		FFmpegPath:         getEnv("FFMPEG_PATH", "ffmpeg"),
		FFprobePath:        getEnv("FFPROBE_PATH", "ffprobe"),
		MaxConcurrentJobs:  getEnvInt("MAX_CONCURRENT_JOBS", 2),
	}

	// Validate required fields
	if cfg.RedisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	if cfg.WorkerEnabled && cfg.MaxConcurrentJobs < 1 {
		return nil, fmt.Errorf("MAX_CONCURRENT_JOBS must be at least 1")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		b, err := strconv.ParseBool(value)
		if err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		i, err := strconv.Atoi(value)
		if err == nil {
			return i
		}
	}
	return defaultValue
}
