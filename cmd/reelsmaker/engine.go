package main

import (
	"path/filepath"

	"github.com/daone764/reelsmaker-master/internal/composer"
	"github.com/daone764/reelsmaker-master/internal/config"
	"github.com/daone764/reelsmaker-master/internal/reels"
	"github.com/daone764/reelsmaker-master/internal/script"
	"github.com/daone764/reelsmaker-master/internal/speech"
	"github.com/daone764/reelsmaker-master/internal/stock"
)

// buildEngine wires the render engine from config. Optional collaborators
// (script generation, stock search) are left nil when their keys are unset;
// the engine degrades the matching features.
func buildEngine(cfg *config.Config) (*reels.Engine, error) {
	cache, err := speech.NewCache(cfg.SpeechCache)
	if err != nil {
		return nil, err
	}

	providers := speech.Providers{
		TikTok:   speech.NewTikTokProvider(),
		OpenAI:   speech.NewOpenAIProvider(),
		AirForce: speech.NewAirForceProvider(),
	}
	if cfg.ElevenLabsKey != "" {
		providers.ElevenLabs = speech.NewElevenLabsProvider(cfg.ElevenLabsKey)
	}

	synth, err := speech.NewSynthesizer(cache, filepath.Join(cfg.WorkDir, "speech"), providers)
	if err != nil {
		return nil, err
	}

	downloader, err := reels.NewDownloader(cfg.VideoCache)
	if err != nil {
		return nil, err
	}

	deps := reels.Deps{
		Synth:      synth,
		Prober:     composer.NewFFProbe(cfg.FFprobePath),
		Downloader: downloader,
		FFmpegPath: cfg.FFmpegPath,
		FontsDir:   cfg.FontsDir,
		FontFile:   cfg.WatermarkFont,
	}
	if cfg.OpenAIKey != "" {
		deps.Scripts = script.NewGenerator(cfg.OpenAIKey, cfg.OpenAIModel)
	}
	if cfg.PexelsKey != "" {
		deps.Stock = stock.NewPexelsClient(cfg.PexelsKey)
	}

	return reels.NewEngine(cfg.WorkDir, cfg.OutputDir, deps)
}
