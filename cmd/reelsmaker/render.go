package main

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/daone764/reelsmaker-master/internal/composer"
	"github.com/daone764/reelsmaker-master/internal/config"
	"github.com/daone764/reelsmaker-master/internal/models"
	"github.com/daone764/reelsmaker-master/internal/reels"
	"github.com/daone764/reelsmaker-master/internal/speech"
)

// newRenderCmd is the one-shot local path: render a single reel without the
// API server, queue, or database.
func newRenderCmd() *cobra.Command {
	var req models.CreateReelRequest
	var clipPaths []string
	var musicPath string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a single reel locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load() // best-effort: load .env if present

			if err := req.Validate(); err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			engine, err := buildEngine(cfg)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Hour)
			defer cancel()

			outcome, err := engine.Start(ctx, reels.Job{
				VideoType: req.ResolveVideoType(),
				Style:     req.ResolveStyle(),
				Provider:  speech.ProviderKind(req.Provider),
				VoiceID:   req.VoiceID,
				Script:    req.Script,
				Prompt:    req.Prompt,
				ClipPaths: clipPaths,
				ClipURLs:  req.ClipURLs,
				MusicPath: musicPath,
				MusicURL:  req.MusicURL,
			})
			if err != nil {
				return err
			}

			switch outcome.Kind {
			case composer.OutcomeSuccess:
				fmt.Fprintln(cmd.OutOrStdout(), outcome.OutputPath)
				return nil
			case composer.OutcomeEngineFailure:
				return fmt.Errorf("render engine failed:\n%s", outcome.Diagnostics)
			default:
				return fmt.Errorf("render rejected: %s", outcome.Reason)
			}
		},
	}

	cmd.Flags().StringVar(&req.Script, "script", "", "Narration script (mutually optional with --prompt)")
	cmd.Flags().StringVar(&req.Prompt, "prompt", "", "Prompt to generate a script from")
	cmd.Flags().StringVar(&req.Provider, "provider", "tiktok", "Voice provider: tiktok, elevenlabs, openai, airforce")
	cmd.Flags().StringVar(&req.VoiceID, "voice", "en_us_001", "Provider voice id")
	cmd.Flags().StringVar(&req.VideoType, "type", "", "Video type: narrator (default) or motivational")
	cmd.Flags().StringSliceVar(&clipPaths, "clip", nil, "Local clip file (repeatable, used in order)")
	cmd.Flags().StringSliceVar(&req.ClipURLs, "clip-url", nil, "Remote clip URL (repeatable)")
	cmd.Flags().StringVar(&musicPath, "music", "", "Local background music file")
	cmd.Flags().StringVar(&req.MusicURL, "music-url", "", "Remote background music URL")
	cmd.Flags().StringVar(&req.WatermarkType, "watermark-type", "", "Watermark type: text, image, none")
	cmd.Flags().StringVar(&req.Watermark, "watermark", "", "Watermark text or image path")

	return cmd
}
