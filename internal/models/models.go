package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/daone764/reelsmaker-master/internal/composer"
	"github.com/daone764/reelsmaker-master/internal/speech"
)

type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRendering JobStatus = "rendering"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// ReelJob is one render job as tracked in the job history store.
type ReelJob struct {
	ID           uuid.UUID  `json:"id"`
	Status       JobStatus  `json:"status"`
	VideoType    string     `json:"video_type"`
	Provider     string     `json:"provider"`
	VoiceID      string     `json:"voice_id"`
	Prompt       *string    `json:"prompt,omitempty"`
	OutputPath   *string    `json:"output_path,omitempty"`
	ErrorMessage *string    `json:"error_message,omitempty"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// CreateReelRequest is the POST /v1/reels body. At least one of script and
// prompt must be set; clips may be omitted when a prompt is given, in which
// case stock search fills them in.
type CreateReelRequest struct {
	VideoType string   `json:"video_type,omitempty"` // "narrator" (default) or "motivational"
	Provider  string   `json:"provider"`             // tiktok, elevenlabs, openai, airforce
	VoiceID   string   `json:"voice_id"`
	Script    string   `json:"script,omitempty"`
	Prompt    string   `json:"prompt,omitempty"`
	ClipURLs  []string `json:"clip_urls,omitempty"`
	MusicURL  string   `json:"music_url,omitempty"`

	// Style overrides; zero values fall back to the defaults.
	WatermarkType     string `json:"watermark_type,omitempty"` // text, image, none
	Watermark         string `json:"watermark,omitempty"`      // text or image path
	FontName          string `json:"font_name,omitempty"`
	FontSize          int    `json:"font_size,omitempty"`
	TextColor         string `json:"text_color,omitempty"`
	StrokeColor       string `json:"stroke_color,omitempty"`
	SubtitlesPosition string `json:"subtitles_position,omitempty"`
	ColorEffect       string `json:"color_effect,omitempty"`
}

// Validate checks the request fields against the closed provider and
// video-type sets.
func (r *CreateReelRequest) Validate() error {
	if r.Script == "" && r.Prompt == "" {
		return fmt.Errorf("either script or prompt is required")
	}
	if _, err := speech.ParseProviderKind(r.Provider); err != nil {
		return err
	}
	if r.VoiceID == "" {
		return fmt.Errorf("voice_id is required")
	}
	switch composer.VideoType(r.VideoType) {
	case "", composer.VideoTypeNarrator, composer.VideoTypeMotivational:
	default:
		return fmt.Errorf("unrecognized video type: %s", r.VideoType)
	}
	switch composer.WatermarkType(r.WatermarkType) {
	case "", composer.WatermarkText, composer.WatermarkImage, composer.WatermarkNone:
	default:
		return fmt.Errorf("unrecognized watermark type: %s", r.WatermarkType)
	}
	return nil
}

// ResolveVideoType returns the request's video type, defaulting to narrator.
func (r *CreateReelRequest) ResolveVideoType() composer.VideoType {
	if r.VideoType == "" {
		return composer.VideoTypeNarrator
	}
	return composer.VideoType(r.VideoType)
}

// ResolveStyle folds the request's overrides onto the default render style.
func (r *CreateReelRequest) ResolveStyle() composer.Style {
	style := composer.DefaultStyle()
	if r.WatermarkType != "" {
		style.WatermarkType = composer.WatermarkType(r.WatermarkType)
	}
	if r.Watermark != "" {
		style.WatermarkPathOrText = r.Watermark
	}
	if r.FontName != "" {
		style.FontName = r.FontName
	}
	if r.FontSize > 0 {
		style.FontSize = r.FontSize
	}
	if r.TextColor != "" {
		style.TextColor = r.TextColor
	}
	if r.StrokeColor != "" {
		style.StrokeColor = r.StrokeColor
	}
	if r.SubtitlesPosition != "" {
		style.SubtitlesPosition = r.SubtitlesPosition
	}
	if r.ColorEffect != "" {
		style.ColorEffect = r.ColorEffect
	}
	return style
}

type CreateReelResponse struct {
	JobID  uuid.UUID `json:"job_id"`
	Status JobStatus `json:"status"`
}
