// Package composer builds the renderable media graph for a reel: clip
// concatenation with per-clip effects, watermarking, subtitle burn-in, audio
// mixing, and the final render-engine invocation. All stages operate on
// filtergraph nodes; nothing here touches ffmpeg until RenderJob.Run.
package composer

import (
	"fmt"
	"strings"
)

// VideoType selects the visual treatment of a reel.
type VideoType string

const (
	VideoTypeNarrator     VideoType = "narrator"
	VideoTypeMotivational VideoType = "motivational"
)

// WatermarkType selects the watermark kind.
type WatermarkType string

const (
	WatermarkText  WatermarkType = "text"
	WatermarkImage WatermarkType = "image"
	WatermarkNone  WatermarkType = "none"
)

// Style is the read-only visual configuration for a render: font, stroke,
// watermark, color effect, subtitle position, aspect ratio.
type Style struct {
	FontSize    int
	StrokeColor string
	TextColor   string
	StrokeWidth int
	FontName    string

	// SubtitlesPosition is "vertical,horizontal"; only the vertical part
	// drives subtitle alignment.
	SubtitlesPosition string

	WatermarkPathOrText string
	WatermarkOpacity    float64
	WatermarkType       WatermarkType

	BackgroundMusicPath string

	AspectRatio string
	ColorEffect string
}

// DefaultStyle returns the stock reel styling.
func DefaultStyle() Style {
	return Style{
		FontSize:            70,
		StrokeColor:         "#ffffff",
		TextColor:           "#ffffff",
		StrokeWidth:         5,
		FontName:            "Luckiest Guy",
		SubtitlesPosition:   "center,center",
		WatermarkPathOrText: "VoidFace",
		WatermarkOpacity:    0.5,
		WatermarkType:       WatermarkText,
		AspectRatio:         "9:16",
		ColorEffect:         "gray",
	}
}

// webColorToASS converts a "#rrggbb" web color into the ASS subtitle
// encoding, which is &HAABBGGRR& (BGR, not RGB).
func webColorToASS(colorCode, alpha string) (string, error) {
	colorCode = strings.TrimPrefix(colorCode, "#")
	if len(colorCode) != 6 {
		return "", fmt.Errorf("invalid color code %q: must be a 6-character hex code", colorCode)
	}

	red := colorCode[:2]
	green := colorCode[2:4]
	blue := colorCode[4:]
	return fmt.Sprintf("&H%s%s%s%s&", alpha, blue, green, red), nil
}
