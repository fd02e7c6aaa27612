package composer

import (
	"fmt"
	"log"
	"math"
	"os"
	"strings"

	"github.com/daone764/reelsmaker-master/internal/filtergraph"
)

// subtitleAlignments maps the configured vertical position to an ASS alignment
// code. Unrecognized positions fall back to full-center.
var subtitleAlignments = map[string]string{
	"bottom": "Alignment=2",
	"center": "Alignment=10",
	"top":    "Alignment=6",
}

const defaultSubtitleAlignment = "Alignment=10"

// SubtitleStage burns a subtitle file into the visual node. Subtitles are
// best-effort: a missing fonts directory or subtitle file skips the stage.
type SubtitleStage struct {
	style    Style
	fontsDir string
}

// NewSubtitleStage creates the stage. fontsDir is handed to the subtitles
// filter so the configured font resolves inside the render engine.
func NewSubtitleStage(style Style, fontsDir string) *SubtitleStage {
	return &SubtitleStage{style: style, fontsDir: fontsDir}
}

// Apply returns the visual node with subtitles burned in, or unchanged when
// the fonts directory or the subtitle file is absent.
func (s *SubtitleStage) Apply(visual *filtergraph.Node, subtitlePath string) *filtergraph.Node {
	if info, err := os.Stat(s.fontsDir); err != nil || !info.IsDir() {
		log.Printf("[Subtitle] fonts dir missing at %s, rendering without subtitles", s.fontsDir)
		return visual
	}
	if _, err := os.Stat(subtitlePath); err != nil {
		log.Printf("[Subtitle] subtitle file missing at %s, rendering without subtitles", subtitlePath)
		return visual
	}

	style, err := s.forceStyle()
	if err != nil {
		log.Printf("[Subtitle] invalid subtitle style, rendering without subtitles: %v", err)
		return visual
	}

	return visual.Filter("subtitles",
		filtergraph.KV("filename", subtitlePath),
		filtergraph.KV("fontsdir", s.fontsDir),
		filtergraph.KV("force_style", style),
	)
}

// forceStyle derives the ASS force_style string from the configuration.
func (s *SubtitleStage) forceStyle() (string, error) {
	textColor, err := webColorToASS(s.style.TextColor, "00")
	if err != nil {
		return "", fmt.Errorf("text color: %w", err)
	}
	strokeColor, err := webColorToASS(s.style.StrokeColor, "00")
	if err != nil {
		return "", fmt.Errorf("stroke color: %w", err)
	}

	position := strings.Split(s.style.SubtitlesPosition, ",")[0]
	alignment, ok := subtitleAlignments[position]
	if !ok {
		alignment = defaultSubtitleAlignment
	}

	fontSize := int(math.Round(float64(s.style.FontSize) / 5))

	return fmt.Sprintf(
		"FontName=%s,FontSize=%d,PrimaryColour=%s,OutlineColour=%s,Outline=%d,Bold=1,%s",
		s.style.FontName, fontSize, textColor, strokeColor, s.style.StrokeWidth, alignment,
	), nil
}
