package composer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/daone764/reelsmaker-master/internal/filtergraph"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestWatermarkSkipConditions(t *testing.T) {
	t.Parallel()

	fontFile := writeTempFile(t, "font.ttf", []byte("ttf"))

	tests := []struct {
		name     string
		fontFile string
		mutate   func(*Style)
	}{
		{
			name:     "missing font file",
			fontFile: "/nonexistent/font.ttf",
			mutate:   func(s *Style) {},
		},
		{
			name:     "empty watermark text",
			fontFile: fontFile,
			mutate:   func(s *Style) { s.WatermarkPathOrText = "" },
		},
		{
			name:     "watermark type none",
			fontFile: fontFile,
			mutate:   func(s *Style) { s.WatermarkType = WatermarkNone },
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g := filtergraph.New()
			visual := g.AddInput("clip.mp4").Video().Filter("scale", filtergraph.P("1080"), filtergraph.P("1920"))

			style := DefaultStyle()
			tt.mutate(&style)

			stage := NewWatermarkStage(g, style, tt.fontFile)
			out := stage.Apply(visual)

			// Skip conditions return the node unchanged (same node, not a copy).
			require.Same(t, visual, out)
		})
	}
}

func TestWatermarkText(t *testing.T) {
	t.Parallel()

	fontFile := writeTempFile(t, "font.ttf", []byte("ttf"))

	g := filtergraph.New()
	visual := g.AddInput("clip.mp4").Video().Filter("scale", filtergraph.P("1080"), filtergraph.P("1920"))

	style := DefaultStyle()
	style.WatermarkPathOrText = "VoidFace"

	out := NewWatermarkStage(g, style, fontFile).Apply(visual)
	require.NotSame(t, visual, out)
	require.Equal(t, "drawtext", out.Op())

	expr, err := g.FilterComplex(filtergraph.Terminal{Node: out, Label: "vout"})
	require.NoError(t, err)
	require.Contains(t, expr, "text=VoidFace")
	require.Contains(t, expr, "fontsize=40")
	require.Contains(t, expr, "fontcolor=white")
	// The corner-cycling position expressions ride along verbatim.
	require.Contains(t, out.Args(), "mod(t,20)")
	// Only one input: text watermarks add no media.
	require.Len(t, g.Inputs(), 1)
}

func TestWatermarkImage(t *testing.T) {
	t.Parallel()

	fontFile := writeTempFile(t, "font.ttf", []byte("ttf"))

	g := filtergraph.New()
	visual := g.AddInput("clip.mp4").Video().Filter("scale", filtergraph.P("1080"), filtergraph.P("1920"))

	style := DefaultStyle()
	style.WatermarkType = WatermarkImage
	style.WatermarkPathOrText = "logo.png"

	out := NewWatermarkStage(g, style, fontFile).Apply(visual)
	require.Equal(t, "overlay", out.Op())

	expr, err := g.FilterComplex(filtergraph.Terminal{Node: out, Label: "vout"})
	require.NoError(t, err)
	require.Contains(t, expr, "scale=-1:100")
	require.Contains(t, expr, "overlay=x='(main_w-overlay_w)-8':y='(main_h-overlay_h)-8'")
	require.Equal(t, []string{"clip.mp4", "logo.png"}, g.Inputs())
}
