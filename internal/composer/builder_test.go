package composer

import (
	"math/rand"
	"regexp"
	"testing"

	"github.com/daone764/reelsmaker-master/internal/filtergraph"
	"github.com/stretchr/testify/require"
)

func testClips(g *filtergraph.Graph, paths ...string) []Clip {
	clips := make([]Clip, len(paths))
	for i, p := range paths {
		clips[i] = Clip{Path: p, Stream: g.AddInput(p).Video()}
	}
	return clips
}

func TestBuildConcatenationOrderPreserved(t *testing.T) {
	t.Parallel()

	// Regardless of which random effect lands on each clip, the concat chain
	// must follow input order exactly.
	for seed := int64(0); seed < 5; seed++ {
		g := filtergraph.New()
		clips := testClips(g, "a.mp4", "b.mp4", "c.mp4")

		b := NewClipGraphBuilder(DefaultStyle(), VideoTypeNarrator, rand.New(rand.NewSource(seed)))
		visual, err := b.Build(clips, DefaultEffects())
		require.NoError(t, err)

		expr, err := g.FilterComplex(filtergraph.Terminal{Node: visual, Label: "vout"})
		require.NoError(t, err)

		// Find the concat chain and the order of the per-clip source streams.
		require.Contains(t, expr, "concat=n=3:v=1:a=0[vout]")
		sources := regexp.MustCompile(`\[(\d):v\]`).FindAllStringSubmatch(expr, -1)
		require.Len(t, sources, 3)
		require.Equal(t, "0", sources[0][1])
		require.Equal(t, "1", sources[1][1])
		require.Equal(t, "2", sources[2][1])
	}
}

func TestBuildAppliesEffectBeforeScale(t *testing.T) {
	t.Parallel()

	g := filtergraph.New()
	clips := testClips(g, "a.mp4")

	b := NewClipGraphBuilder(DefaultStyle(), VideoTypeNarrator, rand.New(rand.NewSource(1)))
	visual, err := b.Build(clips, []Effect{ZoomIn})
	require.NoError(t, err)

	expr, err := g.FilterComplex(filtergraph.Terminal{Node: visual, Label: "vout"})
	require.NoError(t, err)

	zoomIdx := indexOf(t, expr, "zoompan")
	scaleIdx := indexOf(t, expr, "scale=1080:1920")
	require.Less(t, zoomIdx, scaleIdx)
}

func TestBuildNoEffectsListSkipsEffects(t *testing.T) {
	t.Parallel()

	g := filtergraph.New()
	clips := testClips(g, "a.mp4", "b.mp4")

	b := NewClipGraphBuilder(DefaultStyle(), VideoTypeNarrator, rand.New(rand.NewSource(1)))
	visual, err := b.Build(clips, nil)
	require.NoError(t, err)

	expr, err := g.FilterComplex(filtergraph.Terminal{Node: visual, Label: "vout"})
	require.NoError(t, err)
	require.NotContains(t, expr, "zoompan")
}

func TestBuildGrayOnlyForMotivational(t *testing.T) {
	t.Parallel()

	build := func(videoType VideoType, colorEffect string) string {
		g := filtergraph.New()
		clips := testClips(g, "a.mp4")

		style := DefaultStyle()
		style.ColorEffect = colorEffect

		b := NewClipGraphBuilder(style, videoType, rand.New(rand.NewSource(1)))
		visual, err := b.Build(clips, nil)
		require.NoError(t, err)

		expr, err := g.FilterComplex(filtergraph.Terminal{Node: visual, Label: "vout"})
		require.NoError(t, err)
		return expr
	}

	require.Contains(t, build(VideoTypeMotivational, "gray"), "format=gray")
	require.NotContains(t, build(VideoTypeNarrator, "gray"), "format=gray")
	require.NotContains(t, build(VideoTypeMotivational, "none"), "format=gray")
}

func TestBuildEmptyClipList(t *testing.T) {
	t.Parallel()

	b := NewClipGraphBuilder(DefaultStyle(), VideoTypeNarrator, rand.New(rand.NewSource(1)))
	_, err := b.Build(nil, nil)
	require.Error(t, err)
}

func TestBuildDeterministicWithSeededSource(t *testing.T) {
	t.Parallel()

	render := func() string {
		g := filtergraph.New()
		clips := testClips(g, "a.mp4", "b.mp4", "c.mp4", "d.mp4")
		b := NewClipGraphBuilder(DefaultStyle(), VideoTypeNarrator, rand.New(rand.NewSource(42)))
		visual, err := b.Build(clips, DefaultEffects())
		require.NoError(t, err)
		expr, err := g.FilterComplex(filtergraph.Terminal{Node: visual, Label: "vout"})
		require.NoError(t, err)
		return expr
	}

	require.Equal(t, render(), render())
}

func TestCropToPortrait(t *testing.T) {
	t.Parallel()

	// Wide landscape source: crop width, keep height.
	g := filtergraph.New()
	node := CropToPortrait(g.AddInput("wide.mp4").Video(), 1920, 1080)
	expr, err := g.FilterComplex(filtergraph.Terminal{Node: node, Label: "vout"})
	require.NoError(t, err)
	require.Contains(t, expr, "crop=w=607:h=1080:x=656:y=0")

	// Extra-tall source: crop height, keep width.
	g = filtergraph.New()
	node = CropToPortrait(g.AddInput("tall.mp4").Video(), 1080, 4000)
	expr, err = g.FilterComplex(filtergraph.Terminal{Node: node, Label: "vout"})
	require.NoError(t, err)
	require.Contains(t, expr, "crop=w=1080:h=1920:x=0:y=1040")
}

func indexOf(t *testing.T, s, substr string) int {
	t.Helper()
	idx := regexp.MustCompile(regexp.QuoteMeta(substr)).FindStringIndex(s)
	require.NotNil(t, idx, "expected %q in %q", substr, s)
	return idx[0]
}
