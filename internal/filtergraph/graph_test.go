package filtergraph_test

import (
	"strings"
	"testing"

	"github.com/daone764/reelsmaker-master/internal/filtergraph"
	"github.com/stretchr/testify/require"
)

func TestFilterComplexSingleChain(t *testing.T) {
	t.Parallel()

	g := filtergraph.New()
	in := g.AddInput("clip.mp4")

	scaled := in.Video().Filter("scale", filtergraph.P("1080"), filtergraph.P("1920"))
	gray := scaled.Filter("format", filtergraph.P("gray"))

	expr, err := g.FilterComplex(filtergraph.Terminal{Node: gray, Label: "vout"})
	require.NoError(t, err)
	require.Equal(t, "[0:v]scale=1080:1920[v0];[v0]format=gray[vout]", expr)
}

func TestFilterComplexConcatPreservesOrder(t *testing.T) {
	t.Parallel()

	g := filtergraph.New()
	a := g.AddInput("a.mp4").Video()
	b := g.AddInput("b.mp4").Video()
	c := g.AddInput("c.mp4").Video()

	out := filtergraph.Concat(filtergraph.Video,
		a.Filter("scale", filtergraph.P("1080"), filtergraph.P("1920")),
		b.Filter("scale", filtergraph.P("1080"), filtergraph.P("1920")),
		c.Filter("scale", filtergraph.P("1080"), filtergraph.P("1920")),
	)

	expr, err := g.FilterComplex(filtergraph.Terminal{Node: out, Label: "vout"})
	require.NoError(t, err)

	// The concat chain must reference the per-clip streams in input order.
	require.Contains(t, expr, "[v0][v1][v2]concat=n=3:v=1:a=0[vout]")
	require.Less(t, strings.Index(expr, "[0:v]"), strings.Index(expr, "[1:v]"))
	require.Less(t, strings.Index(expr, "[1:v]"), strings.Index(expr, "[2:v]"))
}

func TestFilterComplexAudioConcat(t *testing.T) {
	t.Parallel()

	g := filtergraph.New()
	a := g.AddInput("one.mp3").Audio()
	b := g.AddInput("two.mp3").Audio()

	out := filtergraph.Concat(filtergraph.Audio, a, b)
	expr, err := g.FilterComplex(filtergraph.Terminal{Node: out, Label: "aout"})
	require.NoError(t, err)
	require.Equal(t, "[0:a][1:a]concat=n=2:v=0:a=1[aout]", expr)
}

func TestFilterComplexMultipleTerminals(t *testing.T) {
	t.Parallel()

	g := filtergraph.New()
	v := g.AddInput("clip.mp4").Video().Filter("scale", filtergraph.P("1080"), filtergraph.P("1920"))
	m := g.AddInput("music.mp3").Audio()
	n := g.AddInput("speech.mp3").Audio()
	mixed := filtergraph.AMix(m, n, "longest", 0)

	expr, err := g.FilterComplex(
		filtergraph.Terminal{Node: v, Label: "vout"},
		filtergraph.Terminal{Node: mixed, Label: "aout"},
	)
	require.NoError(t, err)
	require.Contains(t, expr, "[0:v]scale=1080:1920[vout]")
	require.Contains(t, expr, "[1:a][2:a]amix=inputs=2:duration=longest:dropout_transition=0[aout]")
}

func TestFilterComplexRejectsBareSourceTerminal(t *testing.T) {
	t.Parallel()

	g := filtergraph.New()
	src := g.AddInput("clip.mp4").Video()

	_, err := g.FilterComplex(filtergraph.Terminal{Node: src, Label: "vout"})
	require.Error(t, err)
}

func TestParamEscaping(t *testing.T) {
	t.Parallel()

	g := filtergraph.New()
	in := g.AddInput("clip.mp4")

	node := in.Video().Filter("subtitles",
		filtergraph.KV("filename", "/tmp/my subs.srt"),
		filtergraph.KV("force_style", "FontName=Luckiest Guy,Bold=1"),
	)

	expr, err := g.FilterComplex(filtergraph.Terminal{Node: node, Label: "vout"})
	require.NoError(t, err)
	require.Contains(t, expr, `filename='/tmp/my subs.srt'`)
	require.Contains(t, expr, `force_style='FontName=Luckiest Guy,Bold=1'`)
}

func TestInputArgsIncludePreArgs(t *testing.T) {
	t.Parallel()

	g := filtergraph.New()
	g.AddInput("clip.mp4")
	g.AddInput("music.mp3", "-t", "42.50")

	require.Equal(t, []string{"-i", "clip.mp4", "-t", "42.50", "-i", "music.mp3"}, g.InputArgs())
	require.Equal(t, []string{"clip.mp4", "music.mp3"}, g.Inputs())
}
