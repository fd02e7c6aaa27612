package reels

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/daone764/reelsmaker-master/internal/composer"
	"github.com/daone764/reelsmaker-master/internal/filtergraph"
	"github.com/daone764/reelsmaker-master/internal/speech"
	"github.com/daone764/reelsmaker-master/internal/stock"
	"github.com/daone764/reelsmaker-master/internal/subtitles"
)

const (
	// maxSubclipDuration caps each looped segment of stock footage.
	maxSubclipDuration = 5 * time.Second

	// minStockClipDuration filters out stock results too short to loop over.
	minStockClipDuration = 10 * time.Second

	// minSentenceChars is the merge threshold for narration chunks.
	minSentenceChars = 100

	// synthConcurrency bounds the parallel speech requests per job.
	synthConcurrency = 4

	defaultScriptSeconds = 35
	maxSearchKeywords    = 3
)

// ScriptGenerator produces narration scripts and stock-search keywords from a
// prompt. Optional: jobs that carry a ready script never touch it.
type ScriptGenerator interface {
	GenerateScript(ctx context.Context, prompt string, durationSec int) (string, error)
	GenerateKeywords(ctx context.Context, script string, maxKeywords int) ([]string, error)
}

// Job describes one reel to produce.
type Job struct {
	VideoType composer.VideoType
	Style     composer.Style

	Provider speech.ProviderKind
	VoiceID  string

	// Script is narrated as-is. When empty, Prompt is expanded into a script
	// by the script generator.
	Script string
	Prompt string

	// ClipPaths are local video files used in order. ClipURLs are fetched
	// first. When both are empty the prompt's keywords drive a stock search.
	ClipPaths []string
	ClipURLs  []string

	MusicPath string
	MusicURL  string
}

// Deps are the engine's collaborators. Synth and Prober are mandatory; the
// rest degrade features when absent.
type Deps struct {
	Synth      *speech.Synthesizer
	Scripts    ScriptGenerator
	Stock      stock.Searcher
	Prober     composer.Prober
	Downloader *Downloader

	FFmpegPath string
	FontsDir   string
	FontFile   string
}

// Engine runs reel jobs end to end: narration synthesis, footage assembly,
// graph construction and the final render.
type Engine struct {
	deps      Deps
	workDir   string
	outputDir string

	lastArgs []string
}

// NewEngine creates an engine writing intermediates under workDir and final
// videos under outputDir.
func NewEngine(workDir, outputDir string, deps Deps) (*Engine, error) {
	if deps.Synth == nil {
		return nil, fmt.Errorf("engine requires a speech synthesizer")
	}
	if deps.Prober == nil {
		return nil, fmt.Errorf("engine requires a media prober")
	}
	for _, dir := range []string{workDir, outputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create engine dir: %w", err)
		}
	}
	return &Engine{deps: deps, workDir: workDir, outputDir: outputDir}, nil
}

// LastArgs returns the render-engine argument list of the most recent Start
// call. Exposed for inspection and logging.
func (e *Engine) LastArgs() []string { return e.lastArgs }

type narrationChunk struct {
	path     string
	duration time.Duration
}

// Start produces one reel. Setup and synthesis failures return an error;
// render-engine results are classified in the outcome.
func (e *Engine) Start(ctx context.Context, job Job) (composer.RenderOutcome, error) {
	script, err := e.resolveScript(ctx, job)
	if err != nil {
		return composer.RenderOutcome{}, err
	}

	sentences := SplitSentences(script, minSentenceChars)
	if len(sentences) == 0 {
		return composer.RenderOutcome{}, fmt.Errorf("script produced no narration sentences")
	}

	chunks, err := e.synthesizeAll(ctx, job, sentences)
	if err != nil {
		return composer.RenderOutcome{}, err
	}

	var narrationDuration time.Duration
	durations := make([]time.Duration, len(chunks))
	for i, chunk := range chunks {
		durations[i] = chunk.duration
		narrationDuration += chunk.duration
	}

	subtitlePath := filepath.Join(e.workDir, uuid.NewString()+".srt")
	if err := subtitles.WriteFile(subtitlePath, sentences, durations); err != nil {
		log.Printf("[Engine] warning: failed to write subtitles: %v", err)
		subtitlePath = ""
	}

	clipPaths, err := e.resolveClips(ctx, job, script)
	if err != nil {
		return composer.RenderOutcome{}, err
	}

	graph := filtergraph.New()

	clips := e.buildSubclips(ctx, graph, clipPaths, narrationDuration)

	// Narrator reels get a random zoom per clip; motivational reels run bare.
	var effects []composer.Effect
	if job.VideoType != composer.VideoTypeMotivational {
		effects = composer.DefaultEffects()
	}

	builder := composer.NewClipGraphBuilder(job.Style, job.VideoType, nil)
	visual, err := builder.Build(clips, effects)
	if err != nil {
		return composer.RenderOutcome{}, err
	}

	visual = composer.NewWatermarkStage(graph, job.Style, e.deps.FontFile).Apply(visual)
	visual = composer.NewSubtitleStage(job.Style, e.deps.FontsDir).Apply(visual, subtitlePath)

	mixer := composer.NewAudioMixStage(e.deps.Prober)
	narration := e.narrationNode(ctx, mixer, graph, chunks)
	music := e.musicNode(ctx, graph, job, narrationDuration)
	audio := mixer.Mix(music, narration)

	render, err := composer.NewRenderJob(e.deps.FFmpegPath, graph, visual, audio)
	if err != nil {
		return composer.RenderOutcome{}, err
	}

	outputPath := filepath.Join(e.outputDir, composer.OutputFileName(time.Now()))
	if e.lastArgs, err = render.Args(outputPath); err != nil {
		return composer.RenderOutcome{}, err
	}

	log.Printf("[Engine] rendering %d clips, %d narration chunks to %s",
		len(clips), len(chunks), outputPath)
	return render.Run(ctx, outputPath), nil
}

// resolveScript returns the narration text, generating it from the prompt
// when the job carries no ready script.
func (e *Engine) resolveScript(ctx context.Context, job Job) (string, error) {
	if job.Script != "" {
		return job.Script, nil
	}
	if job.Prompt == "" {
		return "", fmt.Errorf("job has neither script nor prompt")
	}
	if e.deps.Scripts == nil {
		return "", fmt.Errorf("job has only a prompt and no script generator is configured")
	}
	script, err := e.deps.Scripts.GenerateScript(ctx, job.Prompt, defaultScriptSeconds)
	if err != nil {
		return "", fmt.Errorf("failed to generate script: %w", err)
	}
	log.Printf("[Engine] generated script (%d chars)", len(script))
	return script, nil
}

// synthesizeAll narrates every sentence concurrently, preserving order.
func (e *Engine) synthesizeAll(ctx context.Context, job Job, sentences []string) ([]narrationChunk, error) {
	chunks := make([]narrationChunk, len(sentences))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(synthConcurrency)
	for i, sentence := range sentences {
		i, sentence := i, sentence
		g.Go(func() error {
			path, err := e.deps.Synth.Synthesize(gctx, speech.Request{
				Provider: job.Provider,
				VoiceID:  job.VoiceID,
				Text:     sentence,
			})
			if err != nil {
				return err
			}
			duration, err := e.deps.Prober.Duration(gctx, path)
			if err != nil {
				return fmt.Errorf("failed to probe narration chunk: %w", err)
			}
			chunks[i] = narrationChunk{path: path, duration: duration}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return chunks, nil
}

// resolveClips returns the ordered local clip files for the job, downloading
// remote URLs and falling back to a stock search keyed off the script.
func (e *Engine) resolveClips(ctx context.Context, job Job, script string) ([]string, error) {
	paths := append([]string(nil), job.ClipPaths...)

	urls := append([]string(nil), job.ClipURLs...)
	if len(paths) == 0 && len(urls) == 0 {
		found, err := e.searchStock(ctx, job, script)
		if err != nil {
			return nil, err
		}
		urls = found
	}

	for _, u := range urls {
		if e.deps.Downloader == nil {
			return nil, fmt.Errorf("job references remote clips but no downloader is configured")
		}
		local, err := e.deps.Downloader.Download(ctx, e.workDir, u)
		if err != nil {
			return nil, err
		}
		paths = append(paths, local)
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("job has no video clips")
	}
	return paths, nil
}

func (e *Engine) searchStock(ctx context.Context, job Job, script string) ([]string, error) {
	if e.deps.Stock == nil {
		return nil, fmt.Errorf("job has no clips and no stock searcher is configured")
	}

	keywords := []string{job.Prompt}
	if e.deps.Scripts != nil {
		generated, err := e.deps.Scripts.GenerateKeywords(ctx, script, maxSearchKeywords)
		if err != nil {
			log.Printf("[Engine] warning: keyword generation failed, searching by prompt: %v", err)
		} else if len(generated) > 0 {
			keywords = generated
		}
	}

	var urls []string
	for _, keyword := range keywords {
		if keyword == "" {
			continue
		}
		found, err := e.deps.Stock.Search(ctx, keyword, minStockClipDuration, 1)
		if err != nil {
			log.Printf("[Engine] warning: stock search for %q failed: %v", keyword, err)
			continue
		}
		if len(found) == 0 {
			log.Printf("[Engine] no stock footage for %q", keyword)
			continue
		}
		urls = append(urls, found[0])
	}
	return urls, nil
}

// buildSubclips registers graph inputs by cycling through the clip list in
// segments of at most maxSubclipDuration until the narration is covered. Each
// subclip is cropped to portrait when the source isn't 9:16 already.
func (e *Engine) buildSubclips(ctx context.Context, graph *filtergraph.Graph, clipPaths []string, total time.Duration) []composer.Clip {
	type dims struct {
		width, height int
		ok            bool
	}
	sizes := make(map[string]dims, len(clipPaths))
	probe := func(path string) dims {
		if d, seen := sizes[path]; seen {
			return d
		}
		width, height, err := e.deps.Prober.VideoSize(ctx, path)
		d := dims{width: width, height: height, ok: err == nil}
		if err != nil {
			log.Printf("[Engine] warning: failed to probe %s, skipping crop: %v", path, err)
		}
		sizes[path] = d
		return d
	}

	makeClip := func(path string, limit time.Duration) composer.Clip {
		var in *filtergraph.Input
		if limit > 0 {
			in = graph.AddInput(path, "-t", formatSeconds(limit))
		} else {
			in = graph.AddInput(path)
		}
		stream := in.Video()
		if d := probe(path); d.ok && d.width*16 != d.height*9 {
			stream = composer.CropToPortrait(stream, d.width, d.height)
		}
		return composer.Clip{Path: path, Stream: stream}
	}

	if total <= 0 {
		clips := make([]composer.Clip, 0, len(clipPaths))
		for _, path := range clipPaths {
			clips = append(clips, makeClip(path, 0))
		}
		return clips
	}

	var clips []composer.Clip
	for remaining := total; remaining > 0; {
		segment := maxSubclipDuration
		if remaining < segment {
			segment = remaining
		}
		path := clipPaths[len(clips)%len(clipPaths)]
		clips = append(clips, makeClip(path, segment))
		remaining -= segment
	}
	return clips
}

// narrationNode concatenates the probe-validated narration chunks into one
// audio node. Rejected chunks are dropped; an empty result means no narration.
func (e *Engine) narrationNode(ctx context.Context, mixer *composer.AudioMixStage, graph *filtergraph.Graph, chunks []narrationChunk) *filtergraph.Node {
	var nodes []*filtergraph.Node
	for _, chunk := range chunks {
		if node := mixer.NarrationNode(ctx, graph, chunk.path); node != nil {
			nodes = append(nodes, node)
		}
	}
	switch len(nodes) {
	case 0:
		return nil
	case 1:
		return nodes[0]
	default:
		return filtergraph.Concat(filtergraph.Audio, nodes...)
	}
}

// musicNode registers the background track, trimmed to the video duration.
func (e *Engine) musicNode(ctx context.Context, graph *filtergraph.Graph, job Job, total time.Duration) *filtergraph.Node {
	path := job.MusicPath
	if path == "" && job.MusicURL != "" {
		if e.deps.Downloader == nil {
			log.Printf("[Engine] warning: music URL set but no downloader configured, skipping music")
			return nil
		}
		local, err := e.deps.Downloader.Download(ctx, e.workDir, job.MusicURL)
		if err != nil {
			log.Printf("[Engine] warning: failed to download music, rendering without it: %v", err)
			return nil
		}
		path = local
	}
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		log.Printf("[Engine] warning: music file missing at %s, rendering without it", path)
		return nil
	}
	if total > 0 {
		return graph.AddInput(path, "-t", formatSeconds(total)).Audio()
	}
	return graph.AddInput(path).Audio()
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}
