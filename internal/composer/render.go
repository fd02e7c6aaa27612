package composer

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os/exec"
	"strings"
	"time"

	"github.com/daone764/reelsmaker-master/internal/filtergraph"
)

// Output encoding: a codec/preset pairing chosen for iteration speed over
// compression, and a low thread count so concurrent encodes sharing a host
// stay bounded.
const (
	videoCodec    = "libx264"
	audioCodec    = "aac"
	encodePreset  = "veryfast"
	encodeThreads = "2"

	visualLabel = "vout"
	audioLabel  = "aout"
)

// OutcomeKind classifies a render result.
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeEngineFailure
	OutcomeInvalidInput
)

// RenderOutcome is the tagged result of a render-engine invocation.
type RenderOutcome struct {
	Kind OutcomeKind

	// OutputPath is set on success.
	OutputPath string

	// Diagnostics carries the engine's captured stderr on failure.
	Diagnostics string

	// Reason describes invalid input.
	Reason string
}

// RenderJob is the final assembly step: it serializes the graph and invokes
// the external render engine once. A job is only constructed once the visual
// node exists; a nil audio node is legal and produces a silent video.
type RenderJob struct {
	engine string
	graph  *filtergraph.Graph
	visual *filtergraph.Node
	audio  *filtergraph.Node
}

// NewRenderJob creates a render job. The visual node is mandatory.
func NewRenderJob(enginePath string, graph *filtergraph.Graph, visual, audio *filtergraph.Node) (*RenderJob, error) {
	if visual == nil {
		return nil, fmt.Errorf("render job requires a visual node")
	}
	if enginePath == "" {
		enginePath = "ffmpeg"
	}
	return &RenderJob{engine: enginePath, graph: graph, visual: visual, audio: audio}, nil
}

// OutputFileName derives the timestamped artifact name for a render.
func OutputFileName(now time.Time) string {
	return fmt.Sprintf("reels_video_%s.mp4", now.Format("20060102_150405"))
}

// Args builds the complete, loggable engine argument list for the job.
func (j *RenderJob) Args(outputPath string) ([]string, error) {
	terminals := []filtergraph.Terminal{{Node: j.visual, Label: visualLabel}}
	if j.audio != nil {
		terminals = append(terminals, filtergraph.Terminal{Node: j.audio, Label: audioLabel})
	}

	expr, err := j.graph.FilterComplex(terminals...)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize filter graph: %w", err)
	}

	args := j.graph.InputArgs()
	args = append(args, "-filter_complex", expr)
	args = append(args, "-map", "["+visualLabel+"]")
	if j.audio != nil {
		args = append(args, "-map", "["+audioLabel+"]")
	}
	args = append(args,
		"-c:v", videoCodec,
		"-c:a", audioCodec,
		"-preset", encodePreset,
		"-threads", encodeThreads,
		"-y",
		outputPath,
	)
	return args, nil
}

// Run invokes the render engine and classifies its outcome. The engine's
// stderr is captured in full and logged on failure.
func (j *RenderJob) Run(ctx context.Context, outputPath string) RenderOutcome {
	args, err := j.Args(outputPath)
	if err != nil {
		return RenderOutcome{Kind: OutcomeInvalidInput, Reason: err.Error()}
	}

	log.Printf("[Render] %s %s", j.engine, strings.Join(args, " "))

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, j.engine, args...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		diagnostics := stderr.String()
		log.Printf("[Render] engine failed: %v\n%s", err, diagnostics)
		return RenderOutcome{Kind: OutcomeEngineFailure, Diagnostics: diagnostics}
	}

	return RenderOutcome{Kind: OutcomeSuccess, OutputPath: outputPath}
}
