package composer

import (
	"context"
	"log"
	"os"

	"github.com/daone764/reelsmaker-master/internal/filtergraph"
)

// AudioMixStage combines the optional background-music node with the optional
// narration node. Absence of both is a legal terminal state (silent video).
type AudioMixStage struct {
	prober Prober
}

// NewAudioMixStage creates the stage; prober validates narration files before
// they enter the mix.
func NewAudioMixStage(prober Prober) *AudioMixStage {
	return &AudioMixStage{prober: prober}
}

// Mix resolves the audio node for a render:
//
//	both present   → amix, longest duration wins, no dropout fade
//	music only     → music passes through
//	narration only → narration passes through
//	neither        → nil (silent render)
//
// Pass-through legs are lifted into the filter graph with anull when the node
// is a bare input stream; the serializer only accepts filtered terminals.
func (s *AudioMixStage) Mix(music, narration *filtergraph.Node) *filtergraph.Node {
	switch {
	case music != nil && narration != nil:
		return filtergraph.AMix(music, narration, "longest", 0)
	case music != nil:
		return passthrough(music)
	case narration != nil:
		return passthrough(narration)
	default:
		return nil
	}
}

func passthrough(n *filtergraph.Node) *filtergraph.Node {
	if n.Source() {
		return n.Filter("anull")
	}
	return n
}

// NarrationNode registers the narration file as a graph input, gated by a
// validity probe: a missing or corrupt file degrades to no narration with a
// warning instead of failing the job.
func (s *AudioMixStage) NarrationNode(ctx context.Context, graph *filtergraph.Graph, path string) *filtergraph.Node {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		log.Printf("[AudioMix] warning: narration file missing at %s, mixing without narration", path)
		return nil
	}
	if s.prober != nil {
		if err := s.prober.Validate(ctx, path); err != nil {
			log.Printf("[AudioMix] warning: narration file rejected by probe (%v), mixing without narration", err)
			return nil
		}
	}
	return graph.AddInput(path).Audio()
}
