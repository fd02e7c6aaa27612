package composer

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/daone764/reelsmaker-master/internal/filtergraph"
)

// Target output resolution (9:16 portrait).
const (
	targetWidth  = 1080
	targetHeight = 1920
)

// portraitAspect is targetWidth/targetHeight, the crop threshold.
const portraitAspect = 0.5625

// Clip is one input video segment: a file path plus its source stream in the
// render graph. The builder only reads it.
type Clip struct {
	Path   string
	Stream *filtergraph.Node
}

// ClipGraphBuilder composes the visual node of a reel from an ordered clip
// list. Effect selection is randomized per clip; the random source is
// injectable so builds are reproducible under test.
type ClipGraphBuilder struct {
	style     Style
	videoType VideoType
	rng       *rand.Rand
}

// NewClipGraphBuilder creates a builder for the given style and video
// category. A nil rng gets a time-seeded source.
func NewClipGraphBuilder(style Style, videoType VideoType, rng *rand.Rand) *ClipGraphBuilder {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &ClipGraphBuilder{style: style, videoType: videoType, rng: rng}
}

// Build processes each clip (random effect, scale to target resolution,
// optional grayscale) and concatenates them, in input order, into a single
// video-only node. Audio is handled separately by the audio mix stage.
func (b *ClipGraphBuilder) Build(clips []Clip, effects []Effect) (*filtergraph.Node, error) {
	if len(clips) == 0 {
		return nil, fmt.Errorf("no clips to concatenate")
	}

	processed := make([]*filtergraph.Node, 0, len(clips))
	for _, clip := range clips {
		node := clip.Stream

		if len(effects) > 0 {
			effect := effects[b.rng.Intn(len(effects))]
			node = effect(node)
		}

		node = node.Filter("scale",
			filtergraph.P(fmt.Sprintf("%d", targetWidth)),
			filtergraph.P(fmt.Sprintf("%d", targetHeight)),
		)

		// Gray treatment only for motivational reels with the gray effect set.
		if b.style.ColorEffect == "gray" && b.videoType == VideoTypeMotivational {
			node = node.Filter("format", filtergraph.P("gray"))
		}

		processed = append(processed, node)
	}

	return filtergraph.Concat(filtergraph.Video, processed...), nil
}

// CropToPortrait center-crops a clip stream to the 9:16 portrait aspect given
// the clip's probed dimensions. Wide sources lose width, tall sources lose
// height.
func CropToPortrait(stream *filtergraph.Node, width, height int) *filtergraph.Node {
	aspect := float64(width) / float64(height)

	if aspect < portraitAspect {
		cropHeight := int(float64(width) / portraitAspect)
		return stream.Filter("crop",
			filtergraph.KV("w", fmt.Sprintf("%d", width)),
			filtergraph.KV("h", fmt.Sprintf("%d", cropHeight)),
			filtergraph.KV("x", "0"),
			filtergraph.KV("y", fmt.Sprintf("%d", (height-cropHeight)/2)),
		)
	}

	cropWidth := int(portraitAspect * float64(height))
	return stream.Filter("crop",
		filtergraph.KV("w", fmt.Sprintf("%d", cropWidth)),
		filtergraph.KV("h", fmt.Sprintf("%d", height)),
		filtergraph.KV("x", fmt.Sprintf("%d", (width-cropWidth)/2)),
		filtergraph.KV("y", "0"),
	)
}
