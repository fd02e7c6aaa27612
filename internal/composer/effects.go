package composer

import "github.com/daone764/reelsmaker-master/internal/filtergraph"

// Effect is a visual transform applied to a single clip's stream before any
// other processing.
type Effect func(*filtergraph.Node) *filtergraph.Node

// ZoomIn pushes slowly toward the center of the frame.
func ZoomIn(n *filtergraph.Node) *filtergraph.Node {
	return n.Filter("zoompan",
		filtergraph.KV("z", "1+(0.05*in/24)"),
		filtergraph.KV("d", "1"),
	)
}

// ZoomOut starts pushed in, then pulls back toward the full frame.
func ZoomOut(n *filtergraph.Node) *filtergraph.Node {
	return n.Filter("zoompan",
		filtergraph.KV("z", "if(between(in,0,450),1+(0.05*in/24),min(max(zoom,pzoom)-0.050,5.0))"),
		filtergraph.KV("x", "320.0*4.0-(320.0*4.0/zoom)"),
		filtergraph.KV("y", "240.0*4.0-(240.0*4.0/zoom)"),
		filtergraph.KV("d", "1"),
	)
}

// DefaultEffects is the pool used for narrator reels. Motivational reels run
// with no effects.
func DefaultEffects() []Effect {
	return []Effect{ZoomOut, ZoomIn}
}
