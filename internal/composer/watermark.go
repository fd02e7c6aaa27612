package composer

import (
	"log"
	"os"

	"github.com/daone764/reelsmaker-master/internal/filtergraph"
)

// Watermark position expressions: the text watermark cycles between the
// bottom-right and top-right corners on a 20-second period (10s bottom, 5s
// top, 5s bottom). The nested expression is kept exactly as shipped, repeated
// branch included; the observed timing is the contract.
const (
	watermarkTextX = "if(lt(mod(t,20),10), (main_w-text_w)-16, if(lt(mod(t,20),10), 16, if(lt(mod(t,20),15), 16, (main_w-text_w)-16)))"
	watermarkTextY = "if(lt(mod(t,20),10), (main_h-text_h)-100, if(lt(mod(t,20),10), 50, if(lt(mod(t,20),15), (main_h-text_h)-100, 50)))"
)

// WatermarkStage overlays a text or image watermark on the visual node. The
// watermark is optional branding; every skip condition returns the node
// unchanged rather than failing the render.
type WatermarkStage struct {
	graph    *filtergraph.Graph
	style    Style
	fontFile string
}

// NewWatermarkStage creates the stage. graph is needed to register the image
// watermark as an extra input; fontFile is the ttf used for text watermarks.
func NewWatermarkStage(graph *filtergraph.Graph, style Style, fontFile string) *WatermarkStage {
	return &WatermarkStage{graph: graph, style: style, fontFile: fontFile}
}

// Apply returns the watermarked visual node, or the input node unchanged when
// the font resource is missing, no watermark text/path is configured, or the
// watermark type is none.
func (s *WatermarkStage) Apply(visual *filtergraph.Node) *filtergraph.Node {
	if _, err := os.Stat(s.fontFile); err != nil {
		log.Printf("[Watermark] font file missing at %s, skipping watermark", s.fontFile)
		return visual
	}
	if s.style.WatermarkPathOrText == "" || s.style.WatermarkType == WatermarkNone {
		return visual
	}

	switch s.style.WatermarkType {
	case WatermarkText:
		log.Printf("[Watermark] using text watermark with font: %s", s.fontFile)
		return visual.Filter("drawtext",
			filtergraph.KV("text", s.style.WatermarkPathOrText),
			filtergraph.KV("x", watermarkTextX),
			filtergraph.KV("y", watermarkTextY),
			filtergraph.KV("fontsize", "40"),
			filtergraph.KV("fontcolor", "white"),
			filtergraph.KV("fontfile", s.fontFile),
		)

	case WatermarkImage:
		// Scale to a fixed height of 100 preserving aspect ratio, then pin to
		// the bottom-right corner with an 8px margin.
		wm := s.graph.AddInput(s.style.WatermarkPathOrText).Video().
			Filter("scale", filtergraph.P("-1"), filtergraph.P("100"))
		return filtergraph.Overlay(visual, wm, "(main_w-overlay_w)-8", "(main_h-overlay_h)-8")
	}

	return visual
}
