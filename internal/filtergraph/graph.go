// Package filtergraph models an ffmpeg filter graph as an explicit DAG of typed
// video/audio nodes. The graph is built up by the composition stages and only
// serialized to -filter_complex / -i argument lists at render time, so the full
// structure can be inspected and tested without spawning a subprocess.
package filtergraph

import (
	"fmt"
	"strings"
)

// Kind is the stream type a node carries.
type Kind int

const (
	Video Kind = iota
	Audio
)

func (k Kind) String() string {
	if k == Audio {
		return "audio"
	}
	return "video"
}

// Input is one media file registered with the graph. preArgs are ffmpeg options
// that must precede the corresponding -i flag (e.g. -t, -stream_loop).
type Input struct {
	index   int
	path    string
	preArgs []string

	video *Node
	audio *Node
}

// Path returns the media file path this input reads from.
func (in *Input) Path() string { return in.path }

// Video returns the input's video source stream node.
func (in *Input) Video() *Node {
	if in.video == nil {
		in.video = &Node{kind: Video, input: in}
	}
	return in.video
}

// Audio returns the input's audio source stream node.
func (in *Input) Audio() *Node {
	if in.audio == nil {
		in.audio = &Node{kind: Audio, input: in}
	}
	return in.audio
}

// Graph owns the inputs of a single render. Nodes reference inputs but are
// otherwise freestanding; serialization walks backwards from the requested
// terminal nodes.
type Graph struct {
	inputs []*Input
}

func New() *Graph {
	return &Graph{}
}

// AddInput registers a media file and returns its handle. Input order is
// significant: it determines the ffmpeg input index.
func (g *Graph) AddInput(path string, preArgs ...string) *Input {
	in := &Input{index: len(g.inputs), path: path, preArgs: preArgs}
	g.inputs = append(g.inputs, in)
	return in
}

// InputArgs returns the -i argument list for every registered input, in order.
func (g *Graph) InputArgs() []string {
	var args []string
	for _, in := range g.inputs {
		args = append(args, in.preArgs...)
		args = append(args, "-i", in.path)
	}
	return args
}

// Inputs returns the registered input paths in order.
func (g *Graph) Inputs() []string {
	paths := make([]string, len(g.inputs))
	for i, in := range g.inputs {
		paths[i] = in.path
	}
	return paths
}

// Terminal pairs a sink node with the label it should carry in the serialized
// graph (the label used by -map).
type Terminal struct {
	Node  *Node
	Label string
}

// FilterComplex serializes every node reachable from the given terminals into a
// single -filter_complex expression. Labels for intermediate streams are
// assigned deterministically in dependency order. An error is returned if the
// graph contains a cycle or a terminal node is a bare source stream (nothing to
// filter).
func (g *Graph) FilterComplex(terminals ...Terminal) (string, error) {
	labels := map[*Node]string{}
	var chains []string

	const (
		unvisited = iota
		visiting
		done
	)
	state := map[*Node]int{}

	var walk func(n *Node) error
	walk = func(n *Node) error {
		switch state[n] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("filter graph contains a cycle at %q", n.op)
		}
		state[n] = visiting

		if n.input != nil {
			// Source stream: label is the ffmpeg input specifier.
			if n.kind == Audio {
				labels[n] = fmt.Sprintf("%d:a", n.input.index)
			} else {
				labels[n] = fmt.Sprintf("%d:v", n.input.index)
			}
			state[n] = done
			return nil
		}

		for _, p := range n.parents {
			if err := walk(p); err != nil {
				return err
			}
		}

		if labels[n] == "" {
			prefix := "v"
			if n.kind == Audio {
				prefix = "a"
			}
			labels[n] = fmt.Sprintf("%s%d", prefix, len(chains))
		}

		var sb strings.Builder
		for _, p := range n.parents {
			fmt.Fprintf(&sb, "[%s]", labels[p])
		}
		sb.WriteString(n.op)
		if n.args != "" {
			sb.WriteString("=")
			sb.WriteString(n.args)
		}
		fmt.Fprintf(&sb, "[%s]", labels[n])
		chains = append(chains, sb.String())

		state[n] = done
		return nil
	}

	for _, t := range terminals {
		if t.Node == nil {
			continue
		}
		if t.Node.input != nil {
			return "", fmt.Errorf("terminal %q is a bare source stream", t.Label)
		}
		labels[t.Node] = t.Label
		if err := walk(t.Node); err != nil {
			return "", err
		}
	}

	return strings.Join(chains, ";"), nil
}
