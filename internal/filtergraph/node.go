package filtergraph

import (
	"fmt"
	"regexp"
	"strings"
)

// Node is one transform output in the graph. Source stream nodes have a non-nil
// input and no op; every other node names the ffmpeg filter that produces it
// and the parent streams it consumes.
type Node struct {
	kind    Kind
	op      string
	args    string
	parents []*Node
	input   *Input
}

// Kind returns the stream type of the node.
func (n *Node) Kind() Kind { return n.kind }

// Op returns the filter name that produces this node ("" for source streams).
func (n *Node) Op() string { return n.op }

// Args returns the serialized filter arguments.
func (n *Node) Args() string { return n.args }

// Parents returns the parent nodes in consumption order.
func (n *Node) Parents() []*Node { return n.parents }

// Source reports whether the node is a bare input stream.
func (n *Node) Source() bool { return n.input != nil }

// Param is a single filter argument. A Param with an empty Key is positional.
type Param struct {
	Key   string
	Value string
}

// P builds a positional filter argument.
func P(value string) Param { return Param{Value: value} }

// KV builds a named filter argument.
func KV(key, value string) Param { return Param{Key: key, Value: value} }

// Filter applies a named single-input filter and returns the resulting node.
// The stream kind is preserved.
func (n *Node) Filter(name string, params ...Param) *Node {
	return &Node{
		kind:    n.kind,
		op:      name,
		args:    joinParams(params),
		parents: []*Node{n},
	}
}

// Concat joins streams of one kind in the given order. Order is preserved
// exactly; callers that need a particular clip sequence get that sequence.
func Concat(kind Kind, nodes ...*Node) *Node {
	v, a := 1, 0
	if kind == Audio {
		v, a = 0, 1
	}
	return &Node{
		kind:    kind,
		op:      "concat",
		args:    fmt.Sprintf("n=%d:v=%d:a=%d", len(nodes), v, a),
		parents: append([]*Node(nil), nodes...),
	}
}

// AMix mixes two audio streams. duration selects the amix duration policy
// ("longest", "shortest", "first"); dropoutTransition is the fade applied when
// an input ends, in seconds.
func AMix(first, second *Node, duration string, dropoutTransition int) *Node {
	return &Node{
		kind:    Audio,
		op:      "amix",
		args:    fmt.Sprintf("inputs=2:duration=%s:dropout_transition=%d", duration, dropoutTransition),
		parents: []*Node{first, second},
	}
}

// Overlay composites over on top of main at the given position expressions.
func Overlay(main, over *Node, x, y string) *Node {
	return &Node{
		kind:    Video,
		op:      "overlay",
		args:    joinParams([]Param{KV("x", x), KV("y", y)}),
		parents: []*Node{main, over},
	}
}

// plainValue matches values that need no quoting inside a filter expression.
var plainValue = regexp.MustCompile(`^[A-Za-z0-9_.\-]+$`)

// escapeValue quotes a filter argument value when it contains characters that
// ffmpeg's filter parser treats specially (colons, commas, paths, expressions).
func escapeValue(v string) string {
	if plainValue.MatchString(v) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

func joinParams(params []Param) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		if p.Key == "" {
			parts = append(parts, escapeValue(p.Value))
			continue
		}
		parts = append(parts, p.Key+"="+escapeValue(p.Value))
	}
	return strings.Join(parts, ":")
}
