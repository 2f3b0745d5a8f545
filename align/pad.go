package align

import (
	"fmt"

	"github.com/AntoineBalaine/abcfmt"
)

// resolved is the current position of a node within its voice: the top-level
// slice index, and for beamed elements also the position inside the beam.
type resolved struct {
	top   int
	inner int // -1 when the node is top-level
	beam  *abcfmt.Beam
}

// resolve finds a node by identity within a possibly just-mutated voice
// sequence, looking one level into beam groups.
func resolve(nodes []abcfmt.Node, id abcfmt.NodeID) (resolved, bool) {
	for i, n := range nodes {
		if n.Identity() == id {
			return resolved{top: i, inner: -1}, true
		}
		if b, ok := n.(*abcfmt.Beam); ok {
			for j, e := range b.Elems {
				if e.Identity() == id {
					return resolved{top: i, inner: j, beam: b}, true
				}
			}
		}
	}
	return resolved{}, false
}

// prefixWidth measures the rendered width from the start of the line up to,
// but not including, the resolved node. Columns are absolute: alignment
// points are processed in bar-then-time order, so by the time a point is
// padded every earlier point of the line already sits in its final column.
// The measurement runs against the voice's current state, counting padding
// inserted earlier in the same pass.
func prefixWidth(v *abcfmt.VoiceLine, r resolved) int {
	w := abcfmt.Width(abcfmt.RenderAll(v.Nodes[:r.top]))
	if r.inner > 0 {
		w += abcfmt.Width(abcfmt.RenderAll(r.beam.Elems[:r.inner]))
	}
	return w
}

// insert splices a synthetic space of the given width immediately before the
// resolved node, inside the beam group when the node is beamed. Padding for
// a beam's first element goes in front of the whole group.
func insert(v *abcfmt.VoiceLine, r resolved, cols int) {
	if r.inner > 0 {
		b := r.beam
		b.Elems = append(b.Elems, nil)
		copy(b.Elems[r.inner+1:], b.Elems[r.inner:])
		b.Elems[r.inner] = abcfmt.NewSpace(cols)
		return
	}
	v.Nodes = append(v.Nodes, nil)
	copy(v.Nodes[r.top+1:], v.Nodes[r.top:])
	v.Nodes[r.top] = abcfmt.NewSpace(cols)
}

// pad consumes the completed index in bar-then-time order and equalizes
// rendered prefixes at every multi-voice alignment point; a second,
// bar-scoped pass then equalizes total rendered length for the voices whose
// lines end in the same bar, which per-point padding never reaches.
func pad(sys *abcfmt.System, ix *index, lastBar []int) error {
	for _, p := range ix.points {
		if len(p.locs) < 2 {
			continue
		}
		if err := padPoint(sys, p); err != nil {
			return err
		}
	}
	padTrailers(sys, ix, lastBar)
	return nil
}

// padPoint equalizes the rendered prefix of every location sharing one
// alignment point.
func padPoint(sys *abcfmt.System, p *point) error {
	max := 0
	for _, loc := range p.locs {
		v := sys.Lines[loc.voice]
		r, ok := resolve(v.Nodes, loc.node)
		if !ok {
			return fmt.Errorf("%w: node %d not found in voice %d", ErrInternal, loc.node, loc.voice)
		}
		if w := prefixWidth(v, r); w > max {
			max = w
		}
	}
	// Insert per location, re-resolving and re-measuring each time: an
	// insertion for one location can shift a later location in the same
	// voice.
	for _, loc := range p.locs {
		v := sys.Lines[loc.voice]
		r, ok := resolve(v.Nodes, loc.node)
		if !ok {
			return fmt.Errorf("%w: node %d not found in voice %d", ErrInternal, loc.node, loc.voice)
		}
		if w := prefixWidth(v, r); w < max {
			insert(v, r, max-w)
		}
	}
	return nil
}

// padTrailers handles the bar-length equalization the point pass cannot: a
// bar line shared by several voices is a point and gets its column from
// padPoint, but the tail of the line after the last shared point has nothing
// to anchor it. For each bar, the voices whose line ends in that bar are
// padded with trailing whitespace to the longest of them.
func padTrailers(sys *abcfmt.System, ix *index, lastBar []int) {
	for bar := 1; bar <= ix.lastBar(); bar++ {
		max := -1
		for vi, v := range sys.Lines {
			if v.Kind == abcfmt.VoiceRaw || lastBar[vi] != bar {
				continue
			}
			if w := abcfmt.Width(v.Render()); w > max {
				max = w
			}
		}
		if max < 0 {
			continue
		}
		for vi, v := range sys.Lines {
			if v.Kind == abcfmt.VoiceRaw || lastBar[vi] != bar {
				continue
			}
			if w := abcfmt.Width(v.Render()); w < max {
				v.Nodes = append(v.Nodes, abcfmt.NewSpace(max-w))
			}
		}
	}
}
