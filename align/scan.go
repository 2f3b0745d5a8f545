package align

import (
	"github.com/AntoineBalaine/abcfmt"
)

// scanner builds the global alignment index for one system. lastBar records,
// per voice, the bar the voice's line ends in; the trailing-padding pass
// groups line ends by it.
type scanner struct {
	ix      *index
	lastBar []int
	opt     Options
}

// voiceState is the running position of one voice scan. Bars count from 1
// and time restarts at zero on every bar line.
type voiceState struct {
	bar  int
	time abcfmt.Frac
}

// voice walks one formatted voice in a single linear pass, emitting an
// alignment point for every bar line and every time-bearing node.
func (s *scanner) voice(vi int, v *abcfmt.VoiceLine) {
	d := newDurations(s.opt)
	st := voiceState{bar: 1, time: abcfmt.NewFrac(0, 1)}
	for _, n := range v.Nodes {
		s.node(vi, n, abcfmt.NoID, &st, &d)
	}
	s.lastBar[vi] = st.bar
}

// node handles a single node. beam is the identity of the enclosing beam
// group, NoID at the top level.
func (s *scanner) node(vi int, n abcfmt.Node, beam abcfmt.NodeID, st *voiceState, d *durations) {
	switch t := n.(type) {
	case *abcfmt.BarLine:
		st.bar++
		st.time = abcfmt.NewFrac(0, 1)
		d.barCrossed()
		s.ix.pushBarStart(st.bar, location{voice: vi, node: t.Identity()})
		return
	case *abcfmt.Tuplet:
		d.openTuplet(t)
		return
	case *abcfmt.Beam:
		for _, e := range t.Elems {
			s.node(vi, e, t.Identity(), st, d)
		}
		return
	}
	if !abcfmt.IsTimeBearing(n) {
		return
	}
	s.ix.pushTime(st.bar, st.time, location{voice: vi, node: n.Identity(), beam: beam})
	if mr, ok := n.(*abcfmt.MultiRest); ok {
		// A multi-measure rest spans whole bars. Its duration is never added
		// to the running time; the scan jumps to the last bar of the span so
		// the following bar line opens the right bar.
		if mr.Count > 1 {
			st.bar += mr.Count - 1
		}
		return
	}
	if dur := d.event(n); !dur.IsInf() {
		st.time = st.time.Add(dur)
	}
}
