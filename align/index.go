package align

import (
	"github.com/AntoineBalaine/abcfmt"
)

type (
	// location names one node of one voice. Nodes are identified by their
	// stable NodeID, never by slice offset, because padding insertion shifts
	// positions after the index is built. beam is the identity of the
	// enclosing beam group when the node is beamed, NoID otherwise.
	location struct {
		voice int
		node  abcfmt.NodeID
		beam  abcfmt.NodeID
	}

	// point is one alignment point: every location that occurs at the same
	// bar and musical-time offset, in insertion order. A point is either a
	// bar-start point (the bar line opening the bar) or a time point.
	point struct {
		bar      int
		barStart bool
		time     abcfmt.Frac
		locs     []location
	}

	// index is the global alignment index for one system: points ordered by
	// bar ascending then time ascending, with bar-start points first within
	// their bar, plus a table of each bar's first point position. The table
	// is shifted whenever a point is spliced into an earlier position.
	index struct {
		points   []*point
		barFirst map[int]int
	}
)

func newIndex() *index {
	return &index{barFirst: make(map[int]int)}
}

// pushBarStart records a voice's bar line opening the given bar. The first
// voice to reach a bar creates its bar-start point; later voices merge into
// it.
func (ix *index) pushBarStart(bar int, loc location) {
	first, ok := ix.barFirst[bar]
	if !ok {
		at := ix.barInsertPos(bar)
		ix.splice(at, &point{bar: bar, barStart: true, locs: []location{loc}})
		ix.barFirst[bar] = at
		return
	}
	if p := ix.points[first]; p.barStart {
		p.locs = append(p.locs, loc)
		return
	}
	// The bar exists but was created by a time push; splice the bar-start
	// point in front of its time keys.
	ix.splice(first, &point{bar: bar, barStart: true, locs: []location{loc}})
	ix.barFirst[bar] = first
}

// pushTime records a location at a time offset within a bar, keeping the
// bar's time keys strictly increasing: equal keys merge into the existing
// point, and a new key is spliced in front of the first strictly greater one.
func (ix *index) pushTime(bar int, t abcfmt.Frac, loc location) {
	first, ok := ix.barFirst[bar]
	if !ok {
		at := ix.barInsertPos(bar)
		ix.splice(at, &point{bar: bar, time: t, locs: []location{loc}})
		ix.barFirst[bar] = at
		return
	}
	i := first
	for ; i < len(ix.points) && ix.points[i].bar == bar; i++ {
		p := ix.points[i]
		if p.barStart {
			continue
		}
		switch p.time.Cmp(t) {
		case 0:
			p.locs = append(p.locs, loc)
			return
		case 1:
			ix.splice(i, &point{bar: bar, time: t, locs: []location{loc}})
			// splice shifted the bar's own entry when the new key became
			// the bar's first point; point it back.
			if i <= first {
				ix.barFirst[bar] = i
			}
			return
		}
	}
	ix.splice(i, &point{bar: bar, time: t, locs: []location{loc}})
}

// barInsertPos is the position where a bar not yet in the index belongs:
// in front of the first point of any later bar. Voices are scanned one
// after another, so a new bar is not necessarily the highest one.
func (ix *index) barInsertPos(bar int) int {
	for i, p := range ix.points {
		if p.bar > bar {
			return i
		}
	}
	return len(ix.points)
}

// splice inserts p at position at and shifts every bar-first entry at or
// beyond the insertion position.
func (ix *index) splice(at int, p *point) {
	ix.points = append(ix.points, nil)
	copy(ix.points[at+1:], ix.points[at:])
	ix.points[at] = p
	for b, idx := range ix.barFirst {
		if idx >= at {
			ix.barFirst[b] = idx + 1
		}
	}
}

// lastBar returns the highest bar number present in the index.
func (ix *index) lastBar() int {
	last := 0
	for b := range ix.barFirst {
		if b > last {
			last = b
		}
	}
	return last
}
