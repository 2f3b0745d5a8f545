package align

import (
	"github.com/AntoineBalaine/abcfmt"
)

// parentPoint is one already-computed alignment point of the parent voice,
// as seen by a symbol line.
type parentPoint struct {
	bar  int
	time abcfmt.Frac
	beam abcfmt.NodeID
}

// symbols anchors a lyric or symbol line to its parent voice: each symbol
// token is attached to the next unconsumed time point of the parent within
// the current bar. A token that lands on a beamed element consumes the whole
// beam group, because one syllable aligns with one beamed group, not with
// each note inside it.
func (s *scanner) symbols(vi int, v *abcfmt.VoiceLine) {
	parent := v.Parent
	if parent < 0 || parent >= len(s.lastBar) || parent == vi {
		return
	}
	var entries []parentPoint
	for _, p := range s.ix.points {
		if p.barStart {
			continue
		}
		for _, l := range p.locs {
			if l.voice == parent {
				entries = append(entries, parentPoint{bar: p.bar, time: p.time, beam: l.beam})
			}
		}
	}
	bar := 1
	cur := 0
	for _, n := range v.Nodes {
		switch t := n.(type) {
		case *abcfmt.BarLine:
			bar++
			for cur < len(entries) && entries[cur].bar < bar {
				cur++
			}
			s.ix.pushBarStart(bar, location{voice: vi, node: t.Identity()})
		case *abcfmt.SymbolText:
			for cur < len(entries) && entries[cur].bar < bar {
				cur++
			}
			if cur >= len(entries) || entries[cur].bar != bar {
				// More syllables than notes left in the bar; nothing to
				// anchor them to.
				continue
			}
			e := entries[cur]
			s.ix.pushTime(e.bar, e.time, location{voice: vi, node: t.Identity()})
			if e.beam != abcfmt.NoID {
				for cur < len(entries) && entries[cur].beam == e.beam {
					cur++
				}
			} else {
				cur++
			}
		}
	}
	if bar == 1 {
		// No bar-line tokens of its own; trailing equalization follows the
		// parent voice's line end.
		bar = s.lastBar[parent]
	}
	s.lastBar[vi] = bar
}
