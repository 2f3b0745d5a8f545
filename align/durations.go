package align

import (
	"github.com/AntoineBalaine/abcfmt"
)

// durations is the mutable duration context threaded through one voice scan:
// the tune's default note length plus the transient tuplet and broken-rhythm
// state. A fresh context is created per voice; tuplet and broken state are
// cleared whenever a bar line is crossed.
type durations struct {
	defaultLen abcfmt.Frac
	compound   bool
	snapshot   map[abcfmt.NodeID]abcfmt.Frac

	tupletLeft  int
	tupletRatio abcfmt.Frac

	pending    abcfmt.Frac // multiplier owed to the next time-bearing event
	hasPending bool
}

func newDurations(opt Options) durations {
	return durations{
		defaultLen: opt.DefaultLength,
		compound:   opt.Compound,
		snapshot:   opt.Snapshot,
	}
}

// barCrossed clears the per-bar state: an open tuplet or a pending broken
// rhythm never survives a bar line.
func (d *durations) barCrossed() {
	d.tupletLeft = 0
	d.hasPending = false
}

// openTuplet arms the tuplet state from a (p:q:r marker: the next r note-like
// events each take q/p of their written duration.
func (d *durations) openTuplet(t *abcfmt.Tuplet) {
	q := t.Q
	if q == 0 {
		q = defaultTupletQ(t.P, d.compound)
	}
	r := t.R
	if r == 0 {
		r = t.P
	}
	if t.P == 0 {
		return
	}
	d.tupletLeft = r
	d.tupletRatio = abcfmt.NewFrac(q, t.P)
}

// defaultTupletQ is the conventional "in the time of" value when the tuplet
// marker does not spell one out: (3 means 3 in the time of 2, (2 means 2 in
// the time of 3, and the irregular groups follow the meter.
func defaultTupletQ(p int, compound bool) int {
	switch p {
	case 2, 4, 8:
		return 3
	case 3, 6:
		return 2
	default:
		if compound {
			return 3
		}
		return 2
	}
}

// event returns the duration of one time-bearing node and updates the
// context. Multi-measure rests return the Infinite sentinel and leave the
// context untouched; callers must not add Infinite to a running position.
func (d *durations) event(n abcfmt.Node) abcfmt.Frac {
	if n.Kind() == abcfmt.KindMultiRest {
		return abcfmt.Infinite
	}
	r, ok := rhythmOf(n)
	if !ok {
		// Unrecognized shape: fall back to the default length so alignment
		// stays deterministic.
		return d.defaultLen
	}
	base := d.defaultLen
	if r.ZeroLen {
		if m, found := d.snapshot[n.Identity()]; found {
			base = base.Mul(m)
		} else {
			base = base.Mul(r.Mult)
		}
	} else {
		base = base.Mul(r.Mult)
	}
	if d.tupletLeft > 0 && abcfmt.IsNoteLike(n) {
		base = base.Mul(d.tupletRatio)
		if d.tupletLeft--; d.tupletLeft == 0 {
			d.tupletRatio = abcfmt.Frac{}
		}
	}
	if d.hasPending {
		base = base.Mul(d.pending)
		d.hasPending = false
	}
	if r.Broken != "" {
		cur, next := brokenFactors(r.Broken)
		base = base.Mul(cur)
		d.pending = next
		d.hasPending = true
	}
	return base
}

func rhythmOf(n abcfmt.Node) (abcfmt.Rhythm, bool) {
	switch t := n.(type) {
	case *abcfmt.Note:
		return t.Rhythm, true
	case *abcfmt.Chord:
		return t.Rhythm, true
	case *abcfmt.Rest:
		return t.Rhythm, true
	}
	return abcfmt.Rhythm{}, false
}

// brokenFactors maps a broken rhythm marker to the multipliers for the
// current and the next event. A single > dots the current event (3/2) and
// halves the next (1/2); each extra character dots again: >> gives 7/4 and
// 1/4. The < forms are the mirror image.
func brokenFactors(marks string) (cur, next abcfmt.Frac) {
	n := len(marks)
	pow := 1
	for i := 0; i < n; i++ {
		pow *= 2
	}
	long := abcfmt.NewFrac(2*pow-1, pow)
	short := abcfmt.NewFrac(1, pow)
	if marks[0] == '<' {
		return short, long
	}
	return long, short
}
