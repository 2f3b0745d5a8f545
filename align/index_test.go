package align

import (
	"math/rand"
	"testing"

	"github.com/AntoineBalaine/abcfmt"
)

func checkOrdered(t *testing.T, ix *index) {
	t.Helper()
	for i := 1; i < len(ix.points); i++ {
		prev, cur := ix.points[i-1], ix.points[i]
		if cur.bar < prev.bar {
			t.Fatalf("point %d: bar %d after bar %d", i, cur.bar, prev.bar)
		}
		if cur.bar == prev.bar {
			if cur.barStart {
				t.Fatalf("point %d: bar-start point of bar %d not first in its bar", i, cur.bar)
			}
			if !prev.barStart && prev.time.Cmp(cur.time) >= 0 {
				t.Fatalf("point %d: time %v not after %v in bar %d", i, cur.time, prev.time, cur.bar)
			}
		}
	}
	for bar, first := range ix.barFirst {
		if first < 0 || first >= len(ix.points) {
			t.Fatalf("barFirst[%d] = %d out of range", bar, first)
		}
		if ix.points[first].bar != bar {
			t.Fatalf("barFirst[%d] points at bar %d", bar, ix.points[first].bar)
		}
		if first > 0 && ix.points[first-1].bar >= bar {
			t.Fatalf("barFirst[%d] = %d is not the bar's first point", bar, first)
		}
	}
}

func TestIndexRandomizedOrdering(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 100; trial++ {
		ix := newIndex()
		// Each voice walks its bars in ascending order with ascending times,
		// the way a scan does; voices interleave arbitrarily badly because
		// they are scanned one after another.
		for voice := 0; voice < 4; voice++ {
			bars := 1 + rng.Intn(5)
			id := abcfmt.NodeID(voice*100 + 1)
			for bar := 1; bar <= bars; bar++ {
				if bar > 1 {
					ix.pushBarStart(bar, location{voice: voice, node: id})
					id++
				}
				ticks := rng.Intn(5)
				num := 0
				for k := 0; k < ticks; k++ {
					num += 1 + rng.Intn(3)
					ix.pushTime(bar, abcfmt.NewFrac(num, 16), location{voice: voice, node: id})
					id++
				}
			}
		}
		checkOrdered(t, ix)
	}
}

func TestIndexMergesEqualKeys(t *testing.T) {
	ix := newIndex()
	ix.pushTime(1, abcfmt.NewFrac(1, 4), location{voice: 0, node: 1})
	ix.pushTime(1, abcfmt.NewFrac(2, 8), location{voice: 1, node: 2})
	if len(ix.points) != 1 {
		t.Fatalf("got %d points, want 1", len(ix.points))
	}
	if got := len(ix.points[0].locs); got != 2 {
		t.Fatalf("got %d locations, want 2", got)
	}
	ix.pushBarStart(2, location{voice: 0, node: 3})
	ix.pushBarStart(2, location{voice: 1, node: 4})
	if len(ix.points) != 2 {
		t.Fatalf("got %d points, want 2", len(ix.points))
	}
	if got := len(ix.points[1].locs); got != 2 {
		t.Fatalf("got %d bar-start locations, want 2", got)
	}
}

func TestIndexSmallerKeyKeepsBarFirst(t *testing.T) {
	// A voice scanned later can push a time below the bar's current first
	// point. The bar's first-point entry must follow the splice, or later
	// equal keys miss the merge and duplicate the point.
	ix := newIndex()
	ix.pushTime(1, abcfmt.NewFrac(2, 16), location{voice: 0, node: 1})
	ix.pushTime(1, abcfmt.NewFrac(1, 16), location{voice: 1, node: 2})
	if got := ix.barFirst[1]; got != 0 {
		t.Fatalf("barFirst[1] = %d, want 0", got)
	}
	ix.pushTime(1, abcfmt.NewFrac(1, 16), location{voice: 2, node: 3})
	if len(ix.points) != 2 {
		t.Fatalf("got %d points, want 2", len(ix.points))
	}
	if got := len(ix.points[0].locs); got != 2 {
		t.Fatalf("first point has %d locations, want 2", got)
	}
	checkOrdered(t, ix)
}

func TestIndexBarStartAfterTimePush(t *testing.T) {
	// A symbol line can record a time in a bar before any voice's bar line
	// reaches the index; the bar-start point must still end up first.
	ix := newIndex()
	ix.pushTime(2, abcfmt.NewFrac(1, 8), location{voice: 1, node: 10})
	ix.pushBarStart(2, location{voice: 0, node: 11})
	if !ix.points[0].barStart {
		t.Fatalf("bar-start point not spliced in front of the bar's time keys")
	}
	checkOrdered(t, ix)
}

func TestIndexLateBarCreation(t *testing.T) {
	// A multi-measure rest makes the first voice jump from bar 1 straight to
	// bar 5; the second voice then opens bars 2 through 4 behind it.
	ix := newIndex()
	ix.pushTime(1, abcfmt.NewFrac(0, 1), location{voice: 0, node: 1})
	ix.pushBarStart(5, location{voice: 0, node: 2})
	for bar := 2; bar <= 5; bar++ {
		ix.pushBarStart(bar, location{voice: 1, node: abcfmt.NodeID(10 + bar)})
		ix.pushTime(bar, abcfmt.NewFrac(0, 1), location{voice: 1, node: abcfmt.NodeID(20 + bar)})
	}
	checkOrdered(t, ix)
	if got := len(ix.points[ix.barFirst[5]].locs); got != 2 {
		t.Fatalf("bar 5 start has %d locations, want 2", got)
	}
	if got := ix.lastBar(); got != 5 {
		t.Fatalf("lastBar = %d, want 5", got)
	}
}
