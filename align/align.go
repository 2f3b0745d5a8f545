// Package align computes the multi-voice temporal alignment of one system:
// it assigns every time-bearing element of every voice an exact rational time
// position, merges the positions into a single cross-voice index, and splices
// whitespace padding into the voices so that simultaneous elements and bar
// lines line up as columns of text.
//
// The engine is a pure, single-threaded, in-memory pass over caller-owned
// voice sequences. Independent systems may be aligned in parallel; one
// system's run shares no state with another's.
package align

import (
	"errors"

	"github.com/AntoineBalaine/abcfmt"
)

// ErrInternal marks an internal-consistency failure of the aligner: a node
// location recorded in the index that no longer resolves in its voice. It
// indicates a bug in index construction, not bad input; callers should fall
// back to rendering the system unaligned.
var ErrInternal = errors.New("align: internal inconsistency")

// Options configures one alignment run.
type Options struct {
	// DefaultLength is the tune's default note length (the L: field). The
	// zero value falls back to an eighth note.
	DefaultLength abcfmt.Frac

	// Compound marks compound meters (6/8, 9/8, 12/8), which changes the
	// default time ratio of irregular tuplets.
	Compound bool

	// Snapshot supplies the rhythm multiplier to use for nodes whose written
	// rhythm is the zero-length marker, keyed by node identity. It comes
	// from a semantic pass over the owning tune and is nil for tunes without
	// zero-length shortcuts.
	Snapshot map[abcfmt.NodeID]abcfmt.Frac
}

// System aligns one multi-voice system in place, splicing synthetic
// whitespace into the voice node sequences. It is the package's single entry
// point; it returns only internal-consistency errors.
func System(sys *abcfmt.System, opt Options) error {
	if opt.DefaultLength.IsInf() || opt.DefaultLength.IsZero() {
		opt.DefaultLength = abcfmt.NewFrac(1, 8)
	}
	s := &scanner{
		ix:      newIndex(),
		lastBar: make([]int, len(sys.Lines)),
		opt:     opt,
	}
	for vi, v := range sys.Lines {
		if v.Kind == abcfmt.VoiceFormatted {
			s.voice(vi, v)
		}
	}
	for vi, v := range sys.Lines {
		if v.Kind == abcfmt.VoiceSymbols {
			s.symbols(vi, v)
		}
	}
	return pad(sys, s.ix, s.lastBar)
}
