package abcfmt

import (
	"strings"
)

// NodeID is the stable identity of a node within one tune. The aligner splices
// padding into voice sequences while it works, which shifts slice positions
// around; every lookup therefore re-resolves nodes by identity instead of
// caching offsets. IDs are allocated by the parser, starting from 1.
type NodeID uint32

// NoID marks nodes that are never looked up by identity, in practice the
// synthetic padding spaces the aligner creates.
const NoID NodeID = 0

// Kind tags the closed set of node variants. The scanners dispatch on Kind so
// that handling of each variant stays exhaustive.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindNote
	KindChord
	KindRest
	KindMultiRest
	KindBeam
	KindGrace
	KindTuplet
	KindBarLine
	KindDeco
	KindAnnotation
	KindInlineField
	KindSpace
	KindSlur
	KindSymbolHeader
	KindSymbolText
	KindRaw
)

// Node is one element of a voice line: a note, a bar line, a decoration, a
// run of whitespace and so on. The render method is unexported to keep the
// variant set closed to this package.
type Node interface {
	Identity() NodeID
	Kind() Kind
	render(sb *strings.Builder)
}

// Meta carries the identity every node variant shares; variants embed it.
type Meta struct {
	ID NodeID
}

func (m Meta) Identity() NodeID { return m.ID }

type (
	// Rhythm is the literal duration multiplier written after a note, chord
	// or rest: "2", "3/2", "/", "//" and so on. Lit preserves the exact
	// source text; Mult is the parsed multiplier relative to the tune's
	// default note length. Broken holds a trailing run of '>' or '<'
	// characters when the event carries a broken rhythm marker.
	Rhythm struct {
		Lit     string
		Mult    Frac
		ZeroLen bool
		Broken  string
	}

	// Note is a single pitch with optional accidental, octave marks, rhythm
	// and tie.
	Note struct {
		Meta
		Acc    string // "^", "^^", "_", "__", "=" or empty
		Letter string // one of a-g, A-G
		Octave string // run of "'" or "," or empty
		Rhythm Rhythm
		Tie    bool
	}

	// Chord is a bracketed group of simultaneous notes, e.g. [CEG]2. The
	// chord is one time-bearing event; its inner notes never get their own
	// alignment points.
	Chord struct {
		Meta
		Inner  []Node
		Rhythm Rhythm
		Tie    bool
	}

	// Rest is a measured rest, z (visible) or x (invisible).
	Rest struct {
		Meta
		Lit    string
		Rhythm Rhythm
	}

	// MultiRest is a multi-measure rest, Z or X with an optional bar count.
	// Its duration is the Infinite sentinel: it occupies whole bars and does
	// not participate in ordinary time-advancement arithmetic.
	MultiRest struct {
		Meta
		Lit   string
		Count int // number of bars, 1 when not written
	}

	// Beam is a run of time-bearing elements written without separating
	// whitespace, rendered as one contiguous group. Elements inside a beam
	// keep their own identities and alignment points; the aligner splices
	// padding into Elems when an inner element must move.
	Beam struct {
		Meta
		Elems []Node
	}

	// Grace is a brace-delimited grace note group. Grace notes take no
	// musical time.
	Grace struct {
		Meta
		Slash bool // acciaccatura, rendered {/...}
		Elems []Node
	}

	// Tuplet is the (p:q:r marker opening a tuplet group: r notes played in
	// the time of q, written over p. Q and R are 0 when not written; the
	// duration calculator fills in the conventional defaults.
	Tuplet struct {
		Meta
		Lit     string
		P, Q, R int
	}

	// BarLine is any bar line variant: |, ||, |], [|, |:, :|, :: and the
	// numbered-repeat forms.
	BarLine struct {
		Meta
		Lit string
	}

	// Deco is a decoration: the shorthand characters or a !...! symbol.
	Deco struct {
		Meta
		Lit string
	}

	// Annotation is a quoted chord symbol or free text annotation, quotes
	// included.
	Annotation struct {
		Meta
		Lit string
	}

	// InlineField is a bracketed inline information field such as [K:G],
	// brackets included.
	InlineField struct {
		Meta
		Lit string
	}

	// Space is a run of horizontal whitespace, measured in columns. The
	// aligner inserts synthetic Spaces (with NoID) to pad voices.
	Space struct {
		Meta
		Cols int
	}

	// Slur is a lone ( or ) that does not open a tuplet.
	Slur struct {
		Meta
		Lit string
	}

	// SymbolHeader is the w: or s: prefix of a lyric or symbol line.
	SymbolHeader struct {
		Meta
		Lit string
	}

	// SymbolText is one token of a lyric or symbol line: a syllable, a *
	// skip, a - hyphen or an _ holder.
	SymbolText struct {
		Meta
		Text string
	}

	// Raw is an uninterpreted slice of source text, used for passthrough
	// lines the formatter does not touch.
	Raw struct {
		Meta
		Lit string
	}
)

func (n *Note) Kind() Kind         { return KindNote }
func (n *Chord) Kind() Kind        { return KindChord }
func (n *Rest) Kind() Kind         { return KindRest }
func (n *MultiRest) Kind() Kind    { return KindMultiRest }
func (n *Beam) Kind() Kind         { return KindBeam }
func (n *Grace) Kind() Kind        { return KindGrace }
func (n *Tuplet) Kind() Kind       { return KindTuplet }
func (n *BarLine) Kind() Kind      { return KindBarLine }
func (n *Deco) Kind() Kind         { return KindDeco }
func (n *Annotation) Kind() Kind   { return KindAnnotation }
func (n *InlineField) Kind() Kind  { return KindInlineField }
func (n *Space) Kind() Kind        { return KindSpace }
func (n *Slur) Kind() Kind         { return KindSlur }
func (n *SymbolHeader) Kind() Kind { return KindSymbolHeader }
func (n *SymbolText) Kind() Kind   { return KindSymbolText }
func (n *Raw) Kind() Kind          { return KindRaw }

func (r Rhythm) render(sb *strings.Builder) {
	sb.WriteString(r.Lit)
	sb.WriteString(r.Broken)
}

func (n *Note) render(sb *strings.Builder) {
	sb.WriteString(n.Acc)
	sb.WriteString(n.Letter)
	sb.WriteString(n.Octave)
	n.Rhythm.render(sb)
	if n.Tie {
		sb.WriteByte('-')
	}
}

func (n *Chord) render(sb *strings.Builder) {
	sb.WriteByte('[')
	for _, e := range n.Inner {
		e.render(sb)
	}
	sb.WriteByte(']')
	n.Rhythm.render(sb)
	if n.Tie {
		sb.WriteByte('-')
	}
}

func (n *Rest) render(sb *strings.Builder) {
	sb.WriteString(n.Lit)
	n.Rhythm.render(sb)
}

func (n *MultiRest) render(sb *strings.Builder) {
	sb.WriteString(n.Lit)
}

func (n *Beam) render(sb *strings.Builder) {
	for _, e := range n.Elems {
		e.render(sb)
	}
}

func (n *Grace) render(sb *strings.Builder) {
	sb.WriteByte('{')
	if n.Slash {
		sb.WriteByte('/')
	}
	for _, e := range n.Elems {
		e.render(sb)
	}
	sb.WriteByte('}')
}

func (n *Tuplet) render(sb *strings.Builder)       { sb.WriteString(n.Lit) }
func (n *BarLine) render(sb *strings.Builder)      { sb.WriteString(n.Lit) }
func (n *Deco) render(sb *strings.Builder)         { sb.WriteString(n.Lit) }
func (n *Annotation) render(sb *strings.Builder)   { sb.WriteString(n.Lit) }
func (n *InlineField) render(sb *strings.Builder)  { sb.WriteString(n.Lit) }
func (n *Slur) render(sb *strings.Builder)         { sb.WriteString(n.Lit) }
func (n *SymbolHeader) render(sb *strings.Builder) { sb.WriteString(n.Lit) }
func (n *SymbolText) render(sb *strings.Builder)   { sb.WriteString(n.Text) }
func (n *Raw) render(sb *strings.Builder)          { sb.WriteString(n.Lit) }

func (n *Space) render(sb *strings.Builder) {
	for i := 0; i < n.Cols; i++ {
		sb.WriteByte(' ')
	}
}

// NewSpace returns a synthetic padding node of the given width. Padding is
// never looked up by identity, so it carries NoID.
func NewSpace(cols int) *Space {
	return &Space{Cols: cols}
}

// IsTimeBearing reports whether the node carries a musical duration of its
// own: notes, chords, rests and multi-measure rests. Beams are containers;
// their elements are time-bearing individually.
func IsTimeBearing(n Node) bool {
	switch n.Kind() {
	case KindNote, KindChord, KindRest, KindMultiRest:
		return true
	}
	return false
}

// IsBarLine reports whether the node is a bar line of any variant.
func IsBarLine(n Node) bool {
	return n.Kind() == KindBarLine
}

// IsBeam reports whether the node is a beamed group.
func IsBeam(n Node) bool {
	return n.Kind() == KindBeam
}

// IsNoteLike reports whether the node is a note or chord; tuplet time ratios
// apply only to note-like events, not to rests.
func IsNoteLike(n Node) bool {
	return n.Kind() == KindNote || n.Kind() == KindChord
}
