package abcfmt

import "strings"

// VoiceKind classifies the lines of a multi-voice system.
type VoiceKind uint8

const (
	// VoiceFormatted is a music line that computes its own time positions.
	VoiceFormatted VoiceKind = iota
	// VoiceSymbols is a lyric (w:) or symbol (s:) line whose positions are
	// derived from a parent voice's alignment points.
	VoiceSymbols
	// VoiceRaw is a passthrough line the formatter leaves untouched.
	VoiceRaw
)

type (
	// VoiceLine is one rendered line of a system: a mutable ordered sequence
	// of nodes. The aligner owns the line exclusively during a run and
	// splices padding spaces into Nodes in place.
	VoiceLine struct {
		Kind   VoiceKind
		Label  string // voice name from the V: field, empty when unlabeled
		Parent int    // for VoiceSymbols, index of the parent line in the system
		Nodes  []Node
	}

	// System is one multi-voice group of consecutive lines that are rendered
	// against a shared musical timeline and aligned as a unit.
	System struct {
		Lines []*VoiceLine
	}

	// Tune is one tune of an ABC file: the raw header lines plus the body
	// grouped into systems. Header interpretation keeps only what alignment
	// needs: the default note length and whether the meter is compound.
	Tune struct {
		Header        []string
		Systems       []*System
		DefaultLength Frac
		Compound      bool
	}
)

// Render reproduces the line's current text.
func (v *VoiceLine) Render() string {
	return RenderAll(v.Nodes)
}

// Copy returns a clone that stays intact when the original is aligned: the
// node sequence and the beam groups the aligner may splice into are
// duplicated, all other nodes are shared. Callers use it to fall back to the
// unaligned line when alignment fails midway.
func (v *VoiceLine) Copy() *VoiceLine {
	c := *v
	c.Nodes = make([]Node, len(v.Nodes))
	for i, n := range v.Nodes {
		if b, ok := n.(*Beam); ok {
			elems := make([]Node, len(b.Elems))
			copy(elems, b.Elems)
			c.Nodes[i] = &Beam{Meta: b.Meta, Elems: elems}
			continue
		}
		c.Nodes[i] = n
	}
	return &c
}

// Render reproduces the tune, header lines first, one line per voice line.
func (t *Tune) Render() string {
	var sb strings.Builder
	for _, h := range t.Header {
		sb.WriteString(h)
		sb.WriteByte('\n')
	}
	for _, sys := range t.Systems {
		for _, v := range sys.Lines {
			sb.WriteString(v.Render())
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// MultiVoice reports whether the system has anything to align: at least two
// lines that participate in the shared timeline.
func (s *System) MultiVoice() bool {
	count := 0
	for _, v := range s.Lines {
		if v.Kind != VoiceRaw {
			count++
		}
	}
	return count >= 2
}
