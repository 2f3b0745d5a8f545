// Package parser turns ABC notation source into the syntax tree the aligner
// and renderer work on. It covers the tune body subset the formatter needs;
// header lines and anything it does not recognize pass through verbatim, so
// rendering a parsed file reproduces the input.
package parser

import (
	"strconv"
	"strings"

	"github.com/AntoineBalaine/abcfmt"
)

// File is a parsed ABC file: any free text before the first tune, then the
// tunes in order. Rendering the file reproduces the source text modulo the
// padding later inserted by the aligner.
type File struct {
	Preamble []string
	Tunes    []*abcfmt.Tune
}

func (f *File) Render() string {
	var sb strings.Builder
	for _, l := range f.Preamble {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
	for _, t := range f.Tunes {
		sb.WriteString(t.Render())
	}
	return sb.String()
}

// ParseFile splits the source into tunes at X: field lines and parses each.
func ParseFile(src string) *File {
	lines := splitLines(src)
	f := &File{}
	i := 0
	for i < len(lines) && !isTuneStart(lines[i]) {
		f.Preamble = append(f.Preamble, lines[i])
		i++
	}
	for i < len(lines) {
		j := i + 1
		for j < len(lines) && !isTuneStart(lines[j]) {
			j++
		}
		f.Tunes = append(f.Tunes, ParseTune(lines[i:j]))
		i = j
	}
	return f
}

func isTuneStart(line string) bool {
	return strings.HasPrefix(line, "X:")
}

func splitLines(src string) []string {
	src = strings.TrimSuffix(src, "\n")
	if src == "" {
		return nil
	}
	lines := strings.Split(src, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// ParseTune parses one tune: raw header lines up to and including the K:
// field, then the body grouped into multi-voice systems.
func ParseTune(lines []string) *abcfmt.Tune {
	t := &abcfmt.Tune{}
	gen := &idGen{}
	body := 0
	for body < len(lines) {
		l := lines[body]
		t.Header = append(t.Header, l)
		body++
		if strings.HasPrefix(l, "K:") {
			break
		}
		if !isHeaderLine(l) {
			// Headerless fragment; keep everything before this line as
			// header and reparse it as body.
			t.Header = t.Header[:len(t.Header)-1]
			body--
			break
		}
	}
	t.DefaultLength, t.Compound = interpretHeader(t.Header)
	parseBody(t, lines[body:], gen)
	return t
}

func isHeaderLine(l string) bool {
	if l == "" {
		return false
	}
	if strings.HasPrefix(l, "%") {
		return true
	}
	return len(l) >= 2 && isFieldLetter(l[0]) && l[1] == ':'
}

// interpretHeader extracts what alignment needs from the header: the default
// note length from L:, falling back to the meter rule (below 3/4 the default
// is a sixteenth, otherwise an eighth), and whether the meter is compound.
func interpretHeader(header []string) (abcfmt.Frac, bool) {
	var meter abcfmt.Frac
	var length abcfmt.Frac
	compound := false
	for _, l := range header {
		switch {
		case strings.HasPrefix(l, "L:"):
			if f, ok := parseFrac(strings.TrimSpace(l[2:])); ok {
				length = f
			}
		case strings.HasPrefix(l, "M:"):
			m := strings.TrimSpace(l[2:])
			switch m {
			case "C":
				meter = abcfmt.NewFrac(4, 4)
			case "C|":
				meter = abcfmt.NewFrac(2, 2)
			default:
				if f, ok := parseFrac(m); ok {
					meter = f
					if num, _, found := strings.Cut(m, "/"); found {
						if n, err := strconv.Atoi(num); err == nil {
							compound = n >= 6 && n%3 == 0
						}
					}
				}
			}
		}
	}
	if length.IsZero() || length.IsInf() {
		length = abcfmt.NewFrac(1, 8)
		if !meter.IsInf() && !meter.IsZero() && abcfmt.NewFrac(3, 4).Greater(meter) {
			length = abcfmt.NewFrac(1, 16)
		}
	}
	return length, compound
}

func parseFrac(s string) (abcfmt.Frac, bool) {
	num, den, found := strings.Cut(s, "/")
	if !found {
		return abcfmt.Frac{}, false
	}
	n, err1 := strconv.Atoi(strings.TrimSpace(num))
	d, err2 := strconv.Atoi(strings.TrimSpace(den))
	if err1 != nil || err2 != nil || d == 0 {
		return abcfmt.Frac{}, false
	}
	return abcfmt.NewFrac(n, d), true
}

// parseBody classifies body lines and groups them into systems: a system is
// a maximal run of consecutive lines in which no voice label repeats. Lyric
// and symbol lines attach to the nearest preceding music line; blank lines
// and comments end the current system.
func parseBody(t *abcfmt.Tune, lines []string, gen *idGen) {
	var sys *abcfmt.System
	label := ""
	seen := map[string]bool{}
	lastMusic := -1

	open := func() *abcfmt.System {
		if sys == nil {
			sys = &abcfmt.System{}
			seen = map[string]bool{}
			lastMusic = -1
		}
		return sys
	}
	flush := func() {
		if sys != nil {
			t.Systems = append(t.Systems, sys)
			sys = nil
		}
	}
	rawLine := func(l string) *abcfmt.VoiceLine {
		return &abcfmt.VoiceLine{Kind: abcfmt.VoiceRaw, Nodes: []abcfmt.Node{&abcfmt.Raw{Meta: gen.meta(), Lit: l}}}
	}

	for _, l := range lines {
		switch {
		case l == "" || strings.HasPrefix(l, "%"):
			flush()
			t.Systems = append(t.Systems, &abcfmt.System{Lines: []*abcfmt.VoiceLine{rawLine(l)}})
		case strings.HasPrefix(l, "V:"):
			if fields := strings.Fields(l[2:]); len(fields) > 0 {
				label = fields[0]
			}
			s := open()
			s.Lines = append(s.Lines, rawLine(l))
		case strings.HasPrefix(l, "w:") || strings.HasPrefix(l, "s:"):
			s := open()
			if lastMusic < 0 {
				s.Lines = append(s.Lines, rawLine(l))
				break
			}
			s.Lines = append(s.Lines, &abcfmt.VoiceLine{
				Kind:   abcfmt.VoiceSymbols,
				Parent: lastMusic,
				Nodes:  symbolLine(l, gen),
			})
		case isHeaderLine(l):
			// Mid-tune information field; passes through.
			s := open()
			s.Lines = append(s.Lines, rawLine(l))
		default:
			lineLabel := label
			if inline, ok := inlineVoiceLabel(l); ok {
				lineLabel = inline
			}
			if seen[lineLabel] {
				flush()
			}
			s := open()
			seen[lineLabel] = true
			lastMusic = len(s.Lines)
			s.Lines = append(s.Lines, &abcfmt.VoiceLine{
				Kind:  abcfmt.VoiceFormatted,
				Label: lineLabel,
				Nodes: musicLine(l, gen),
			})
		}
	}
	flush()
}

// inlineVoiceLabel detects a leading [V:...] marker on a music line.
func inlineVoiceLabel(l string) (string, bool) {
	if !strings.HasPrefix(l, "[V:") {
		return "", false
	}
	end := strings.IndexByte(l, ']')
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(l[3:end]), true
}

// ZeroLenDurations builds the duration snapshot for tunes that use the
// zero-length rhythm shortcut: each zero-length node is assigned a
// quarter-note equivalent, expressed as a multiplier of the tune's default
// length.
func ZeroLenDurations(t *abcfmt.Tune) map[abcfmt.NodeID]abcfmt.Frac {
	var snap map[abcfmt.NodeID]abcfmt.Frac
	quarter := abcfmt.NewFrac(t.DefaultLength.Den, 4*t.DefaultLength.Num)
	var walk func(nodes []abcfmt.Node)
	walk = func(nodes []abcfmt.Node) {
		for _, n := range nodes {
			switch v := n.(type) {
			case *abcfmt.Note:
				if v.Rhythm.ZeroLen {
					if snap == nil {
						snap = make(map[abcfmt.NodeID]abcfmt.Frac)
					}
					snap[v.Identity()] = quarter
				}
			case *abcfmt.Chord:
				if v.Rhythm.ZeroLen {
					if snap == nil {
						snap = make(map[abcfmt.NodeID]abcfmt.Frac)
					}
					snap[v.Identity()] = quarter
				}
			case *abcfmt.Beam:
				walk(v.Elems)
			}
		}
	}
	for _, sys := range t.Systems {
		for _, v := range sys.Lines {
			if v.Kind == abcfmt.VoiceFormatted {
				walk(v.Nodes)
			}
		}
	}
	return snap
}
