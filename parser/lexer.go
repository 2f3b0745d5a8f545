package parser

import (
	"strconv"
	"strings"

	"github.com/AntoineBalaine/abcfmt"
)

// idGen allocates stable node identities within one tune.
type idGen struct {
	next abcfmt.NodeID
}

func (g *idGen) meta() abcfmt.Meta {
	g.next++
	return abcfmt.Meta{ID: g.next}
}

// shorthand decorations that attach to the following note.
const decoChars = ".~HLMOPRSTuv"

func isNoteLetter(c byte) bool {
	return (c >= 'a' && c <= 'g') || (c >= 'A' && c <= 'G')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// musicLine tokenizes one line of tune body music into nodes and groups
// adjacent glyphs written without whitespace into beam groups.
func musicLine(line string, gen *idGen) []abcfmt.Node {
	var out []abcfmt.Node
	i := 0
	for i < len(line) {
		c := line[i]
		switch {
		case c == ' ' || c == '\t':
			j := i
			for j < len(line) && (line[j] == ' ' || line[j] == '\t') {
				j++
			}
			out = append(out, &abcfmt.Space{Meta: gen.meta(), Cols: j - i})
			i = j
		case c == '%':
			out = append(out, &abcfmt.Raw{Meta: gen.meta(), Lit: line[i:]})
			i = len(line)
		case c == '"':
			j := strings.IndexByte(line[i+1:], '"')
			if j < 0 {
				out = append(out, &abcfmt.Raw{Meta: gen.meta(), Lit: line[i:]})
				i = len(line)
				break
			}
			end := i + 1 + j + 1
			out = append(out, &abcfmt.Annotation{Meta: gen.meta(), Lit: line[i:end]})
			i = end
		case c == '!':
			j := strings.IndexByte(line[i+1:], '!')
			if j < 0 {
				out = append(out, &abcfmt.Raw{Meta: gen.meta(), Lit: line[i:]})
				i = len(line)
				break
			}
			end := i + 1 + j + 1
			out = append(out, &abcfmt.Deco{Meta: gen.meta(), Lit: line[i:end]})
			i = end
		case c == '{':
			n, next := scanGrace(line, i, gen)
			out = append(out, n)
			i = next
		case c == '[':
			n, next := scanBracket(line, i, gen)
			out = append(out, n)
			i = next
		case c == '|' || c == ':':
			if lit, ok := scanBarline(line, i); ok {
				out = append(out, &abcfmt.BarLine{Meta: gen.meta(), Lit: lit})
				i += len(lit)
			} else {
				out = append(out, &abcfmt.Raw{Meta: gen.meta(), Lit: line[i : i+1]})
				i++
			}
		case c == '(':
			if i+1 < len(line) && isDigit(line[i+1]) {
				n, next := scanTuplet(line, i, gen)
				out = append(out, n)
				i = next
			} else {
				out = append(out, &abcfmt.Slur{Meta: gen.meta(), Lit: "("})
				i++
			}
		case c == ')':
			out = append(out, &abcfmt.Slur{Meta: gen.meta(), Lit: ")"})
			i++
		case c == 'z' || c == 'x':
			r, next := scanRhythm(line, i+1)
			out = append(out, &abcfmt.Rest{Meta: gen.meta(), Lit: string(c), Rhythm: r})
			i = next
		case c == 'Z' || c == 'X':
			j := i + 1
			for j < len(line) && isDigit(line[j]) {
				j++
			}
			count := 1
			if j > i+1 {
				count, _ = strconv.Atoi(line[i+1 : j])
			}
			out = append(out, &abcfmt.MultiRest{Meta: gen.meta(), Lit: line[i:j], Count: count})
			i = j
		case isNoteLetter(c) || c == '^' || c == '_' || c == '=':
			if n, next, ok := scanNote(line, i, gen); ok {
				out = append(out, n)
				i = next
			} else {
				out = append(out, &abcfmt.Raw{Meta: gen.meta(), Lit: line[i : i+1]})
				i++
			}
		case strings.IndexByte(decoChars, c) >= 0:
			out = append(out, &abcfmt.Deco{Meta: gen.meta(), Lit: line[i : i+1]})
			i++
		default:
			out = append(out, &abcfmt.Raw{Meta: gen.meta(), Lit: line[i : i+1]})
			i++
		}
	}
	return groupBeams(out, gen)
}

// scanNote reads accidental, note letter, octave marks, rhythm and tie.
func scanNote(line string, i int, gen *idGen) (abcfmt.Node, int, bool) {
	start := i
	acc := ""
	switch line[i] {
	case '^', '_':
		j := i + 1
		if j < len(line) && line[j] == line[i] {
			j++
		}
		acc = line[i:j]
		i = j
	case '=':
		acc = "="
		i++
	}
	if i >= len(line) || !isNoteLetter(line[i]) {
		return nil, start, false
	}
	letter := line[i : i+1]
	i++
	j := i
	for j < len(line) && (line[j] == '\'' || line[j] == ',') {
		j++
	}
	octave := line[i:j]
	r, next := scanRhythm(line, j)
	tie := false
	if next < len(line) && line[next] == '-' {
		tie = true
		next++
	}
	return &abcfmt.Note{Meta: gen.meta(), Acc: acc, Letter: letter, Octave: octave, Rhythm: r, Tie: tie}, next, true
}

// scanRhythm reads the duration multiplier written after a note, chord or
// rest: digits, an optional slash-separated denominator, or a run of slashes
// that halves the length once per slash. A literal numerator of 0 is the
// zero-length marker; its real duration comes from a semantic snapshot.
func scanRhythm(line string, i int) (abcfmt.Rhythm, int) {
	start := i
	num, den := 1, 1
	zero := false
	j := i
	for j < len(line) && isDigit(line[j]) {
		j++
	}
	if j > i {
		num, _ = strconv.Atoi(line[i:j])
		if num == 0 {
			zero = true
		}
	}
	i = j
	if i < len(line) && line[i] == '/' {
		slashes := 0
		for i < len(line) && line[i] == '/' {
			slashes++
			i++
		}
		j = i
		for j < len(line) && isDigit(line[j]) {
			j++
		}
		if j > i && slashes == 1 {
			den, _ = strconv.Atoi(line[i:j])
			i = j
		} else {
			den = 1 << slashes
		}
	}
	broken := ""
	j = i
	for j < len(line) && (line[j] == '>' || line[j] == '<') {
		j++
	}
	if j > i && (strings.Count(line[i:j], ">") == j-i || strings.Count(line[i:j], "<") == j-i) {
		broken = line[i:j]
		i = j
	}
	lit := line[start : i-len(broken)]
	mult := abcfmt.NewFrac(num, den)
	if zero {
		mult = abcfmt.Frac{Num: 0, Den: 1}
	}
	return abcfmt.Rhythm{Lit: lit, Mult: mult, ZeroLen: zero, Broken: broken}, i
}

// scanBracket handles the three '['-led constructs: inline fields [K:G],
// numbered or thick bar lines [1 and [|, and chords [CEG].
func scanBracket(line string, i int, gen *idGen) (abcfmt.Node, int) {
	if i+2 < len(line) && isFieldLetter(line[i+1]) && line[i+2] == ':' {
		if j := strings.IndexByte(line[i:], ']'); j >= 0 {
			end := i + j + 1
			return &abcfmt.InlineField{Meta: gen.meta(), Lit: line[i:end]}, end
		}
	}
	if lit, ok := scanBarline(line, i); ok {
		return &abcfmt.BarLine{Meta: gen.meta(), Lit: lit}, i + len(lit)
	}
	return scanChord(line, i, gen)
}

func isFieldLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// scanBarline matches the bar line variants the tune body allows: |, ||, |],
// |:, :|, ::, [|, [|:, :|] and the numbered repeat forms |1, :|2, [1.
func scanBarline(line string, i int) (string, bool) {
	rest := line[i:]
	prefixes := []string{"[|:", ":|]", "[|", "|]", "||", "|:", ":|", "::", "|"}
	for _, p := range prefixes {
		if strings.HasPrefix(rest, p) {
			j := i + len(p)
			for j < len(line) && isDigit(line[j]) {
				j++
			}
			return line[i:j], true
		}
	}
	if strings.HasPrefix(rest, "[") && len(rest) > 1 && isDigit(rest[1]) {
		j := i + 1
		for j < len(line) && isDigit(line[j]) {
			j++
		}
		return line[i:j], true
	}
	return "", false
}

// scanTuplet reads a (p:q:r marker; q and r stay 0 when not written.
func scanTuplet(line string, i int, gen *idGen) (abcfmt.Node, int) {
	start := i
	i++ // '('
	read := func() int {
		j := i
		for j < len(line) && isDigit(line[j]) {
			j++
		}
		if j == i {
			return 0
		}
		v, _ := strconv.Atoi(line[i:j])
		i = j
		return v
	}
	p := read()
	q, r := 0, 0
	if i < len(line) && line[i] == ':' {
		i++
		q = read()
	}
	if i < len(line) && line[i] == ':' {
		i++
		r = read()
	}
	return &abcfmt.Tuplet{Meta: gen.meta(), Lit: line[start:i], P: p, Q: q, R: r}, i
}

// scanChord reads a bracketed chord with a chord-level rhythm and tie. Inner
// notes keep their own identities but the chord is one time-bearing event.
func scanChord(line string, i int, gen *idGen) (abcfmt.Node, int) {
	meta := gen.meta()
	start := i
	i++ // '['
	var inner []abcfmt.Node
	for i < len(line) && line[i] != ']' {
		if n, next, ok := scanNote(line, i, gen); ok {
			inner = append(inner, n)
			i = next
			continue
		}
		inner = append(inner, &abcfmt.Raw{Meta: gen.meta(), Lit: line[i : i+1]})
		i++
	}
	if i >= len(line) {
		return &abcfmt.Raw{Meta: meta, Lit: line[start:]}, len(line)
	}
	i++ // ']'
	r, next := scanRhythm(line, i)
	tie := false
	if next < len(line) && line[next] == '-' {
		tie = true
		next++
	}
	return &abcfmt.Chord{Meta: meta, Inner: inner, Rhythm: r, Tie: tie}, next
}

// scanGrace reads a {...} grace group; grace notes take no musical time.
func scanGrace(line string, i int, gen *idGen) (abcfmt.Node, int) {
	meta := gen.meta()
	start := i
	i++ // '{'
	slash := false
	if i < len(line) && line[i] == '/' {
		slash = true
		i++
	}
	var inner []abcfmt.Node
	for i < len(line) && line[i] != '}' {
		if n, next, ok := scanNote(line, i, gen); ok {
			inner = append(inner, n)
			i = next
			continue
		}
		inner = append(inner, &abcfmt.Raw{Meta: gen.meta(), Lit: line[i : i+1]})
		i++
	}
	if i >= len(line) {
		return &abcfmt.Raw{Meta: meta, Lit: line[start:]}, len(line)
	}
	i++ // '}'
	return &abcfmt.Grace{Meta: meta, Slash: slash, Elems: inner}, i
}

// beamable reports whether a node can be part of a beamed run. Runs are
// broken by whitespace, bar lines, multi-measure rests, inline fields and
// raw text.
func beamable(n abcfmt.Node) bool {
	switch n.Kind() {
	case abcfmt.KindNote, abcfmt.KindChord, abcfmt.KindRest, abcfmt.KindGrace,
		abcfmt.KindTuplet, abcfmt.KindSlur, abcfmt.KindDeco, abcfmt.KindAnnotation:
		return true
	}
	return false
}

// groupBeams wraps each maximal run of beamable nodes containing at least
// two time-bearing elements into a Beam group.
func groupBeams(nodes []abcfmt.Node, gen *idGen) []abcfmt.Node {
	var out []abcfmt.Node
	var run []abcfmt.Node
	flush := func() {
		if len(run) == 0 {
			return
		}
		bearing := 0
		for _, n := range run {
			if abcfmt.IsTimeBearing(n) {
				bearing++
			}
		}
		if bearing >= 2 {
			out = append(out, &abcfmt.Beam{Meta: gen.meta(), Elems: run})
		} else {
			out = append(out, run...)
		}
		run = nil
	}
	for _, n := range nodes {
		if beamable(n) {
			run = append(run, n)
			continue
		}
		flush()
		out = append(out, n)
	}
	flush()
	return out
}

// symbolLine tokenizes a w: or s: line: the header, syllables or symbol
// tokens, * skips, _ holders, hyphen-terminated syllables and bar lines.
func symbolLine(line string, gen *idGen) []abcfmt.Node {
	var out []abcfmt.Node
	out = append(out, &abcfmt.SymbolHeader{Meta: gen.meta(), Lit: line[:2]})
	i := 2
	for i < len(line) {
		c := line[i]
		switch {
		case c == ' ' || c == '\t':
			j := i
			for j < len(line) && (line[j] == ' ' || line[j] == '\t') {
				j++
			}
			out = append(out, &abcfmt.Space{Meta: gen.meta(), Cols: j - i})
			i = j
		case c == '|':
			out = append(out, &abcfmt.BarLine{Meta: gen.meta(), Lit: "|"})
			i++
		case c == '*' || c == '-' || c == '_':
			out = append(out, &abcfmt.SymbolText{Meta: gen.meta(), Text: line[i : i+1]})
			i++
		default:
			j := i
			for j < len(line) && line[j] != ' ' && line[j] != '\t' && line[j] != '|' && line[j] != '*' {
				if line[j] == '-' {
					j++
					break
				}
				j++
			}
			out = append(out, &abcfmt.SymbolText{Meta: gen.meta(), Text: line[i:j]})
			i = j
		}
	}
	return out
}
