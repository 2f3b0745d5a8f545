package align_test

import (
	"os"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/AntoineBalaine/abcfmt"
	"github.com/AntoineBalaine/abcfmt/align"
	"github.com/AntoineBalaine/abcfmt/parser"
)

// alignSource parses a one-tune source, aligns its multi-voice systems and
// returns the rendered result.
func alignSource(t *testing.T, src string) string {
	t.Helper()
	f := parser.ParseFile(src)
	if len(f.Tunes) != 1 {
		t.Fatalf("got %d tunes, want 1", len(f.Tunes))
	}
	tune := f.Tunes[0]
	opt := align.Options{
		DefaultLength: tune.DefaultLength,
		Compound:      tune.Compound,
		Snapshot:      parser.ZeroLenDurations(tune),
	}
	for _, sys := range tune.Systems {
		if !sys.MultiVoice() {
			continue
		}
		if err := align.System(sys, opt); err != nil {
			t.Fatalf("align: %v", err)
		}
	}
	return f.Render()
}

type alignCase struct {
	Name  string `yaml:"name"`
	Input string `yaml:"input"`
	Want  string `yaml:"want"`
}

func loadCases(t *testing.T) []alignCase {
	t.Helper()
	data, err := os.ReadFile("testdata/align.yml")
	if err != nil {
		t.Fatalf("reading fixtures: %v", err)
	}
	var cases []alignCase
	if err := yaml.Unmarshal(data, &cases); err != nil {
		t.Fatalf("parsing fixtures: %v", err)
	}
	return cases
}

func TestAlignFixtures(t *testing.T) {
	for _, c := range loadCases(t) {
		t.Run(c.Name, func(t *testing.T) {
			got := alignSource(t, c.Input)
			if got != c.Want {
				t.Errorf("aligned output mismatch\ngot:\n%s\nwant:\n%s", got, c.Want)
			}
		})
	}
}

// Aligning already-aligned output must change nothing: every prefix already
// measures at the shared maximum.
func TestAlignIdempotent(t *testing.T) {
	for _, c := range loadCases(t) {
		t.Run(c.Name, func(t *testing.T) {
			once := alignSource(t, c.Input)
			twice := alignSource(t, once)
			if once != twice {
				t.Errorf("second alignment changed the output\nfirst:\n%s\nsecond:\n%s", once, twice)
			}
		})
	}
}

func TestAlignMultiMeasureRest(t *testing.T) {
	src := "X:1\nL:1/4\nK:C\nV:1\nZ4 |\nV:2\nC C C C |C C C C |C C C C |C C C C |\n"
	got := alignSource(t, src)
	// Both closing bar lines land in the same column: the rest's line is
	// stretched across the four bars of the other voice.
	wantRest := "Z4 " + strings.Repeat(" ", 32) + "|"
	want := "X:1\nL:1/4\nK:C\nV:1\n" + wantRest + "\nV:2\nC C C C |C C C C |C C C C |C C C C |\n"
	if got != want {
		t.Errorf("multi-measure rest alignment\ngot:\n%s\nwant:\n%s", got, want)
	}
}

// Voices whose lines end in the same bar without a closing bar line are
// padded to equal total width.
func TestAlignTrailingEqualization(t *testing.T) {
	src := "X:1\nL:1/4\nK:C\nV:1\nC D\nV:2\nE2 F2\n"
	f := parser.ParseFile(src)
	tune := f.Tunes[0]
	sys := tune.Systems[0]
	if err := align.System(sys, align.Options{DefaultLength: tune.DefaultLength}); err != nil {
		t.Fatalf("align: %v", err)
	}
	var widths []int
	for _, v := range sys.Lines {
		if v.Kind == abcfmt.VoiceFormatted {
			widths = append(widths, abcfmt.Width(v.Render()))
		}
	}
	if len(widths) != 2 || widths[0] != widths[1] {
		t.Fatalf("voice widths %v, want two equal widths", widths)
	}
}

// A lyric line without bar lines of its own ends in its parent's last bar;
// trailing equalization pads it to the parent's width.
func TestAlignLyricTrailingPad(t *testing.T) {
	src := "X:1\nL:1/4\nK:C\nV:1\nC D E F |\nw: la la la la\n"
	got := alignSource(t, src)
	want := "X:1\nL:1/4\nK:C\nV:1\n   C  D  E  F |\nw: la la la la \n"
	if got != want {
		t.Errorf("lyric trailing pad\ngot:\n%q\nwant:\n%q", got, want)
	}
}

// A system with a single formatted voice has nothing to align and must come
// out of a full run byte-identical.
func TestAlignSingleVoicePassthrough(t *testing.T) {
	src := "X:1\nL:1/8\nK:D\nA>B (3cde f2 |]\n"
	got := alignSource(t, src)
	if got != src {
		t.Errorf("single-voice tune changed\ngot:\n%s\nwant:\n%s", got, src)
	}
}
