package abcfmt

import (
	"strings"

	"github.com/rivo/uniseg"
)

// Render returns the exact textual form of a node, reflecting its current
// state. Rendering has no side effects; the aligner calls it repeatedly on
// partially padded sequences to measure prefixes.
func Render(n Node) string {
	var sb strings.Builder
	n.render(&sb)
	return sb.String()
}

// RenderAll renders a slice of nodes back to back.
func RenderAll(nodes []Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		n.render(&sb)
	}
	return sb.String()
}

// Width returns the number of terminal columns the string occupies. Lyric
// syllables can contain multi-byte runes, so padding arithmetic counts
// columns rather than bytes.
func Width(s string) int {
	return uniseg.StringWidth(s)
}
