// Package markup provides pure text operations on markdown buffers:
// formatting commands used by the editor toolbar/keymap, title derivation,
// and plain-text description generation for list views.
//
// Every function is copy-on-write: the input buffer is never mutated, so
// concurrent sessions can format independent buffers without interference.
package markup

import (
	"strings"

	"github.com/threalwinky/mown/internal/core/domain"
)

// Wrap surrounds the selection with before/after markers. With a non-empty
// selection the selected substring is wrapped; with a collapsed cursor the
// placeholder is inserted instead. The returned selection covers exactly
// the inner text, so the UI shows it highlighted for immediate overtype.
// Offsets outside [0, len(buffer)] are clamped, never an error.
func Wrap(buffer string, sel domain.Selection, before, after, placeholder string) (string, domain.Selection) {
	sel = sel.Clamp(len(buffer))

	inner := buffer[sel.Start:sel.End]
	if inner == "" {
		inner = placeholder
	}

	var b strings.Builder
	b.Grow(len(buffer) + len(before) + len(after) + len(inner))
	b.WriteString(buffer[:sel.Start])
	b.WriteString(before)
	b.WriteString(inner)
	b.WriteString(after)
	b.WriteString(buffer[sel.End:])

	start := sel.Start + len(before)
	return b.String(), domain.Selection{Start: start, End: start + len(inner)}
}

// LinePrefix inserts prefix at the start of the line containing the cursor,
// shifting that line right. Other lines are untouched and the cursor moves
// forward by len(prefix).
func LinePrefix(buffer string, cursor int, prefix string) (string, domain.Selection) {
	sel := domain.Cursor(cursor).Clamp(len(buffer))
	cursor = sel.Start

	lineStart := strings.LastIndexByte(buffer[:cursor], '\n') + 1

	var b strings.Builder
	b.Grow(len(buffer) + len(prefix))
	b.WriteString(buffer[:lineStart])
	b.WriteString(prefix)
	b.WriteString(buffer[lineStart:])

	return b.String(), domain.Cursor(cursor + len(prefix))
}

// InsertBlock inserts a block element (code fence, table skeleton, rule) at
// the cursor, padding with newlines so the block sits on its own lines.
// The returned selection covers the inserted block text.
func InsertBlock(buffer string, cursor int, block string) (string, domain.Selection) {
	sel := domain.Cursor(cursor).Clamp(len(buffer))
	cursor = sel.Start

	prefix := ""
	if cursor > 0 && buffer[cursor-1] != '\n' {
		prefix = "\n"
	}
	suffix := ""
	if cursor == len(buffer) || buffer[cursor] != '\n' {
		suffix = "\n"
	}

	var b strings.Builder
	b.Grow(len(buffer) + len(prefix) + len(block) + len(suffix))
	b.WriteString(buffer[:cursor])
	b.WriteString(prefix)
	b.WriteString(block)
	b.WriteString(suffix)
	b.WriteString(buffer[cursor:])

	start := cursor + len(prefix)
	return b.String(), domain.Selection{Start: start, End: start + len(block)}
}
