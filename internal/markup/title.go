package markup

import "strings"

// DeriveTitle scans content line by line for the first level-1 heading and
// returns its trimmed remainder. The first match wins; the scan stops
// there. ok is false when no level-1 heading exists.
func DeriveTitle(content string) (title string, ok bool) {
	// Equivalent of iterating strings.Lines (Go 1.24+): each line keeps its
	// trailing newline; the last line is yielded even without one.
	for rest := content; rest != ""; {
		var line string
		if i := strings.IndexByte(rest, '\n'); i >= 0 {
			line, rest = rest[:i+1], rest[i+1:]
		} else {
			line, rest = rest, ""
		}
		if after, found := strings.CutPrefix(line, "# "); found {
			return strings.TrimSpace(after), true
		}
	}
	return "", false
}
