package domain

// Selection is a byte-offset range into an editor buffer. Start <= End
// after Clamp. A collapsed selection (Start == End) is a cursor.
// Selections are local to a session and never persisted.
type Selection struct {
	Start int
	End   int
}

// Cursor returns a collapsed selection at the given offset.
func Cursor(offset int) Selection {
	return Selection{Start: offset, End: offset}
}

// Empty reports whether the selection is collapsed.
func (s Selection) Empty() bool {
	return s.Start == s.End
}

// Len returns the number of bytes covered.
func (s Selection) Len() int {
	return s.End - s.Start
}

// Clamp bounds the selection to [0, length] and orders the endpoints, so
// operations at the extremes of a buffer never index out of range.
func (s Selection) Clamp(length int) Selection {
	if s.Start > s.End {
		s.Start, s.End = s.End, s.Start
	}
	if s.Start < 0 {
		s.Start = 0
	}
	if s.End < 0 {
		s.End = 0
	}
	if s.Start > length {
		s.Start = length
	}
	if s.End > length {
		s.End = length
	}
	return s
}
