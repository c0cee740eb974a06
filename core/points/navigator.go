package points

import (
	"fmt"
	"strings"
)

// Marker opens every points spec.
const Marker = "[pts:"

type Direction int

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// ParseDirection reads "next"/"forward" and "previous"/"prev"/"backward".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "next", "forward":
		return Forward, nil
	case "previous", "prev", "backward":
		return Backward, nil
	default:
		return Forward, fmt.Errorf("unknown direction %q", s)
	}
}

// Next finds the first marker at or after `cursor` and returns the offset right after it.
// When there is none, it returns `cursor` and false.
func Next(text string, cursor int) (int, bool) {
	from := clamp(cursor, len(text))
	idx := strings.Index(text[from:], Marker)
	if idx < 0 {
		return cursor, false
	}
	return from + idx + len(Marker), true
}

// Previous finds the last marker ending at least len(Marker) bytes before `cursor`,
// so the marker the cursor sits right after is skipped, and returns the offset right after it.
// When there is none, it returns `cursor` and false.
func Previous(text string, cursor int) (int, bool) {
	end := clamp(cursor, len(text)) - len(Marker)
	if end < 0 {
		end = 0
	}
	idx := strings.LastIndex(text[:end], Marker)
	if idx < 0 {
		return cursor, false
	}
	return idx + len(Marker), true
}

func Navigate(text string, cursor int, dir Direction) (int, bool) {
	if dir == Backward {
		return Previous(text, cursor)
	}
	return Next(text, cursor)
}

func clamp(cursor, max int) int {
	if cursor < 0 {
		return 0
	}
	if cursor > max {
		return max
	}
	return cursor
}
