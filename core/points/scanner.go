// Package points reads the `[pts: value/max #id]` annotations graders embed in feedback text.
package points

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// jsSpace matches what a JavaScript `\s` does: NBSP and the other Unicode spaces included.
const jsSpace = `[\s\v\p{Zs}\x{FEFF}\x{2028}\x{2029}]`

var (
	pointsRegex     = regexp.MustCompile(`\[pts:` + jsSpace + `*([^\]]*)\]`)
	pointsBodyRegex = regexp.MustCompile(`^([-0-9.]*)` + jsSpace + `*((?:/` + jsSpace + `*[-0-9.]*)?)` + jsSpace + `*((?:#[a-zA-Z_]\w*)?)` + jsSpace + `*$`)

	// same layout as pointsBodyRegex with any characters allowed in the numerals.
	// a body failing pointsBodyRegex but matching this one has a bad numeral.
	pointsShapeRegex = regexp.MustCompile(`^([^/#\s\v\p{Zs}\x{FEFF}\x{2028}\x{2029}]*)` + jsSpace + `*((?:/` + jsSpace + `*[^/#\s\v\p{Zs}\x{FEFF}\x{2028}\x{2029}]*)?)` + jsSpace + `*((?:#[a-zA-Z_]\w*)?)` + jsSpace + `*$`)
	numeralRegex     = regexp.MustCompile(`^[-0-9.]+$`)
)

// Annotation is one points spec found in a feedback text.
// Offsets are byte offsets; MatchStart+MatchLength never exceeds the text length.
type Annotation struct {
	Points      *float64 `json:"points"`
	MaxPoints   *float64 `json:"max_points"`
	Identifier  string   `json:"identifier,omitempty"` // without the leading "#"
	MatchStart  int      `json:"match_start"`
	MatchLength int      `json:"match_length"`
}

func (a Annotation) End() int { return a.MatchStart + a.MatchLength }

// Tag returns the identifier as written, with its "#" sigil.
func (a Annotation) Tag() string {
	if a.Identifier == "" {
		return ""
	}
	return "#" + a.Identifier
}

// IsScored reports whether the spec carries a points value.
func (a Annotation) IsScored() bool { return a.Points != nil }

// Scan returns the annotations of `text` in occurrence order.
// It fails on the first body it cannot parse and then returns no annotations at all.
func Scan(text string) ([]Annotation, error) {
	matches := pointsRegex.FindAllStringSubmatchIndex(text, -1)
	annotations := make([]Annotation, 0, len(matches))
	for _, m := range matches {
		ann, perr := parseBody(text[m[2]:m[3]])
		if perr != nil {
			perr.Offset = m[0]
			return nil, perr
		}
		ann.MatchStart = m[0]
		ann.MatchLength = m[1] - m[0]
		annotations = append(annotations, ann)
	}
	return annotations, nil
}

// MustScan is like Scan but panics if the text cannot be parsed.
func MustScan(text string) []Annotation {
	annotations, err := Scan(text)
	if err != nil {
		panic(err)
	}
	return annotations
}

func parseBody(body string) (Annotation, *ParseError) {
	match := pointsBodyRegex.FindStringSubmatch(body)
	if match == nil {
		return Annotation{}, classifyBody(body)
	}
	pointsStr, maxPointsStr, identifierStr := match[1], match[2], match[3]

	var ann Annotation
	if pointsStr != "" {
		pts, ok := parseNumeral(pointsStr)
		if !ok {
			return Annotation{}, &ParseError{Kind: InvalidNumeral, Body: body, Numeral: pointsStr}
		}
		ann.Points = &pts
	}

	if maxPointsStr != "" {
		numeral := trimSpace(maxPointsStr[1:]) // drop "/"
		maxPts, ok := parseNumeral(numeral)
		if !ok {
			return Annotation{}, &ParseError{Kind: InvalidNumeral, Body: body, Numeral: numeral}
		}
		if maxPts <= 0 {
			return Annotation{}, &ParseError{Kind: NonPositiveDenominator, Body: body}
		}
		ann.MaxPoints = &maxPts
	}

	if identifierStr != "" {
		ann.Identifier = identifierStr[1:] // drop "#"
	}
	return ann, nil
}

// classifyBody picks the error for a body that does not follow the grammar.
func classifyBody(body string) *ParseError {
	shape := pointsShapeRegex.FindStringSubmatch(body)
	if shape != nil {
		if shape[1] != "" {
			if _, ok := parseNumeral(shape[1]); !ok {
				return &ParseError{Kind: InvalidNumeral, Body: body, Numeral: shape[1]}
			}
		}
		if shape[2] != "" {
			numeral := trimSpace(shape[2][1:])
			if _, ok := parseNumeral(numeral); !ok {
				return &ParseError{Kind: InvalidNumeral, Body: body, Numeral: numeral}
			}
		}
	}
	return &ParseError{Kind: MalformedAnnotationBody, Body: body}
}

func trimSpace(s string) string {
	return strings.TrimFunc(s, func(r rune) bool { return unicode.IsSpace(r) || r == '\uFEFF' })
}

// parseNumeral accepts plain decimal numerals only ("5", "-1.5", ".5").
func parseNumeral(s string) (float64, bool) {
	if !numeralRegex.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
