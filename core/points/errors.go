package points

import (
	"fmt"

	"github.com/pkg/errors"
)

type ErrorKind int

const (
	// MalformedAnnotationBody: the bracket body does not follow `value [/ max] [#id]`.
	MalformedAnnotationBody ErrorKind = iota + 1
	// InvalidNumeral: a points or denominator part is present but is not a number.
	InvalidNumeral
	// NonPositiveDenominator: the denominator is present and <= 0.
	NonPositiveDenominator
)

var kindNames = map[ErrorKind]string{
	MalformedAnnotationBody: "malformed_annotation_body",
	InvalidNumeral:          "invalid_numeral",
	NonPositiveDenominator:  "non_positive_denominator",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

func (k ErrorKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ParseError aborts a Scan. It names the bracket body that could not be parsed.
type ParseError struct {
	Kind    ErrorKind
	Body    string // raw body, between "[pts:" and "]"
	Numeral string // offending numeral, InvalidNumeral only
	Offset  int    // where the annotation starts in the scanned text
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case InvalidNumeral:
		return fmt.Sprintf("numeral not understood: '%s' in points spec '%s'", e.Numeral, e.Body)
	case NonPositiveDenominator:
		return fmt.Sprintf("point denominator must be positive: '%s'", e.Body)
	default:
		return fmt.Sprintf("points spec not understood: '%s'", e.Body)
	}
}

// IsKind reports whether err (or its cause) is a *ParseError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var perr *ParseError
	if errors.As(err, &perr) {
		return perr.Kind == kind
	}
	return false
}
