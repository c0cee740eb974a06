package points

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fPtr(f float64) *float64 { return &f }

func TestScan(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Annotation
	}{
		{name: "empty text", text: "", want: []Annotation{}},
		{name: "no markers", text: "Nice work, see comments inline.", want: []Annotation{}},
		{name: "unclosed marker", text: "almost [pts: 5", want: []Annotation{}},
		{name: "empty spec", text: "[pts:]", want: []Annotation{{MatchStart: 0, MatchLength: 6}}},
		{name: "blank spec", text: "[pts:   ]", want: []Annotation{{MatchStart: 0, MatchLength: 9}}},
		{
			name: "full spec", text: "[pts: 5/10 #partA]",
			want: []Annotation{{Points: fPtr(5), MaxPoints: fPtr(10), Identifier: "partA", MatchStart: 0, MatchLength: 18}},
		},
		{name: "points only", text: "[pts: 5]", want: []Annotation{{Points: fPtr(5), MatchStart: 0, MatchLength: 8}}},
		{name: "max only", text: "[pts: /10]", want: []Annotation{{MaxPoints: fPtr(10), MatchStart: 0, MatchLength: 10}}},
		{name: "identifier only", text: "[pts: #q1]", want: []Annotation{{Identifier: "q1", MatchStart: 0, MatchLength: 10}}},
		{
			name: "spacing & negatives", text: "[pts:-1.5 / 4 #_x2 ]",
			want: []Annotation{{Points: fPtr(-1.5), MaxPoints: fPtr(4), Identifier: "_x2", MatchStart: 0, MatchLength: 20}},
		},
		{name: "leading dot", text: "[pts: .5]", want: []Annotation{{Points: fPtr(.5), MatchStart: 0, MatchLength: 9}}},
		{
			name: "several in order", text: "Good [pts: 2/3 #a] meh [pts: 1/2 #b]",
			want: []Annotation{
				{Points: fPtr(2), MaxPoints: fPtr(3), Identifier: "a", MatchStart: 5, MatchLength: 13},
				{Points: fPtr(1), MaxPoints: fPtr(2), Identifier: "b", MatchStart: 23, MatchLength: 13},
			},
		},
		{
			name: "multiline body", text: "x [pts: 3\n/4] y",
			want: []Annotation{{Points: fPtr(3), MaxPoints: fPtr(4), MatchStart: 2, MatchLength: 11}},
		},
		{
			name: "nbsp after colon", text: "[pts:\u00a05/10]",
			want: []Annotation{{Points: fPtr(5), MaxPoints: fPtr(10), MatchStart: 0, MatchLength: 12}},
		},
		{
			name: "nbsp before slash", text: "[pts: 5\u00a0/10]",
			want: []Annotation{{Points: fPtr(5), MaxPoints: fPtr(10), MatchStart: 0, MatchLength: 13}},
		},
		{
			name: "trailing vertical tab", text: "[pts: 5/10\v]",
			want: []Annotation{{Points: fPtr(5), MaxPoints: fPtr(10), MatchStart: 0, MatchLength: 12}},
		},
		{
			name: "unicode spaces around max", text: "[pts: 1/\u20034\ufeff#q\u2028]",
			want: []Annotation{{Points: fPtr(1), MaxPoints: fPtr(4), Identifier: "q", MatchStart: 0, MatchLength: 21}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Scan(tt.text)
			if err != nil {
				t.Fatalf("Scan() unexpected error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Scan() = %+v, want %+v", got, tt.want)
			}
			for _, ann := range got {
				if ann.End() > len(tt.text) {
					t.Errorf("Scan() annotation ends at %d past text length %d", ann.End(), len(tt.text))
				}
				if tt.text[ann.MatchStart] != '[' || tt.text[ann.End()-1] != ']' {
					t.Errorf("Scan() match %q does not bracket the annotation", tt.text[ann.MatchStart:ann.End()])
				}
			}
		})
	}
}

func TestScan_errors(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantKind    ErrorKind
		wantBody    string
		wantNumeral string
		wantOffset  int
	}{
		{name: "zero denominator", text: "[pts: 5/0]", wantKind: NonPositiveDenominator, wantBody: "5/0"},
		{name: "negative denominator", text: "[pts: 5/-1]", wantKind: NonPositiveDenominator, wantBody: "5/-1"},
		{name: "word as points", text: "[pts: abc]", wantKind: InvalidNumeral, wantBody: "abc", wantNumeral: "abc"},
		{name: "two dots", text: "[pts: 1.2.3]", wantKind: InvalidNumeral, wantBody: "1.2.3", wantNumeral: "1.2.3"},
		{name: "lone minus", text: "[pts: -]", wantKind: InvalidNumeral, wantBody: "-", wantNumeral: "-"},
		{name: "empty denominator", text: "[pts: 5/]", wantKind: InvalidNumeral, wantBody: "5/", wantNumeral: ""},
		{name: "word as denominator", text: "[pts: 5/x #a]", wantKind: InvalidNumeral, wantBody: "5/x #a", wantNumeral: "x"},
		{name: "nbsp before bad denominator", text: "[pts: 5/\u00a0x]", wantKind: InvalidNumeral, wantBody: "5/\u00a0x", wantNumeral: "x"},
		{name: "exponent", text: "[pts: 1e5]", wantKind: InvalidNumeral, wantBody: "1e5", wantNumeral: "1e5"},
		{name: "trailing words", text: "[pts: 5 / 10 extra words]", wantKind: MalformedAnnotationBody, wantBody: "5 / 10 extra words"},
		{name: "bad identifier", text: "[pts: #1abc]", wantKind: MalformedAnnotationBody, wantBody: "#1abc"},
		{name: "fails after a good one", text: "[pts: 1] [pts: 5/0]", wantKind: NonPositiveDenominator, wantBody: "5/0", wantOffset: 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Scan(tt.text)
			if got != nil {
				t.Errorf("Scan() returned partial results %+v", got)
			}
			perr, ok := err.(*ParseError)
			require.True(t, ok, "Scan() error = %v, want *ParseError", err)
			assert.Equal(t, tt.wantKind, perr.Kind)
			assert.Equal(t, tt.wantBody, perr.Body)
			assert.Equal(t, tt.wantNumeral, perr.Numeral)
			assert.Equal(t, tt.wantOffset, perr.Offset)
			assert.True(t, IsKind(err, tt.wantKind))
		})
	}
}

func TestParseError_Error(t *testing.T) {
	_, err := Scan("[pts: 5 / 10 extra words]")
	assert.EqualError(t, err, "points spec not understood: '5 / 10 extra words'")

	_, err = Scan("see [pts: 3/0]")
	assert.EqualError(t, err, "point denominator must be positive: '3/0'")

	_, err = Scan("[pts: abc]")
	assert.EqualError(t, err, "numeral not understood: 'abc' in points spec 'abc'")
}

func TestScan_idempotent(t *testing.T) {
	text := "Intro [pts: 1/2 #intro]\nBody [pts: 3.5/5 #body] [pts:] end [pts: /1]"
	first, err := Scan(text)
	require.NoError(t, err)
	second, err := Scan(text)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, first, 4)
}

func TestAnnotation_identifierSigil(t *testing.T) {
	ann := MustScan("[pts: 5/10 #partA]")[0]
	assert.Equal(t, "partA", ann.Identifier)
	assert.Equal(t, "#partA", ann.Tag())

	untagged := MustScan("[pts: 5/10]")[0]
	assert.Equal(t, "", untagged.Identifier)
	assert.Equal(t, "", untagged.Tag())
}

func TestAnnotation_IsScored(t *testing.T) {
	anns := MustScan("[pts: 0/2] [pts: /2] [pts: #q]")
	assert.True(t, anns[0].IsScored())
	assert.False(t, anns[1].IsScored())
	assert.False(t, anns[2].IsScored())
}

func TestMustScan_panics(t *testing.T) {
	assert.Panics(t, func() { MustScan("[pts: 5/0]") })
}
