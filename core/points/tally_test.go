package points

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTally(t *testing.T) {
	text := "[pts: 2/3 #a] [pts: 1/2 #b] [pts: 0.5/1 #a] [pts: /4] [pts:] [pts: 1]"
	totals := Tally(MustScan(text))

	assert.Equal(t, 6, totals.Annotations)
	assert.Equal(t, 4, totals.Scored)
	assert.Equal(t, 2, totals.Unscored())
	assert.InDelta(t, 4.5, totals.Points, 1e-9)
	assert.InDelta(t, 10, totals.MaxPoints, 1e-9)
	assert.Equal(t, []ItemTotal{
		{Identifier: "a", Points: 2.5, MaxPoints: 4, Count: 2},
		{Identifier: "b", Points: 1, MaxPoints: 2, Count: 1},
	}, totals.Items)

	pct, ok := totals.Percent()
	assert.True(t, ok)
	assert.InDelta(t, 45, pct, 1e-9)
}

func TestTally_empty(t *testing.T) {
	totals := Tally(nil)
	assert.Equal(t, 0, totals.Annotations)
	assert.NotNil(t, totals.Items)
	_, ok := totals.Percent()
	assert.False(t, ok)
}

func TestDefaultScale(t *testing.T) {
	tests := []struct {
		name  string
		total float64
		want  []float64
	}{
		{name: "quarter steps", total: 1, want: []float64{0, .25, .5, .75, 1}},
		{name: "quarter steps up to five", total: 3, want: []float64{0, .25, .5, .75, 1, 1.25, 1.5, 1.75, 2, 2.25, 2.5, 2.75, 3}},
		{name: "half steps", total: 10, want: []float64{0, .5, 1, 1.5, 2, 2.5, 3, 3.5, 4, 4.5, 5, 5.5, 6, 6.5, 7, 7.5, 8, 8.5, 9, 9.5, 10}},
		{name: "unit steps", total: 12, want: []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}},
		{name: "uneven total", total: 7.3, want: []float64{0, .5, 1, 1.5, 2, 2.5, 3, 3.5, 4, 4.5, 5, 5.5, 6, 6.5, 7.3}},
		{name: "steps of five", total: 30, want: []float64{0, 5, 10, 15, 20, 25, 30}},
		{name: "zero", total: 0, want: []float64{0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultScale(tt.total))
		})
	}
}
