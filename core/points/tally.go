package points

// ItemTotal accumulates the annotations sharing one identifier (rubric item).
type ItemTotal struct {
	Identifier string  `json:"identifier"`
	Points     float64 `json:"points"`
	MaxPoints  float64 `json:"max_points"`
	Count      int     `json:"count"`
}

type Totals struct {
	Points      float64     `json:"points"`     // sum of awarded points
	MaxPoints   float64     `json:"max_points"` // sum of denominators
	Annotations int         `json:"annotations"`
	Scored      int         `json:"scored"` // annotations with awarded points
	Items       []ItemTotal `json:"items"`  // tagged annotations, in first-occurrence order
}

// Percent is 100*Points/MaxPoints; false when no denominator was given.
func (t Totals) Percent() (float64, bool) {
	if t.MaxPoints <= 0 {
		return 0, false
	}
	return 100 * t.Points / t.MaxPoints, true
}

func (t Totals) Unscored() int { return t.Annotations - t.Scored }

func Tally(annotations []Annotation) Totals {
	totals := Totals{Items: make([]ItemTotal, 0)}
	index := make(map[string]int)
	for _, ann := range annotations {
		totals.Annotations++

		var pts, maxPts float64
		if ann.IsScored() {
			pts = *ann.Points
			totals.Scored++
		}
		if ann.MaxPoints != nil {
			maxPts = *ann.MaxPoints
		}
		totals.Points += pts
		totals.MaxPoints += maxPts

		if ann.Identifier == "" {
			continue
		}
		i, ok := index[ann.Identifier]
		if !ok {
			i = len(totals.Items)
			index[ann.Identifier] = i
			totals.Items = append(totals.Items, ItemTotal{Identifier: ann.Identifier})
		}
		totals.Items[i].Points += pts
		totals.Items[i].MaxPoints += maxPts
		totals.Items[i].Count++
	}
	return totals
}
