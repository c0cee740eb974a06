package main

import (
	"fmt"
	"strconv"

	"github.com/trezcool/masomo/core/feedback"
	"github.com/trezcool/masomo/core/points"
)

func (cli *commandLine) check(text string, pointValue *float64) error {
	a, err := feedback.Assess(text, pointValue)
	if err != nil {
		return err
	}

	for i, ann := range a.Annotations {
		fmt.Fprintf(cli.out, "%d. @%d+%d: %s\n", i+1, ann.MatchStart, ann.MatchLength, formatAnnotation(ann))
	}
	t := a.Totals
	fmt.Fprintf(cli.out, "total: %s/%s points (%d specs, %d scored)\n",
		formatNum(t.Points), formatNum(t.MaxPoints), t.Annotations, t.Scored)
	for _, item := range t.Items {
		fmt.Fprintf(cli.out, "  #%s: %s/%s (%d)\n", item.Identifier, formatNum(item.Points), formatNum(item.MaxPoints), item.Count)
	}
	if a.SuggestedPoints != nil {
		fmt.Fprintf(cli.out, "suggested grade: %s points", formatNum(*a.SuggestedPoints))
		if a.SuggestedPercent != nil {
			fmt.Fprintf(cli.out, " (%.1f%%)", *a.SuggestedPercent)
		}
		fmt.Fprintln(cli.out)
	}
	return nil
}

func formatAnnotation(ann points.Annotation) string {
	s := "-"
	if ann.IsScored() {
		s = formatNum(*ann.Points)
	}
	if ann.MaxPoints != nil {
		s += "/" + formatNum(*ann.MaxPoints)
	}
	if tag := ann.Tag(); tag != "" {
		s += " " + tag
	}
	return s
}

func formatNum(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
