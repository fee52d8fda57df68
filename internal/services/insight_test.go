package services

import (
	"math"
	"testing"
)

func TestResolveInsightBoundaries(t *testing.T) {
	cases := []struct {
		nps  float64
		want string
	}{
		{-100, "Critical Customer Experience Issues"},
		{-0.01, "Critical Customer Experience Issues"},
		{0, "Room for Significant Improvement"},
		{20, "Room for Significant Improvement"},
		{29.99, "Room for Significant Improvement"},
		{30, "Solid Customer Satisfaction"},
		{49.99, "Solid Customer Satisfaction"},
		{50, "Outstanding Customer Loyalty"},
		{69.99, "Outstanding Customer Loyalty"},
		{70, "World-Class Customer Experience"},
		{100, "World-Class Customer Experience"},
	}
	for _, c := range cases {
		if got := ResolveInsight(c.nps).Interpretation; got != c.want {
			t.Fatalf("ResolveInsight(%v)=%q, want %q", c.nps, got, c.want)
		}
	}
}

func TestResolveInsightExhaustive(t *testing.T) {
	table := Insights()
	if len(table) != 5 {
		t.Fatalf("expected 5 bands, got %d", len(table))
	}
	for i := -10000; i <= 10000; i++ {
		v := float64(i) / 100
		got := ResolveInsight(v)
		matches := 0
		for _, in := range table {
			if in.Key == got.Key {
				matches++
			}
		}
		if matches != 1 {
			t.Fatalf("ResolveInsight(%v) matched %d bands", v, matches)
		}
		if len(got.Recommendations) != 4 {
			t.Fatalf("ResolveInsight(%v) has %d recommendations", v, len(got.Recommendations))
		}
	}
}

func TestResolveInsightReturnsCopy(t *testing.T) {
	in := ResolveInsight(10)
	in.Recommendations[0] = "changed"
	if ResolveInsight(10).Recommendations[0] == "changed" {
		t.Fatalf("mutating a resolved insight leaked into the table")
	}
}

func TestResolveInsightNaN(t *testing.T) {
	if got := ResolveInsight(math.NaN()).Key; got != "world_class" {
		t.Fatalf("NaN resolved to %q", got)
	}
}
