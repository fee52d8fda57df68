package services

import (
	"errors"
	"testing"

	"github.com/soaringjerry/npspulse/internal/models"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		score int
		want  models.Segment
	}{
		{0, models.Detractor},
		{3, models.Detractor},
		{6, models.Detractor},
		{7, models.Passive},
		{8, models.Passive},
		{9, models.Promoter},
		{10, models.Promoter},
	}
	for _, c := range cases {
		got, err := Classify(c.score)
		if err != nil {
			t.Fatalf("Classify(%d) error: %v", c.score, err)
		}
		if got != c.want {
			t.Fatalf("Classify(%d)=%s, want %s", c.score, got, c.want)
		}
	}
}

func TestClassifyMonotonic(t *testing.T) {
	prev := -1
	for score := MinScore; score <= MaxScore; score++ {
		seg, err := Classify(score)
		if err != nil {
			t.Fatalf("Classify(%d) error: %v", score, err)
		}
		rank := segmentRank(seg)
		if rank < 0 {
			t.Fatalf("Classify(%d) returned unknown segment %q", score, seg)
		}
		if rank < prev {
			t.Fatalf("segment for %d (%s) is less loyal than for %d", score, seg, score-1)
		}
		prev = rank
	}
}

func TestClassifyOutOfRange(t *testing.T) {
	for _, score := range []int{-1, 11, 100} {
		_, err := Classify(score)
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("Classify(%d) err=%v, want invalid input", score, err)
		}
	}
}

func TestParseSegment(t *testing.T) {
	cases := map[string]models.Segment{
		"Promoter":   models.Promoter,
		"Promoters":  models.Promoter,
		" passives ": models.Passive,
		"Detractors": models.Detractor,
	}
	for in, want := range cases {
		got, ok := ParseSegment(in)
		if !ok || got != want {
			t.Fatalf("ParseSegment(%q)=(%s,%v), want %s", in, got, ok, want)
		}
	}
	if _, ok := ParseSegment("fans"); ok {
		t.Fatalf("ParseSegment accepted unknown label")
	}
}

// segmentRank orders segments from least to most loyal.
func segmentRank(s models.Segment) int {
	switch s {
	case models.Detractor:
		return 0
	case models.Passive:
		return 1
	case models.Promoter:
		return 2
	}
	return -1
}
