package generator

import (
	"sort"
	"testing"
)

func TestSequenceRange(t *testing.T) {
	g := NewSeeded(1)
	seq := g.Sequence(200, 4)
	if len(seq) != 200 {
		t.Fatalf("expected 200 symbols, got %d", len(seq))
	}
	counts := map[int]int{}
	for _, s := range seq {
		if s < 0 || s > 3 {
			t.Fatalf("symbol out of range: %d", s)
		}
		counts[s]++
	}
	if len(counts) != 4 {
		t.Fatalf("expected all 4 symbols to appear, got %v", counts)
	}
}

func TestDeckHoldsEachSymbolTwice(t *testing.T) {
	g := NewSeeded(7)
	deck := g.Deck(18)
	if len(deck) != 36 {
		t.Fatalf("expected 36 cards, got %d", len(deck))
	}
	sorted := append([]int(nil), deck...)
	sort.Ints(sorted)
	for i := 0; i < 18; i++ {
		if sorted[2*i] != i || sorted[2*i+1] != i {
			t.Fatalf("symbol %d not present exactly twice: %v", i, sorted)
		}
	}
}

func TestDeckShuffleIsUnbiased(t *testing.T) {
	g := NewSeeded(42)
	const runs = 6000
	firstPos := map[int]int{}
	for i := 0; i < runs; i++ {
		deck := g.Deck(3)
		firstPos[deck[0]]++
	}
	for sym := 0; sym < 3; sym++ {
		share := float64(firstPos[sym]) / runs
		if share < 0.28 || share > 0.39 {
			t.Fatalf("symbol %d leads %.3f of decks", sym, share)
		}
	}
}

func TestTargetsDistinct(t *testing.T) {
	g := NewSeeded(3)
	for i := 0; i < 100; i++ {
		targets := g.Targets(8, 9)
		if len(targets) != 8 {
			t.Fatalf("expected 8 targets, got %d", len(targets))
		}
		seen := map[int]bool{}
		for _, c := range targets {
			if c < 0 || c >= 9 {
				t.Fatalf("cell out of range: %d", c)
			}
			if seen[c] {
				t.Fatalf("duplicate target %d in %v", c, targets)
			}
			seen[c] = true
		}
	}
	if got := g.Targets(5, 3); len(got) != 3 {
		t.Fatalf("expected count capped at 3, got %d", len(got))
	}
}
