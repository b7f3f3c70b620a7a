package rng

import (
	"slices"
	"testing"

	"github.com/google/uuid"
)

func TestRNG_Deterministic(t *testing.T) {
	rng1 := New(42)
	rng2 := New(42)

	for i := 0; i < 20; i++ {
		a := rng1.Intn(6)
		b := rng2.Intn(6)
		if a != b {
			t.Fatalf("draw %d: got %d and %d from same seed", i, a, b)
		}
	}
}

func TestRNG_Range(t *testing.T) {
	r := New(99)

	for i := 0; i < 1000; i++ {
		v := r.Range(2, 4)
		if v < 2 || v > 4 {
			t.Fatalf("value out of range [2,4]: got %d", v)
		}
	}
	if v := r.Range(3, 3); v != 3 {
		t.Fatalf("degenerate range should return lo, got %d", v)
	}
}

func TestRNG_Chance_Extremes(t *testing.T) {
	r := New(1)

	for i := 0; i < 100; i++ {
		if r.Chance(0) {
			t.Fatal("Chance(0) should never succeed")
		}
		if !r.Chance(1) {
			t.Fatal("Chance(1) should always succeed")
		}
	}
}

func TestRNG_WeightedSelect_Distribution(t *testing.T) {
	r := New(12345)
	weights := []int{70, 30}
	counts := [2]int{}

	const trials = 10000
	for i := 0; i < trials; i++ {
		idx := r.WeightedSelect(weights)
		if idx < 0 || idx > 1 {
			t.Fatalf("index out of range: %d", idx)
		}
		counts[idx]++
	}

	// With 10k trials, expect roughly 70%/30% ± some margin.
	if counts[0] < 6000 || counts[0] > 8000 {
		t.Errorf("expected ~7000 for weight 70, got %d", counts[0])
	}
}

func TestRNG_WeightedSelect_SingleOption(t *testing.T) {
	r := New(1)

	for i := 0; i < 10; i++ {
		if idx := r.WeightedSelect([]int{100}); idx != 0 {
			t.Fatalf("single option should always be 0, got %d", idx)
		}
	}
}

func TestShuffle_IsPermutation(t *testing.T) {
	r := New(7)
	s := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	Shuffle(r, s)

	sorted := slices.Clone(s)
	slices.Sort(sorted)
	if !slices.Equal(sorted, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}) {
		t.Fatalf("shuffle lost or duplicated elements: %v", s)
	}
}

func TestShuffle_SameSeedSameOrder(t *testing.T) {
	a := []string{"a", "b", "c", "d", "e", "f"}
	b := slices.Clone(a)
	Shuffle(New(5), a)
	Shuffle(New(5), b)
	if !slices.Equal(a, b) {
		t.Fatalf("same seed produced different orders: %v vs %v", a, b)
	}
}

func TestShuffle_Empty(t *testing.T) {
	var s []int
	Shuffle(New(1), s)
	if len(s) != 0 {
		t.Fatalf("expected empty slice, got %v", s)
	}
}

func TestRNG_Position_Tracks(t *testing.T) {
	r := New(42)

	if r.Position() != 0 {
		t.Fatalf("expected position 0, got %d", r.Position())
	}

	r.Float64()
	if r.Position() != 1 {
		t.Fatalf("expected position 1, got %d", r.Position())
	}

	before := r.Position()
	r.Intn(3)
	if r.Position() <= before {
		t.Fatalf("expected position to advance past %d, got %d", before, r.Position())
	}
}

func TestRNG_Restore_MatchesPosition(t *testing.T) {
	// Advance an RNG with a mix of draws and record the next values.
	r := New(42)
	for i := 0; i < 10; i++ {
		r.Intn(7)
	}
	Shuffle(r, []int{1, 2, 3, 4, 5})
	r.NewID()

	pos := r.Position()
	var expected [5]int
	for i := range expected {
		expected[i] = r.Intn(1000)
	}

	restored := Restore(42, pos)
	if restored.Position() != pos {
		t.Fatalf("expected position %d, got %d", pos, restored.Position())
	}

	for i, want := range expected {
		got := restored.Intn(1000)
		if got != want {
			t.Fatalf("draw %d: expected %d, got %d", i, want, got)
		}
	}
}

func TestRNG_NewID_ReproducibleUUID(t *testing.T) {
	a := New(3).NewID()
	b := New(3).NewID()
	if a != b {
		t.Fatalf("same seed produced different ids: %s vs %s", a, b)
	}

	id, err := uuid.Parse(a)
	if err != nil {
		t.Fatalf("NewID returned invalid uuid %q: %v", a, err)
	}
	if id.Version() != 4 {
		t.Errorf("expected version 4 uuid, got %d", id.Version())
	}

	r := New(3)
	if r.NewID() == r.NewID() {
		t.Error("consecutive ids should differ")
	}
}

func TestRNG_DifferentSeeds_DifferentResults(t *testing.T) {
	rng1 := New(1)
	rng2 := New(2)

	differs := false
	for i := 0; i < 20; i++ {
		if rng1.Intn(100) != rng2.Intn(100) {
			differs = true
			break
		}
	}
	if !differs {
		t.Error("expected different seeds to produce different results")
	}
}
