package services

import "testing"

func TestSortStrings(t *testing.T) {
	in := []string{"D", "B", "A", "C"}
	sortStrings(in)
	want := []string{"A", "B", "C", "D"}
	for i := range want {
		if in[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, in)
		}
	}
}

func TestSortStringsEmptyAndSingleton(t *testing.T) {
	empty := []string{}
	sortStrings(empty)
	if len(empty) != 0 {
		t.Fatalf("expected empty slice to remain empty")
	}

	single := []string{"A"}
	sortStrings(single)
	if single[0] != "A" {
		t.Fatalf("expected singleton slice unchanged")
	}
}
