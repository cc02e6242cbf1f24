package services

import "testing"

// The (i + 2*j) % 7 group assignment formula is a mathematical invariant,
// not a property of any particular shuffle: for a fixed region index i, its
// 3 teams (j = 0,1,2) land in groups i, i+2, i+4 (mod 7), which are always
// pairwise distinct, and for a fixed target group every contributing region
// index is likewise distinct. So no group can ever receive two teams from
// the same region regardless of how regionOrder/teamOrder are permuted
// (spec §4.4, §8).
func TestGroupAssignmentFormulaNeverCollidesWithinARegion(t *testing.T) {
	for i := 0; i < clRegionCount; i++ {
		seenGroups := make(map[int]bool, clTeamsPerRegion)
		for j := 0; j < clTeamsPerRegion; j++ {
			g := (i + 2*j) % clRegionCount
			if seenGroups[g] {
				t.Fatalf("region %d sends two teams to group %d", i, g)
			}
			seenGroups[g] = true
		}
	}
}

func TestGroupAssignmentFormulaFillsEveryGroupWithDistinctRegions(t *testing.T) {
	contributingRegion := make(map[int]map[int]bool, clRegionCount) // group -> set of region indices
	for g := 0; g < clRegionCount; g++ {
		contributingRegion[g] = make(map[int]bool)
	}
	for i := 0; i < clRegionCount; i++ {
		for j := 0; j < clTeamsPerRegion; j++ {
			g := (i + 2*j) % clRegionCount
			if contributingRegion[g][i] {
				t.Fatalf("group %d receives region %d twice", g, i)
			}
			contributingRegion[g][i] = true
		}
	}
	for g := 0; g < clRegionCount; g++ {
		if len(contributingRegion[g]) != clTeamsPerRegion {
			t.Fatalf("group %d has %d distinct contributing regions, want %d", g, len(contributingRegion[g]), clTeamsPerRegion)
		}
	}
}

// groupRotation must produce exactly 6 fixtures covering every unordered
// pair within a 3-team group exactly twice (home and away), matchdays 1..6.
func TestGroupRotationCoversEveryPairTwice(t *testing.T) {
	if len(groupRotation) != 6 {
		t.Fatalf("expected 6 rotation entries, got %d", len(groupRotation))
	}
	seen := make(map[[2]int]int)
	matchdays := make(map[int]bool)
	for _, r := range groupRotation {
		key := [2]int{r.home, r.away}
		seen[key]++
		matchdays[r.matchday] = true
	}
	if len(matchdays) != 6 {
		t.Fatalf("expected 6 distinct matchdays, got %d", len(matchdays))
	}
	pairs := [][2]int{{0, 1}, {1, 0}, {0, 2}, {2, 0}, {1, 2}, {2, 1}}
	for _, p := range pairs {
		if seen[p] != 1 {
			t.Fatalf("ordered pair %v appears %d times, want exactly 1", p, seen[p])
		}
	}
}
