package services

import "testing"

// circleMethodRounds must produce n-1 rounds for n participants (n even),
// each round a perfect matching, and across all rounds every unordered pair
// appearing exactly once — the structural guarantee a double round-robin
// relies on to reach "every team plays every other team twice" (spec §8).
func TestCircleMethodRoundsCoversEveryPairExactlyOnce(t *testing.T) {
	ids := []int64{1, 2, 3, 4}
	rounds := circleMethodRounds(ids)

	if len(rounds) != len(ids)-1 {
		t.Fatalf("expected %d rounds, got %d", len(ids)-1, len(rounds))
	}

	seen := make(map[[2]int64]int)
	for _, round := range rounds {
		if len(round) != len(ids)/2 {
			t.Fatalf("expected %d pairings per round, got %d", len(ids)/2, len(round))
		}
		appeared := make(map[int64]bool, len(ids))
		for _, p := range round {
			if appeared[p.home] || appeared[p.away] {
				t.Fatalf("team appears twice in the same round: %+v", round)
			}
			appeared[p.home], appeared[p.away] = true, true

			key := [2]int64{p.home, p.away}
			if key[0] > key[1] {
				key[0], key[1] = key[1], key[0]
			}
			seen[key]++
		}
	}

	for a := 0; a < len(ids); a++ {
		for b := a + 1; b < len(ids); b++ {
			key := [2]int64{ids[a], ids[b]}
			if seen[key] != 1 {
				t.Fatalf("pair %v seen %d times, want exactly 1", key, seen[key])
			}
		}
	}
}

func TestCircleMethodRoundsHandlesOddCountWithByePlaceholder(t *testing.T) {
	ids := []int64{1, 2, 3, 0} // 3 teams, id 0 is the bye placeholder
	rounds := circleMethodRounds(ids)

	if len(rounds) != 3 {
		t.Fatalf("expected 3 rounds for 4 slots, got %d", len(rounds))
	}
	for _, round := range rounds {
		byes := 0
		for _, p := range round {
			if p.home == 0 || p.away == 0 {
				byes++
			}
		}
		if byes != 1 {
			t.Fatalf("expected exactly one bye pairing per round, got %d", byes)
		}
	}
}
