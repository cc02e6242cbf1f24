package services

import (
	"testing"

	"tourney-engine/internal/models"
)

func TestNextPowerOfTwo(t *testing.T) {
	cases := map[int]int{
		1:  1,
		2:  2,
		3:  4,
		4:  4,
		5:  8,
		16: 16,
		17: 32,
		48: 64,
	}
	for n, want := range cases {
		if got := nextPowerOfTwo(n); got != want {
			t.Errorf("nextPowerOfTwo(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestBracketDepth(t *testing.T) {
	cases := map[int]int{1: 0, 2: 1, 4: 2, 8: 3, 16: 4, 32: 5, 64: 6}
	for p, want := range cases {
		if got := bracketDepth(p); got != want {
			t.Errorf("bracketDepth(%d) = %d, want %d", p, got, want)
		}
	}
}

func TestBracketStageForDepth(t *testing.T) {
	cases := map[int]models.MatchStage{
		0: models.StageFinal,
		1: models.StageSemiFinal,
		2: models.StageQuarterFinal,
		3: models.StageRoundOf16,
		4: models.StageRound3,
		5: models.StageRound2,
		6: models.StageRound1,
	}
	for depth, want := range cases {
		if got := bracketStageForDepth(depth); got != want {
			t.Errorf("bracketStageForDepth(%d) = %q, want %q", depth, got, want)
		}
	}
}

// A 48-team cup draw pads to the next power of two (64), needs 16 byes and
// produces 47 matches total: the 31 inner placeholder ties (positions 1..31)
// plus the 16 real first-round ties among the 32 non-bye teams (spec §8).
func TestCupDrawByeMath(t *testing.T) {
	const n = 48
	bracketSize := nextPowerOfTwo(n)
	if bracketSize != 64 {
		t.Fatalf("expected bracket size 64, got %d", bracketSize)
	}
	numByes := bracketSize - n
	if numByes != 16 {
		t.Fatalf("expected 16 byes, got %d", numByes)
	}
	leafStart := bracketSize / 2
	innerMatches := leafStart - 1
	realFirstRoundMatches := (n - numByes) / 2
	total := innerMatches + realFirstRoundMatches
	if total != 47 {
		t.Fatalf("expected 47 total matches, got %d", total)
	}
}

func TestSingleLegWinner(t *testing.T) {
	home, away := int64(1), int64(2)

	t.Run("home win", func(t *testing.T) {
		m := &models.Match{HomeTeamID: &home, AwayTeamID: &away, HomeScore: intPtr(2), AwayScore: intPtr(1)}
		winner, ok := singleLegWinner(m)
		if !ok || winner != home {
			t.Fatalf("expected home team to win, got %d ok=%v", winner, ok)
		}
	})

	t.Run("away win", func(t *testing.T) {
		m := &models.Match{HomeTeamID: &home, AwayTeamID: &away, HomeScore: intPtr(0), AwayScore: intPtr(3)}
		winner, ok := singleLegWinner(m)
		if !ok || winner != away {
			t.Fatalf("expected away team to win, got %d ok=%v", winner, ok)
		}
	})

	t.Run("draw resolved by penalties", func(t *testing.T) {
		m := &models.Match{HomeTeamID: &home, AwayTeamID: &away, HomeScore: intPtr(1), AwayScore: intPtr(1), PenaltyWinnerID: &away}
		winner, ok := singleLegWinner(m)
		if !ok || winner != away {
			t.Fatalf("expected penalty winner %d, got %d ok=%v", away, winner, ok)
		}
	})

	t.Run("draw with no penalty winner yet", func(t *testing.T) {
		m := &models.Match{HomeTeamID: &home, AwayTeamID: &away, HomeScore: intPtr(1), AwayScore: intPtr(1)}
		_, ok := singleLegWinner(m)
		if ok {
			t.Fatalf("expected no decided winner for an unresolved draw")
		}
	})

	t.Run("no scores yet", func(t *testing.T) {
		m := &models.Match{HomeTeamID: &home, AwayTeamID: &away}
		_, ok := singleLegWinner(m)
		if ok {
			t.Fatalf("expected no winner before scores are recorded")
		}
	})
}

func TestByOverallDesc(t *testing.T) {
	rows := []*models.Standing{
		standing(1, 3, 1, 0, 2, 2, 2, 3),
		standing(2, 3, 1, 0, 2, 10, 2, 3),
		standing(3, 3, 2, 0, 1, 5, 3, 6),
	}
	byOverallDesc(rows)
	if rows[0].TeamID != 3 {
		t.Fatalf("expected highest-points team 3 first, got %d", rows[0].TeamID)
	}
	if rows[1].TeamID != 2 {
		t.Fatalf("expected better goal-difference team 2 second, got %d", rows[1].TeamID)
	}
}
