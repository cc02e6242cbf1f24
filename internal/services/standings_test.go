package services

import (
	"testing"

	"tourney-engine/internal/models"
)

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func int64Ptr(i int64) *int64 { return &i }

func confirmedMatch(home, away int64, homeScore, awayScore int) *models.Match {
	return &models.Match{
		HomeTeamID: int64Ptr(home),
		AwayTeamID: int64Ptr(away),
		HomeScore:  intPtr(homeScore),
		AwayScore:  intPtr(awayScore),
		Status:     models.MatchConfirmed,
		Stage:      models.StageLeague,
	}
}

func standing(teamID int64, played, won, drawn, lost, gf, ga, points int) *models.Standing {
	return &models.Standing{
		TeamID:         teamID,
		Played:         played,
		Won:            won,
		Drawn:          drawn,
		Lost:           lost,
		GoalsFor:       gf,
		GoalsAgainst:   ga,
		GoalDifference: gf - ga,
		Points:         points,
	}
}

// Four-team double round-robin: A beats B 1-0 in both meetings, loses 0-1 to
// C in both and draws 1-1 with D in both; B draws 1-1 with C twice and beats
// D 1-0 twice; C and D draw 0-0 twice. C tops the table on 10 points. A and B
// both finish on 8 points with goal difference 0 and 4 goals for, so only the
// head-to-head key separates them, and A's two wins over B put A above B. B
// is listed before A so input order alone cannot produce that result;
// expected final order is C, A, B, D.
func TestSortStandingsHeadToHeadTiebreak(t *testing.T) {
	const teamA, teamB, teamC, teamD = int64(1), int64(2), int64(3), int64(4)

	rows := []*models.Standing{
		standing(teamB, 6, 2, 2, 2, 4, 4, 8),
		standing(teamA, 6, 2, 2, 2, 4, 4, 8),
		standing(teamC, 6, 2, 4, 0, 4, 2, 10),
		standing(teamD, 6, 0, 4, 2, 2, 4, 4),
	}

	matches := []*models.Match{
		confirmedMatch(teamA, teamB, 1, 0),
		confirmedMatch(teamB, teamA, 0, 1),
		confirmedMatch(teamA, teamC, 0, 1),
		confirmedMatch(teamC, teamA, 1, 0),
		confirmedMatch(teamA, teamD, 1, 1),
		confirmedMatch(teamD, teamA, 1, 1),
		confirmedMatch(teamB, teamC, 1, 1),
		confirmedMatch(teamC, teamB, 1, 1),
		confirmedMatch(teamB, teamD, 1, 0),
		confirmedMatch(teamD, teamB, 0, 1),
		confirmedMatch(teamC, teamD, 0, 0),
		confirmedMatch(teamD, teamC, 0, 0),
	}

	sorted := SortStandings(rows, matches)

	got := make([]int64, len(sorted))
	for i, s := range sorted {
		got[i] = s.TeamID
	}
	want := []int64{teamC, teamA, teamB, teamD}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestSortStandingsDoesNotMutateInput(t *testing.T) {
	rows := []*models.Standing{
		standing(1, 2, 2, 0, 0, 4, 0, 6),
		standing(2, 2, 0, 0, 2, 0, 4, 0),
	}
	original := append([]*models.Standing(nil), rows...)

	SortStandings(rows, nil)

	for i := range rows {
		if rows[i] != original[i] {
			t.Fatalf("input slice order was mutated")
		}
	}
}

func TestSortStandingsOrdersByPointsThenGoalDifference(t *testing.T) {
	rows := []*models.Standing{
		standing(1, 1, 0, 1, 0, 1, 1, 1),
		standing(2, 3, 1, 0, 2, 10, 2, 3),
		standing(3, 3, 1, 0, 2, 2, 2, 3),
	}

	sorted := SortStandings(rows, nil)
	if sorted[0].TeamID != 2 {
		t.Fatalf("expected team 2 (better goal difference) first, got team %d", sorted[0].TeamID)
	}
	if sorted[2].TeamID != 1 {
		t.Fatalf("expected team 1 (fewest points) last, got team %d", sorted[2].TeamID)
	}
}
