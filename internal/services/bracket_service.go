// internal/services/bracket_service.go
// Bracket Engine (spec §4.5, C5). Grounded on
// original_source/backend/app/services/scheduler_service.py::
// generate_cl_knockout_bracket, generate_cup_draw,
// advance_bracket_winner/_advance_single_leg/_advance_two_legged/
// _fill_parent_slot, _next_power_of_2, _bracket_pos_to_stage, and
// advance_cl_knockout. Binary-heap bracket_position arithmetic throughout:
// position p's parent is p/2, children are 2p and 2p+1; p even feeds the
// parent's home slot, p odd feeds its away slot.
package services

import (
	"context"
	"database/sql"
	"log"
	"math/bits"
	"sort"
	"time"

	"tourney-engine/internal/apperr"
	"tourney-engine/internal/drawrand"
	"tourney-engine/internal/models"
	"tourney-engine/internal/repositories"
)

// BracketService lays out and advances knockout brackets for both the
// champions-league national competition and the single-elimination cup.
type BracketService struct {
	repos        *repositories.Container
	standings    *StandingsService
	rand         *drawrand.Source
	analytics    *AnalyticsService
	notification *NotificationService
	logger       *log.Logger
}

// NewBracketService creates a new bracket service.
func NewBracketService(repos *repositories.Container, standings *StandingsService, rand *drawrand.Source, analytics *AnalyticsService, notification *NotificationService, logger *log.Logger) *BracketService {
	return &BracketService{repos: repos, standings: standings, rand: rand, analytics: analytics, notification: notification, logger: logger}
}

// --- 4.5.1 CL knockout bracket ---

// GenerateCLKnockoutBracket emits the Final (single-leg placeholder), the
// two SF ties (two-legged placeholders) and the four QF ties (two-legged,
// with the supplied pairings) for the national competition (spec §4.5.1).
func (s *BracketService) GenerateCLKnockoutBracket(ctx context.Context, competitionID int64, teamPairs [4][2]int64, startDate time.Time, intervalDays int) error {
	comp, err := s.repos.Competition.GetByID(ctx, competitionID)
	if err != nil {
		return err
	}

	exists, err := s.repos.Match.ExistsAny(ctx, repositories.ListFilter{CompetitionID: competitionID, Stage: models.StageQuarterFinal})
	if err != nil {
		return err
	}
	if exists {
		return apperr.New(apperr.InvariantConflict, "knockout bracket already generated for this competition")
	}

	tx, err := s.repos.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	createSingle := func(pos int, stage models.MatchStage, date time.Time) error {
		m := &models.Match{
			CompetitionID:   competitionID,
			SeasonID:        comp.SeasonID,
			MatchDate:       &date,
			Status:          models.MatchScheduled,
			Stage:           stage,
			BracketPosition: &pos,
			CreatedAt:       now,
		}
		_, err := s.repos.Match.CreateWithTx(ctx, tx, m)
		return err
	}
	createLeg := func(pos, leg int, stage models.MatchStage, home, away *int64, date time.Time) error {
		legVal := leg
		m := &models.Match{
			CompetitionID:   competitionID,
			SeasonID:        comp.SeasonID,
			HomeTeamID:      home,
			AwayTeamID:      away,
			MatchDate:       &date,
			Status:          models.MatchScheduled,
			Stage:           stage,
			BracketPosition: &pos,
			Leg:             &legVal,
			CreatedAt:       now,
		}
		_, err := s.repos.Match.CreateWithTx(ctx, tx, m)
		return err
	}

	// Final — position 1, single-leg placeholder.
	finalDate := startDate.AddDate(0, 0, 4*intervalDays)
	if err := createSingle(1, models.StageFinal, finalDate); err != nil {
		return err
	}

	// Semi-finals — positions 2 and 3, two-legged placeholders.
	sfLeg1Date := startDate.AddDate(0, 0, intervalDays)
	sfLeg2Date := sfLeg1Date.AddDate(0, 0, 7)
	for _, pos := range []int{2, 3} {
		if err := createLeg(pos, 1, models.StageSemiFinal, nil, nil, sfLeg1Date); err != nil {
			return err
		}
		if err := createLeg(pos, 2, models.StageSemiFinal, nil, nil, sfLeg2Date); err != nil {
			return err
		}
	}

	// Quarter-finals — positions 4..7, two-legged with supplied pairings.
	qfLeg2Date := startDate.AddDate(0, 0, 7)
	for i, pair := range teamPairs {
		pos := 4 + i
		a, b := pair[0], pair[1]
		if err := createLeg(pos, 1, models.StageQuarterFinal, &a, &b, startDate); err != nil {
			return err
		}
		if err := createLeg(pos, 2, models.StageQuarterFinal, &b, &a, qfLeg2Date); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.analytics.LogEvent(ctx, "bracket_generated", map[string]interface{}{
		"competition_id": competitionID,
		"format":         "cl_knockout",
	})
	s.notification.NotifyFixturesGenerated(competitionID, 8)
	return nil
}

// --- 4.5.2 Single-elimination cup with byes ---

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// bracketDepth returns floor(log2(p)) for p >= 1.
func bracketDepth(p int) int {
	return bits.Len(uint(p)) - 1
}

func bracketStageForDepth(depth int) models.MatchStage {
	switch depth {
	case 0:
		return models.StageFinal
	case 1:
		return models.StageSemiFinal
	case 2:
		return models.StageQuarterFinal
	case 3:
		return models.StageRoundOf16
	case 4:
		return models.StageRound3
	case 5:
		return models.StageRound2
	default:
		return models.StageRound1
	}
}

// GenerateCupDraw builds a single-elimination bracket for the cup
// competition, padding to the next power of two with byes (spec §4.5.2).
func (s *BracketService) GenerateCupDraw(ctx context.Context, competitionID int64, startDate time.Time, intervalDays int) error {
	comp, err := s.repos.Competition.GetByID(ctx, competitionID)
	if err != nil {
		return err
	}

	exists, err := s.repos.Match.ExistsAny(ctx, repositories.ListFilter{CompetitionID: competitionID, BracketPosIsNotNull: true})
	if err != nil {
		return err
	}
	if exists {
		return apperr.New(apperr.InvariantConflict, "cup bracket already generated for this competition")
	}

	teams, err := s.repos.Team.ListByCompetition(ctx, competitionID)
	if err != nil {
		return err
	}
	n := len(teams)
	if n < 2 {
		return apperr.New(apperr.InvariantConflict, "cup draw requires at least 2 teams")
	}

	bracketSize := nextPowerOfTwo(n)
	numByes := bracketSize - n
	numRounds := bracketDepth(bracketSize)
	leafStart := bracketSize / 2

	order := s.rand.Perm(n)
	shuffled := make([]*models.Team, n)
	for i, idx := range order {
		shuffled[i] = teams[idx]
	}
	byeTeams := shuffled[:numByes]
	pairTeams := shuffled[numByes:]

	tx, err := s.repos.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC()

	// Inner placeholder matches, positions 1..leafStart-1.
	for pos := 1; pos < leafStart; pos++ {
		depth := bracketDepth(pos)
		roundNumber := numRounds - depth
		date := startDate.AddDate(0, 0, (roundNumber-1)*intervalDays)
		m := &models.Match{
			CompetitionID:   competitionID,
			SeasonID:        comp.SeasonID,
			MatchDate:       &date,
			Status:          models.MatchScheduled,
			Stage:           bracketStageForDepth(depth),
			BracketPosition: &pos,
			RoundNumber:     &roundNumber,
			CreatedAt:       now,
		}
		if _, err := s.repos.Match.CreateWithTx(ctx, tx, m); err != nil {
			return err
		}
	}

	// Bye teams fill directly into their parent inner match slot.
	for i, team := range byeTeams {
		leafPosition := leafStart + i
		parentPos := leafPosition / 2
		home := leafPosition%2 == 0
		if err := s.fillParentSlotWithTx(ctx, tx, competitionID, comp.SeasonID, parentPos, home, team.ID); err != nil {
			return err
		}
	}

	// Remaining leaf positions host real first-round matches.
	roundNumber := numRounds - bracketDepth(leafStart)
	for i := 0; i*2 < len(pairTeams); i++ {
		leafPosition := leafStart + numByes + i
		home := pairTeams[2*i].ID
		away := pairTeams[2*i+1].ID
		m := &models.Match{
			CompetitionID:   competitionID,
			SeasonID:        comp.SeasonID,
			HomeTeamID:      &home,
			AwayTeamID:      &away,
			MatchDate:       &startDate,
			Status:          models.MatchScheduled,
			Stage:           models.StageRound1,
			BracketPosition: &leafPosition,
			RoundNumber:     &roundNumber,
			CreatedAt:       now,
		}
		if _, err := s.repos.Match.CreateWithTx(ctx, tx, m); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.analytics.LogEvent(ctx, "bracket_generated", map[string]interface{}{
		"competition_id": competitionID,
		"format":         "cup",
		"bracket_size":   bracketSize,
		"num_byes":       numByes,
	})
	s.notification.NotifyFixturesGenerated(competitionID, n)
	return nil
}

// GetBracket returns every match carrying a bracket_position for a
// competition, ordered by position (spec §6's GET .../bracket).
func (s *BracketService) GetBracket(ctx context.Context, competitionID int64) ([]*models.Match, error) {
	matches, err := s.repos.Match.List(ctx, repositories.ListFilter{CompetitionID: competitionID, BracketPosIsNotNull: true})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(matches, func(i, j int) bool {
		pi, pj := *matches[i].BracketPosition, *matches[j].BracketPosition
		if pi != pj {
			return pi < pj
		}
		return derefInt(matches[i].Leg) < derefInt(matches[j].Leg)
	})
	return matches, nil
}

// ResetBracket deletes every bracket-position match for a competition,
// rejecting if any of them has already been CONFIRMED (spec §6).
func (s *BracketService) ResetBracket(ctx context.Context, competitionID int64) error {
	matches, err := s.repos.Match.List(ctx, repositories.ListFilter{CompetitionID: competitionID, BracketPosIsNotNull: true})
	if err != nil {
		return err
	}
	for _, m := range matches {
		if m.Status == models.MatchConfirmed {
			return apperr.New(apperr.InvariantConflict, "cannot reset a bracket with confirmed results")
		}
	}

	tx, err := s.repos.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.repos.Match.DeleteBracketWithTx(ctx, tx, competitionID); err != nil {
		return err
	}
	return tx.Commit()
}

// --- 4.5.3 Parent-slot filling ---

func singleLegWinner(m *models.Match) (int64, bool) {
	if m.HomeScore == nil || m.AwayScore == nil {
		return 0, false
	}
	switch {
	case *m.HomeScore > *m.AwayScore:
		return *m.HomeTeamID, true
	case *m.AwayScore > *m.HomeScore:
		return *m.AwayTeamID, true
	case m.PenaltyWinnerID != nil:
		return *m.PenaltyWinnerID, true
	default:
		return 0, false
	}
}

// AdvanceBracketWinner is invoked on every confirmation of a bracket match
// (spec §4.5.3). It must run within the same transaction as the triggering
// confirmation, observing the just-committed status of that match.
func (s *BracketService) AdvanceBracketWinner(ctx context.Context, tx *sql.Tx, m *models.Match) error {
	if m.BracketPosition == nil || *m.BracketPosition == 1 {
		return nil
	}
	pos := *m.BracketPosition
	parentPos := pos / 2
	home := pos%2 == 0

	if m.Leg == nil {
		winner, ok := singleLegWinner(m)
		if !ok {
			return nil
		}
		return s.fillParentSlotWithTx(ctx, tx, m.CompetitionID, m.SeasonID, parentPos, home, winner)
	}

	otherLeg := 2
	if *m.Leg == 2 {
		otherLeg = 1
	}
	siblings, err := s.repos.Match.ListWithTx(ctx, tx, repositories.ListFilter{
		CompetitionID:   m.CompetitionID,
		SeasonID:        m.SeasonID,
		HasBracketPos:   true,
		BracketPosition: pos,
		HasLeg:          true,
		Leg:             otherLeg,
	})
	if err != nil {
		return err
	}
	if len(siblings) == 0 || siblings[0].Status != models.MatchConfirmed {
		return nil // wait for the other leg
	}
	other := siblings[0]

	var leg1, leg2 *models.Match
	if *m.Leg == 1 {
		leg1, leg2 = m, other
	} else {
		leg1, leg2 = other, m
	}
	if leg1.HomeScore == nil || leg1.AwayScore == nil || leg2.HomeScore == nil || leg2.AwayScore == nil {
		return nil
	}

	teamA := *leg1.HomeTeamID
	teamB := *leg1.AwayTeamID
	aggA := *leg1.HomeScore + *leg2.AwayScore
	aggB := *leg1.AwayScore + *leg2.HomeScore

	var winner int64
	switch {
	case aggA > aggB:
		winner = teamA
	case aggB > aggA:
		winner = teamB
	default:
		awayA := *leg2.AwayScore
		awayB := *leg1.AwayScore
		switch {
		case awayA > awayB:
			winner = teamA
		case awayB > awayA:
			winner = teamB
		default:
			return nil // aggregate and away goals both tied: leave parent empty
		}
	}
	return s.fillParentSlotWithTx(ctx, tx, m.CompetitionID, m.SeasonID, parentPos, home, winner)
}

// fillParentSlotWithTx writes a winner into the parent position's home or
// away slot, handling both single-leg (final) and two-legged parents.
func (s *BracketService) fillParentSlotWithTx(ctx context.Context, tx *sql.Tx, competitionID, seasonID int64, parentPos int, home bool, teamID int64) error {
	parentMatches, err := s.repos.Match.ListWithTx(ctx, tx, repositories.ListFilter{
		CompetitionID:   competitionID,
		SeasonID:        seasonID,
		HasBracketPos:   true,
		BracketPosition: parentPos,
	})
	if err != nil {
		return err
	}
	if len(parentMatches) == 0 {
		return apperr.Newf(apperr.InvariantConflict, "no match found at bracket position %d", parentPos)
	}

	if len(parentMatches) == 1 && parentMatches[0].Leg == nil {
		return s.repos.Match.FillSlotWithTx(ctx, tx, parentMatches[0].ID, home, teamID)
	}

	var leg1ID, leg2ID int64
	for _, pm := range parentMatches {
		if pm.Leg == nil {
			continue
		}
		if *pm.Leg == 1 {
			leg1ID = pm.ID
		} else if *pm.Leg == 2 {
			leg2ID = pm.ID
		}
	}
	// home of leg 1 = away of leg 2 = winner (winner feeds the tie's home
	// slot); symmetric for the away slot.
	if home {
		if err := s.repos.Match.FillSlotWithTx(ctx, tx, leg1ID, true, teamID); err != nil {
			return err
		}
		return s.repos.Match.FillSlotWithTx(ctx, tx, leg2ID, false, teamID)
	}
	if err := s.repos.Match.FillSlotWithTx(ctx, tx, leg1ID, false, teamID); err != nil {
		return err
	}
	return s.repos.Match.FillSlotWithTx(ctx, tx, leg2ID, true, teamID)
}

// --- 4.5.4 CL knockout advancement from groups ---

// QualifiedTeamGroup pairs a qualified team with its group, used both for
// seeding and for reporting.
type QualifiedTeamGroup struct {
	TeamID int64
	Group  string
}

func byOverallDesc(rows []*models.Standing) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		if rows[i].GoalDifference != rows[j].GoalDifference {
			return rows[i].GoalDifference > rows[j].GoalDifference
		}
		return rows[i].GoalsFor > rows[j].GoalsFor
	})
}

// AdvanceCLKnockout sorts each of the 7 groups, collects the 7 winners and
// the single best runner-up, then draws quarter-final pairings seeding the
// top 4 winners against the remaining 3 winners plus the best runner-up,
// avoiding same-group opponents where possible (spec §4.5.4).
func (s *BracketService) AdvanceCLKnockout(ctx context.Context, competitionID, seasonID int64) ([]int64, [4][2]int64, error) {
	var pairs [4][2]int64

	allStandings, err := s.standings.ListStandings(ctx, competitionID, seasonID, "")
	if err != nil {
		return nil, pairs, err
	}
	matches, err := s.standings.LoadConfirmedMatches(ctx, competitionID, seasonID)
	if err != nil {
		return nil, pairs, err
	}

	byGroup := make(map[string][]*models.Standing)
	for _, st := range allStandings {
		if st.GroupName == nil {
			continue
		}
		byGroup[*st.GroupName] = append(byGroup[*st.GroupName], st)
	}

	var winners, runnersUp []*models.Standing
	groups := make([]string, 0, len(byGroup))
	for g := range byGroup {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	for _, g := range groups {
		sorted := SortStandings(byGroup[g], matches)
		if len(sorted) > 0 {
			winners = append(winners, sorted[0])
		}
		if len(sorted) > 1 {
			runnersUp = append(runnersUp, sorted[1])
		}
	}
	if len(winners) != clRegionCount {
		return nil, pairs, apperr.Newf(apperr.InvariantConflict, "expected %d group winners, got %d", clRegionCount, len(winners))
	}

	byOverallDesc(winners)
	byOverallDesc(runnersUp)
	bestRunnerUp := runnersUp[0]

	seeded := make([]QualifiedTeamGroup, 4)
	for i, w := range winners[:4] {
		seeded[i] = QualifiedTeamGroup{TeamID: w.TeamID, Group: *w.GroupName}
	}
	unseeded := make([]QualifiedTeamGroup, 4)
	for i, w := range winners[4:7] {
		unseeded[i] = QualifiedTeamGroup{TeamID: w.TeamID, Group: *w.GroupName}
	}
	unseeded[3] = QualifiedTeamGroup{TeamID: bestRunnerUp.TeamID, Group: *bestRunnerUp.GroupName}

	used := make([]bool, len(unseeded))
	opp := make([]int, len(seeded))
	for i, seed := range seeded {
		chosen := -1
		for j, u := range unseeded {
			if used[j] {
				continue
			}
			if u.Group != seed.Group {
				chosen = j
				break
			}
		}
		if chosen == -1 {
			for j := range unseeded {
				if !used[j] {
					chosen = j
					break
				}
			}
		}
		used[chosen] = true
		opp[i] = chosen
		pairs[i] = [2]int64{seed.TeamID, unseeded[chosen].TeamID}
	}
	// A greedy pass can leave a later seed facing its own group; swap
	// opponents with another pair when that clears the clash for both.
	for i := range seeded {
		if unseeded[opp[i]].Group != seeded[i].Group {
			continue
		}
		for k := range seeded {
			if k != i && unseeded[opp[k]].Group != seeded[i].Group && unseeded[opp[i]].Group != seeded[k].Group {
				opp[i], opp[k] = opp[k], opp[i]
				pairs[i][1], pairs[k][1] = unseeded[opp[i]].TeamID, unseeded[opp[k]].TeamID
				break
			}
		}
	}

	qualified := make([]int64, 0, 8)
	for _, w := range winners {
		qualified = append(qualified, w.TeamID)
	}
	qualified = append(qualified, bestRunnerUp.TeamID)

	return qualified, pairs, nil
}
