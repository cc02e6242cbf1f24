// internal/services/scheduler_service.go
// Round-Robin Scheduler (spec §4.3, C3). Grounded on
// original_source/backend/app/services/scheduler_service.py::generate_round_robin:
// circle-method double round-robin with bye padding, travel-cost same-county
// round reordering via a stable sort, two-pass home/away emission. Replaces
// the teacher's naive all-pairs loop in tournament_service.go (there marked
// "TODO: optimize match order").
package services

import (
	"context"
	"log"
	"sort"
	"time"

	"tourney-engine/internal/apperr"
	"tourney-engine/internal/models"
	"tourney-engine/internal/repositories"
)

// SchedulerService generates league fixtures for REGIONAL/COUNTY competitions.
type SchedulerService struct {
	repos        *repositories.Container
	analytics    *AnalyticsService
	notification *NotificationService
	logger       *log.Logger
}

// NewSchedulerService creates a new scheduler service.
func NewSchedulerService(repos *repositories.Container, analytics *AnalyticsService, notification *NotificationService, logger *log.Logger) *SchedulerService {
	return &SchedulerService{repos: repos, analytics: analytics, notification: notification, logger: logger}
}

type pairing struct {
	home, away int64 // 0 means bye
}

// circleMethodRounds builds n2-1 rounds for n2 (even, possibly bye-padded)
// participant IDs using the standard circle method: anchor index 0, rotate
// the rest. Bye participants are represented by id 0.
func circleMethodRounds(ids []int64) [][]pairing {
	n2 := len(ids)
	arr := make([]int64, n2)
	copy(arr, ids)

	rounds := make([][]pairing, 0, n2-1)
	for round := 0; round < n2-1; round++ {
		pairs := make([]pairing, 0, n2/2)
		for i := 0; i < n2/2; i++ {
			pairs = append(pairs, pairing{home: arr[i], away: arr[n2-1-i]})
		}
		rounds = append(rounds, pairs)

		// Rotate: keep arr[0] fixed, shift the rest by one position.
		last := arr[n2-1]
		for i := n2 - 1; i > 1; i-- {
			arr[i] = arr[i-1]
		}
		arr[1] = last
	}
	return rounds
}

// GenerateRoundRobin produces a full double round-robin for a REGIONAL or
// COUNTY competition (spec §4.3).
func (s *SchedulerService) GenerateRoundRobin(ctx context.Context, competitionID int64, startDate time.Time, intervalDays int) error {
	comp, err := s.repos.Competition.GetByID(ctx, competitionID)
	if err != nil {
		return err
	}
	if comp.Type != models.CompetitionRegional && comp.Type != models.CompetitionCounty {
		return apperr.Newf(apperr.InvariantConflict, "competition type %s does not support league play", comp.Type)
	}

	teams, err := s.repos.Team.ListByCompetition(ctx, competitionID)
	if err != nil {
		return err
	}
	if len(teams) < 2 {
		return apperr.New(apperr.InvariantConflict, "round-robin requires at least 2 teams")
	}

	exists, err := s.repos.Match.ExistsAny(ctx, repositories.ListFilter{CompetitionID: competitionID, Stage: models.StageLeague})
	if err != nil {
		return err
	}
	if exists {
		return apperr.New(apperr.InvariantConflict, "league fixtures already generated for this competition")
	}

	ids := make([]int64, len(teams))
	countyOf := make(map[int64]int64, len(teams))
	for i, t := range teams {
		ids[i] = t.ID
		countyOf[t.ID] = t.CountyID
	}
	if len(ids)%2 == 1 {
		ids = append(ids, 0) // bye placeholder
	}

	rounds := circleMethodRounds(ids)

	// Travel-cost reordering: score each round by its same-county pairing
	// count, sort rounds descending (stable) so local derbies cluster early.
	scores := make([]int, len(rounds))
	for i, round := range rounds {
		score := 0
		for _, p := range round {
			if p.home == 0 || p.away == 0 {
				continue
			}
			if countyOf[p.home] == countyOf[p.away] {
				score++
			}
		}
		scores[i] = score
	}
	order := make([]int, len(rounds))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return scores[order[i]] > scores[order[j]] })

	tx, err := s.repos.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	numRounds := len(rounds)
	now := time.Now().UTC()

	emit := func(matchday int, home, away int64) error {
		date := startDate.AddDate(0, 0, (matchday-1)*intervalDays)
		m := &models.Match{
			CompetitionID: competitionID,
			SeasonID:      comp.SeasonID,
			HomeTeamID:    &home,
			AwayTeamID:    &away,
			MatchDate:     &date,
			Status:        models.MatchScheduled,
			Matchday:      &matchday,
			Stage:         models.StageLeague,
			CreatedAt:     now,
		}
		_, err := s.repos.Match.CreateWithTx(ctx, tx, m)
		return err
	}

	// Pass A: original (home, away), matchdays 1..numRounds.
	for i, roundIdx := range order {
		matchday := i + 1
		for _, p := range rounds[roundIdx] {
			if p.home == 0 || p.away == 0 {
				continue
			}
			if err := emit(matchday, p.home, p.away); err != nil {
				return err
			}
		}
	}
	// Pass B: swapped (home, away), matchdays numRounds+1..2*numRounds.
	for i, roundIdx := range order {
		matchday := numRounds + i + 1
		for _, p := range rounds[roundIdx] {
			if p.home == 0 || p.away == 0 {
				continue
			}
			if err := emit(matchday, p.away, p.home); err != nil {
				return err
			}
		}
	}

	for _, t := range teams {
		if err := s.repos.Standing.CreateZeroedWithTx(ctx, tx, t.ID, competitionID, comp.SeasonID, nil); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.analytics.LogEvent(ctx, "fixtures_generated", map[string]interface{}{
		"competition_id": competitionID,
		"team_count":     len(teams),
		"matchdays":      2 * numRounds,
	})
	s.notification.NotifyFixturesGenerated(competitionID, len(teams))
	return nil
}
