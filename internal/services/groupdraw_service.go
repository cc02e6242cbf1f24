// internal/services/groupdraw_service.go
// Group Draw Engine (spec §4.4, C4). Grounded on
// original_source/backend/app/services/scheduler_service.py::generate_cl_groups:
// 7-region partition, (i + 2j) mod 7 group assignment so no group ever
// collides two teams from the same region, fixed 6-match rotation per group.
package services

import (
	"context"
	"log"
	"sort"
	"time"

	"tourney-engine/internal/apperr"
	"tourney-engine/internal/drawrand"
	"tourney-engine/internal/models"
	"tourney-engine/internal/repositories"
)

const (
	clRegionCount    = 7
	clTeamsPerRegion = 3
)

var groupRotation = []struct{ home, away, matchday int }{
	{0, 1, 1},
	{2, 0, 2},
	{1, 2, 3},
	{1, 0, 4},
	{0, 2, 5},
	{2, 1, 6},
}

// GroupDrawService assigns teams into region-exclusive CL groups.
type GroupDrawService struct {
	repos        *repositories.Container
	rand         *drawrand.Source
	analytics    *AnalyticsService
	notification *NotificationService
	logger       *log.Logger
}

// NewGroupDrawService creates a new group draw service.
func NewGroupDrawService(repos *repositories.Container, rand *drawrand.Source, analytics *AnalyticsService, notification *NotificationService, logger *log.Logger) *GroupDrawService {
	return &GroupDrawService{repos: repos, rand: rand, analytics: analytics, notification: notification, logger: logger}
}

// GenerateCLGroups draws 21 teams from exactly 7 regions (3 per region)
// into 7 groups of 3 with no same-region collisions, then emits each
// group's 6-match single-leg rotation (spec §4.4).
func (s *GroupDrawService) GenerateCLGroups(ctx context.Context, competitionID int64, startDate time.Time, intervalDays int) error {
	comp, err := s.repos.Competition.GetByID(ctx, competitionID)
	if err != nil {
		return err
	}

	exists, err := s.repos.Match.ExistsAny(ctx, repositories.ListFilter{CompetitionID: competitionID, Stage: models.StageGroup})
	if err != nil {
		return err
	}
	if exists {
		return apperr.New(apperr.InvariantConflict, "group fixtures already generated for this competition")
	}

	teams, err := s.repos.Team.ListByCompetition(ctx, competitionID)
	if err != nil {
		return err
	}

	byRegion := make(map[int64][]int64)
	regionOf := make(map[int64]int64, len(teams))
	for _, t := range teams {
		byRegion[t.RegionID] = append(byRegion[t.RegionID], t.ID)
		regionOf[t.ID] = t.RegionID
	}
	if len(byRegion) != clRegionCount {
		return apperr.Newf(apperr.ValidationFailure, "CL group draw requires exactly %d regions, got %d", clRegionCount, len(byRegion))
	}
	regionIDs := make([]int64, 0, clRegionCount)
	for regionID, ts := range byRegion {
		if len(ts) != clTeamsPerRegion {
			return apperr.Newf(apperr.ValidationFailure, "region %d has %d teams, expected %d", regionID, len(ts), clTeamsPerRegion)
		}
		regionIDs = append(regionIDs, regionID)
	}
	sort.Slice(regionIDs, func(i, j int) bool { return regionIDs[i] < regionIDs[j] })
	for _, ts := range byRegion {
		sort.Slice(ts, func(i, j int) bool { return ts[i] < ts[j] })
	}

	regionOrder := s.rand.Perm(clRegionCount)
	groups := make([][]int64, clRegionCount)
	for i := 0; i < clRegionCount; i++ {
		regionID := regionIDs[regionOrder[i]]
		regionTeams := byRegion[regionID]
		teamOrder := s.rand.Perm(clTeamsPerRegion)
		for j := 0; j < clTeamsPerRegion; j++ {
			team := regionTeams[teamOrder[j]]
			groupIdx := (i + 2*j) % clRegionCount
			groups[groupIdx] = append(groups[groupIdx], team)
		}
	}

	// Verification pass (defensive; should never trip given the
	// construction above).
	for idx, group := range groups {
		if len(group) != clTeamsPerRegion {
			return apperr.Newf(apperr.DrawFailure, "group %d has %d teams, expected %d", idx, len(group), clTeamsPerRegion)
		}
		seen := make(map[int64]bool, clTeamsPerRegion)
		for _, teamID := range group {
			r := regionOf[teamID]
			if seen[r] {
				return apperr.Newf(apperr.DrawFailure, "group %d has two teams from region %d", idx, r)
			}
			seen[r] = true
		}
	}

	tx, err := s.repos.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for idx, group := range groups {
		letter := string(rune('A' + idx))
		for _, r := range groupRotation {
			matchday := r.matchday
			date := startDate.AddDate(0, 0, (matchday-1)*intervalDays)
			home, away := group[r.home], group[r.away]
			m := &models.Match{
				CompetitionID: competitionID,
				SeasonID:      comp.SeasonID,
				HomeTeamID:    &home,
				AwayTeamID:    &away,
				MatchDate:     &date,
				Status:        models.MatchScheduled,
				Matchday:      &matchday,
				Stage:         models.StageGroup,
				GroupName:     &letter,
				CreatedAt:     now,
			}
			if _, err := s.repos.Match.CreateWithTx(ctx, tx, m); err != nil {
				return err
			}
		}
		for _, teamID := range group {
			if err := s.repos.Standing.CreateZeroedWithTx(ctx, tx, teamID, competitionID, comp.SeasonID, &letter); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.analytics.LogEvent(ctx, "groups_drawn", map[string]interface{}{
		"competition_id": competitionID,
		"group_count":    clRegionCount,
		"team_count":     len(teams),
	})
	s.notification.NotifyFixturesGenerated(competitionID, len(teams))
	return nil
}
