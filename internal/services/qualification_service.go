// internal/services/qualification_service.go
// Qualification Pipeline (spec §4.7, C7). Grounded on
// original_source/backend/app/services/qualification_service.py::
// qualify_for_regional, qualify_for_champions_league: gather source
// competitions, require completion, extract top finishers, add to the
// target competition idempotently.
package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"tourney-engine/internal/apperr"
	"tourney-engine/internal/models"
	"tourney-engine/internal/repositories"
)

// competitionStatusCacheTTL bounds how stale a status lookup can be. Both the
// public status endpoint and the qualify_for_* completion checks read through
// this cache; ResultService deletes the entry after every LEAGUE/GROUP
// confirmation, so the TTL only matters if that deletion fails.
const competitionStatusCacheTTL = 15 * time.Second

// QualificationService promotes top finishers between competition tiers.
type QualificationService struct {
	repos     *repositories.Container
	standings *StandingsService
	cache     *CacheService
	analytics *AnalyticsService
	logger    *log.Logger
}

// NewQualificationService creates a new qualification service.
func NewQualificationService(repos *repositories.Container, standings *StandingsService, cache *CacheService, analytics *AnalyticsService, logger *log.Logger) *QualificationService {
	return &QualificationService{repos: repos, standings: standings, cache: cache, analytics: analytics, logger: logger}
}

// CompetitionStatus summarizes LEAGUE/GROUP match completion.
type CompetitionStatus struct {
	Total     int
	Confirmed int
	Remaining int
	Complete  bool
}

// competitionStatusCacheKey is also used by ResultService to invalidate a
// status entry the moment the match set it summarizes changes.
func competitionStatusCacheKey(competitionID int64) string {
	return fmt.Sprintf("tpe:competition-status:%d", competitionID)
}

// GetCompetitionStatus counts LEAGUE and GROUP matches only (spec §4.7).
// Results are cached under a short TTL since this backs the public
// competition-status endpoint as well as the qualify_for_* checks.
func (s *QualificationService) GetCompetitionStatus(ctx context.Context, competitionID int64) (*CompetitionStatus, error) {
	key := competitionStatusCacheKey(competitionID)
	var status CompetitionStatus
	err := s.cache.GetOrSet(key, &status, func() (interface{}, error) {
		matches, err := s.repos.Match.List(ctx, repositories.ListFilter{
			CompetitionID: competitionID,
			StageIn:       []models.MatchStage{models.StageLeague, models.StageGroup},
		})
		if err != nil {
			return nil, err
		}
		confirmed := 0
		for _, m := range matches {
			if m.Status == models.MatchConfirmed {
				confirmed++
			}
		}
		total := len(matches)
		return &CompetitionStatus{
			Total:     total,
			Confirmed: confirmed,
			Remaining: total - confirmed,
			Complete:  total > 0 && confirmed == total,
		}, nil
	}, competitionStatusCacheTTL)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// GetTopTeams runs the §4.2 sort over the competition's whole standings set
// (no group filter) and returns the first count team ids.
func (s *QualificationService) GetTopTeams(ctx context.Context, competitionID, seasonID int64, count int) ([]int64, error) {
	rows, err := s.standings.ListStandings(ctx, competitionID, seasonID, "")
	if err != nil {
		return nil, err
	}
	matches, err := s.standings.LoadConfirmedMatches(ctx, competitionID, seasonID)
	if err != nil {
		return nil, err
	}
	sorted := SortStandings(rows, matches)
	if count > len(sorted) {
		count = len(sorted)
	}
	out := make([]int64, count)
	for i := 0; i < count; i++ {
		out[i] = sorted[i].TeamID
	}
	return out, nil
}

// GetTopTeamsFromGroups sorts each group with §4.2, then collects teams tier
// by tier (all group winners ranked among themselves, then all runners-up,
// and so on) until count teams are gathered.
func (s *QualificationService) GetTopTeamsFromGroups(ctx context.Context, competitionID, seasonID int64, count int) ([]int64, error) {
	rows, err := s.standings.ListStandings(ctx, competitionID, seasonID, "")
	if err != nil {
		return nil, err
	}
	matches, err := s.standings.LoadConfirmedMatches(ctx, competitionID, seasonID)
	if err != nil {
		return nil, err
	}

	byGroup := make(map[string][]*models.Standing)
	for _, r := range rows {
		if r.GroupName == nil {
			continue
		}
		byGroup[*r.GroupName] = append(byGroup[*r.GroupName], r)
	}
	groupNames := make([]string, 0, len(byGroup))
	maxLen := 0
	for g, group := range byGroup {
		groupNames = append(groupNames, g)
		byGroup[g] = SortStandings(group, matches)
		if len(byGroup[g]) > maxLen {
			maxLen = len(byGroup[g])
		}
	}
	sortStrings(groupNames)

	out := make([]int64, 0, count)
	for tier := 0; tier < maxLen && len(out) < count; tier++ {
		var tierRows []*models.Standing
		for _, g := range groupNames {
			sorted := byGroup[g]
			if tier < len(sorted) {
				tierRows = append(tierRows, sorted[tier])
			}
		}
		byOverallDesc(tierRows)
		for _, r := range tierRows {
			if len(out) >= count {
				break
			}
			out = append(out, r.TeamID)
		}
	}
	return out, nil
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// QualificationResult reports what a qualify_for_* call did.
type QualificationResult struct {
	QualifiedCount int
	Added          int
	AlreadyPresent int
	SourceCount    int
	BySource       map[int64][]int64
}

func addQualifiers(ctx context.Context, repos *repositories.Container, targetCompetitionID int64, bySource map[int64][]int64) (added, alreadyPresent int, err error) {
	existing, err := repos.Team.ListByCompetition(ctx, targetCompetitionID)
	if err != nil {
		return 0, 0, err
	}
	present := make(map[int64]bool, len(existing))
	for _, t := range existing {
		present[t.ID] = true
	}

	tx, err := repos.BeginTx(ctx)
	if err != nil {
		return 0, 0, err
	}
	defer tx.Rollback()

	for _, teamIDs := range bySource {
		for _, teamID := range teamIDs {
			if present[teamID] {
				alreadyPresent++
				continue
			}
			if err := repos.Team.AddTeamToCompetitionWithTx(ctx, tx, targetCompetitionID, teamID); err != nil {
				return 0, 0, err
			}
			present[teamID] = true
			added++
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, 0, err
	}
	return added, alreadyPresent, nil
}

// QualifyForRegional promotes the top_n finishers of every COUNTY
// competition in the target regional competition's region/season (spec
// §4.7). Idempotent: a team already present is skipped, not re-added.
func (s *QualificationService) QualifyForRegional(ctx context.Context, seasonID, regionalCompetitionID int64, topN int) (*QualificationResult, error) {
	target, err := s.repos.Competition.GetByID(ctx, regionalCompetitionID)
	if err != nil {
		return nil, err
	}
	if target.Type != models.CompetitionRegional {
		return nil, apperr.New(apperr.InvariantConflict, "qualify_for_regional target must be a REGIONAL competition")
	}
	if target.RegionID == nil {
		return nil, apperr.New(apperr.InvariantConflict, "regional competition has no region scope")
	}

	counties, err := s.repos.Competition.List(ctx, repositories.CompetitionListFilter{
		SeasonID: seasonID, Type: models.CompetitionCounty, HasRegion: true, RegionID: *target.RegionID,
	})
	if err != nil {
		return nil, err
	}
	if len(counties) == 0 {
		return nil, apperr.New(apperr.InvariantConflict, "no county competitions found for this region and season")
	}

	var incomplete []string
	for _, c := range counties {
		st, err := s.GetCompetitionStatus(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		if !st.Complete {
			incomplete = append(incomplete, fmt.Sprintf("competition %d (%d/%d confirmed)", c.ID, st.Confirmed, st.Total))
		}
	}
	if len(incomplete) > 0 {
		return nil, apperr.Newf(apperr.InvariantConflict, "county competitions not yet complete: %s", strings.Join(incomplete, ", "))
	}

	bySource := make(map[int64][]int64, len(counties))
	qualifiedCount := 0
	for _, c := range counties {
		top, err := s.GetTopTeams(ctx, c.ID, seasonID, topN)
		if err != nil {
			return nil, err
		}
		bySource[c.ID] = top
		qualifiedCount += len(top)
	}

	added, alreadyPresent, err := addQualifiers(ctx, s.repos, regionalCompetitionID, bySource)
	if err != nil {
		return nil, err
	}
	s.analytics.LogEvent(ctx, "qualification_run", map[string]interface{}{
		"target_competition_id": regionalCompetitionID,
		"source_type":           "county",
		"source_count":          len(counties),
		"qualified_count":       qualifiedCount,
		"added":                 added,
	})
	return &QualificationResult{
		QualifiedCount: qualifiedCount,
		Added:          added,
		AlreadyPresent: alreadyPresent,
		SourceCount:    len(counties),
		BySource:       bySource,
	}, nil
}

// QualifyForChampionsLeague promotes top_n finishers from every REGIONAL
// competition in the season into the target NATIONAL competition (spec
// §4.7). Uses the grouped or ungrouped top-teams extraction depending on
// whether each source competition's standings carry a group_name.
func (s *QualificationService) QualifyForChampionsLeague(ctx context.Context, seasonID, clCompetitionID int64, topN int) (*QualificationResult, error) {
	target, err := s.repos.Competition.GetByID(ctx, clCompetitionID)
	if err != nil {
		return nil, err
	}
	if target.Type != models.CompetitionNational {
		return nil, apperr.New(apperr.InvariantConflict, "qualify_for_champions_league target must be a NATIONAL competition")
	}

	regionals, err := s.repos.Competition.List(ctx, repositories.CompetitionListFilter{
		SeasonID: seasonID, Type: models.CompetitionRegional,
	})
	if err != nil {
		return nil, err
	}
	if len(regionals) == 0 {
		return nil, apperr.New(apperr.InvariantConflict, "no regional competitions found for this season")
	}

	var incomplete []string
	for _, rc := range regionals {
		st, err := s.GetCompetitionStatus(ctx, rc.ID)
		if err != nil {
			return nil, err
		}
		if !st.Complete {
			incomplete = append(incomplete, fmt.Sprintf("competition %d (%d/%d confirmed)", rc.ID, st.Confirmed, st.Total))
		}
	}
	if len(incomplete) > 0 {
		return nil, apperr.Newf(apperr.InvariantConflict, "regional competitions not yet complete: %s", strings.Join(incomplete, ", "))
	}

	bySource := make(map[int64][]int64, len(regionals))
	qualifiedCount := 0
	for _, rc := range regionals {
		rows, err := s.standings.ListStandings(ctx, rc.ID, seasonID, "")
		if err != nil {
			return nil, err
		}
		grouped := false
		for _, r := range rows {
			if r.GroupName != nil {
				grouped = true
				break
			}
		}
		var top []int64
		if grouped {
			top, err = s.GetTopTeamsFromGroups(ctx, rc.ID, seasonID, topN)
		} else {
			top, err = s.GetTopTeams(ctx, rc.ID, seasonID, topN)
		}
		if err != nil {
			return nil, err
		}
		bySource[rc.ID] = top
		qualifiedCount += len(top)
	}

	expected := len(regionals) * topN
	if qualifiedCount != expected {
		return nil, apperr.Newf(apperr.InvariantConflict, "expected %d qualifiers (%d regionals x %d), got %d", expected, len(regionals), topN, qualifiedCount)
	}

	added, alreadyPresent, err := addQualifiers(ctx, s.repos, clCompetitionID, bySource)
	if err != nil {
		return nil, err
	}
	s.analytics.LogEvent(ctx, "qualification_run", map[string]interface{}{
		"target_competition_id": clCompetitionID,
		"source_type":           "regional",
		"source_count":          len(regionals),
		"qualified_count":       qualifiedCount,
		"added":                 added,
	})
	return &QualificationResult{
		QualifiedCount: qualifiedCount,
		Added:          added,
		AlreadyPresent: alreadyPresent,
		SourceCount:    len(regionals),
		BySource:       bySource,
	}, nil
}
