// internal/services/result_service.go
// Result State Machine (spec §4.6, C6). Grounded on
// original_source/backend/app/services/match_service.py::submit_result,
// confirm_result: SCHEDULED -> COMPLETED -> CONFIRMED, terminal, with the
// full post-confirmation cascade run inside the confirming transaction and
// events published only after it commits (spec §5's ordering guarantee).
package services

import (
	"context"
	"log"
	"time"

	"tourney-engine/internal/apperr"
	"tourney-engine/internal/eventbus"
	"tourney-engine/internal/models"
	"tourney-engine/internal/repositories"
)

// submissionGraceWindow is the advisory 90-minute delay after match_date
// before a non-admin may submit a result.
const submissionGraceWindow = 90 * time.Minute

// ResultService drives match results through SCHEDULED -> COMPLETED ->
// CONFIRMED and fans out the confirmation cascade.
type ResultService struct {
	repos        *repositories.Container
	standings    *StandingsService
	bracket      *BracketService
	cache        *CacheService
	notification *NotificationService
	bus          *eventbus.Bus
	logger       *log.Logger
}

// NewResultService creates a new result service.
func NewResultService(repos *repositories.Container, standings *StandingsService, bracket *BracketService, cache *CacheService, notification *NotificationService, bus *eventbus.Bus, logger *log.Logger) *ResultService {
	return &ResultService{repos: repos, standings: standings, bracket: bracket, cache: cache, notification: notification, bus: bus, logger: logger}
}

// IsSubmissionWindowOpen reports whether a non-admin may submit a result for
// a match scheduled at matchDate. Admins always pass; this predicate is
// advisory display logic only — SubmitResult itself never enforces it.
func IsSubmissionWindowOpen(matchDate time.Time, isAdmin bool) bool {
	if isAdmin {
		return true
	}
	return time.Now().UTC().After(matchDate.Add(submissionGraceWindow))
}

// SubmitResult records a scoreline (SCHEDULED -> COMPLETED). A coach may
// only submit for a match one of whose two participants is their own team.
func (s *ResultService) SubmitResult(ctx context.Context, matchID int64, homeScore, awayScore int, actor *models.Actor) error {
	if homeScore < 0 || awayScore < 0 {
		return apperr.New(apperr.ValidationFailure, "scores must be non-negative")
	}

	m, err := s.repos.Match.GetByID(ctx, matchID)
	if err != nil {
		return err
	}
	if m.Status != models.MatchScheduled {
		return apperr.Newf(apperr.InvariantConflict, "match %d is not scheduled", matchID)
	}
	if actor.Role == models.RoleCoach {
		if actor.TeamID == nil || (
			(m.HomeTeamID == nil || *actor.TeamID != *m.HomeTeamID) &&
				(m.AwayTeamID == nil || *actor.TeamID != *m.AwayTeamID)) {
			return apperr.New(apperr.Forbidden, "coach may only submit results for their own team's matches")
		}
	}

	tx, err := s.repos.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.repos.Match.UpdateResultWithTx(ctx, tx, matchID, homeScore, awayScore, actor.ID); err != nil {
		return err
	}
	return tx.Commit()
}

func derefInt64(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

// ConfirmResult finalizes a submitted result (COMPLETED -> CONFIRMED) and
// runs the full post-confirmation cascade in a single transaction (spec
// §4.6): recalculate standings, then — after commit — publish
// match_confirmed, standings_updated, optionally bracket_updated (invoking
// advance_bracket_winner first) and optionally competition_complete.
func (s *ResultService) ConfirmResult(ctx context.Context, matchID int64, actor *models.Actor, penaltyWinnerID *int64) error {
	m, err := s.repos.Match.GetByID(ctx, matchID)
	if err != nil {
		return err
	}
	if m.Status != models.MatchCompleted {
		return apperr.Newf(apperr.InvariantConflict, "match %d is not awaiting confirmation", matchID)
	}
	if m.IsBracketMatch() && m.Leg == nil && m.IsDraw() {
		if penaltyWinnerID == nil || (*penaltyWinnerID != derefInt64(m.HomeTeamID) && *penaltyWinnerID != derefInt64(m.AwayTeamID)) {
			return apperr.New(apperr.ValidationFailure, "a drawn single-leg bracket match requires a penalty_winner_id identifying a participant")
		}
	}

	tx, err := s.repos.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.repos.Match.ConfirmWithTx(ctx, tx, matchID, actor.ID, penaltyWinnerID); err != nil {
		return err
	}
	confirmed, err := s.repos.Match.GetByIDWithTx(ctx, tx, matchID)
	if err != nil {
		return err
	}

	if confirmed.Stage.CountsTowardStandings() {
		if err := s.standings.Recalculate(ctx, tx, confirmed.CompetitionID, confirmed.SeasonID); err != nil {
			return err
		}
	}

	bracketUpdated := confirmed.BracketPosition != nil
	if bracketUpdated {
		if err := s.bracket.AdvanceBracketWinner(ctx, tx, confirmed); err != nil {
			return err
		}
	}

	competitionComplete := false
	if confirmed.Stage == models.StageLeague || confirmed.Stage == models.StageGroup {
		siblings, err := s.repos.Match.ListWithTx(ctx, tx, repositories.ListFilter{
			CompetitionID: confirmed.CompetitionID,
			SeasonID:      confirmed.SeasonID,
			StageIn:       []models.MatchStage{models.StageLeague, models.StageGroup},
		})
		if err != nil {
			return err
		}
		competitionComplete = true
		for _, sm := range siblings {
			if sm.Status != models.MatchConfirmed {
				competitionComplete = false
				break
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	if confirmed.Stage.CountsTowardStandings() {
		s.standings.InvalidateCache(confirmed.CompetitionID, confirmed.SeasonID)
	}
	if confirmed.Stage == models.StageLeague || confirmed.Stage == models.StageGroup {
		if err := s.cache.Delete(competitionStatusCacheKey(confirmed.CompetitionID)); err != nil {
			s.logger.Printf("competition-status cache invalidation failed for %d: %v", confirmed.CompetitionID, err)
		}
	}
	s.notification.NotifyMatchConfirmed(confirmed)

	s.bus.Publish(eventbus.MatchConfirmed, eventbus.MatchConfirmedPayload{
		MatchID:       confirmed.ID,
		CompetitionID: confirmed.CompetitionID,
		SeasonID:      confirmed.SeasonID,
		HomeTeamID:    derefInt64(confirmed.HomeTeamID),
		AwayTeamID:    derefInt64(confirmed.AwayTeamID),
		HomeScore:     derefInt(confirmed.HomeScore),
		AwayScore:     derefInt(confirmed.AwayScore),
	})
	s.bus.Publish(eventbus.StandingsUpdated, eventbus.StandingsUpdatedPayload{
		CompetitionID: confirmed.CompetitionID,
		SeasonID:      confirmed.SeasonID,
	})
	if bracketUpdated {
		s.bus.Publish(eventbus.BracketUpdated, eventbus.BracketUpdatedPayload{
			CompetitionID:   confirmed.CompetitionID,
			MatchID:         confirmed.ID,
			BracketPosition: *confirmed.BracketPosition,
		})
	}
	if competitionComplete {
		s.bus.Publish(eventbus.CompetitionComplete, eventbus.CompetitionCompletePayload{
			CompetitionID: confirmed.CompetitionID,
			SeasonID:      confirmed.SeasonID,
		})
	}
	return nil
}
