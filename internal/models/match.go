// internal/models/match.go
// Match and standings-relevant fixture model.

package models

import "time"

// MatchStage identifies which round of which format a Match belongs to.
// An empty stage is treated the same as LEAGUE/GROUP for standings purposes
// (legacy rows predating the column — see services.StandingsService).
type MatchStage string

const (
	StageLeague       MatchStage = "league"
	StageGroup        MatchStage = "group"
	StageRound1       MatchStage = "round_1"
	StageRound2       MatchStage = "round_2"
	StageRound3       MatchStage = "round_3"
	StageRoundOf16    MatchStage = "round_of_16"
	StageQuarterFinal MatchStage = "quarter_final"
	StageSemiFinal    MatchStage = "semi_final"
	StageFinal        MatchStage = "final"
	StageSuper        MatchStage = "super"
)

// CountsTowardStandings reports whether matches at this stage feed
// recalculate_standings. Knockout stages are excluded.
func (s MatchStage) CountsTowardStandings() bool {
	return s == StageLeague || s == StageGroup || s == ""
}

// MatchStatus is the Result State Machine's three states. Once CONFIRMED a
// match is terminal and never reopened.
type MatchStatus string

const (
	MatchScheduled MatchStatus = "scheduled"
	MatchCompleted MatchStatus = "completed"
	MatchConfirmed MatchStatus = "confirmed"
)

// Match is created only by scheduler/group-draw/bracket operations, and is
// never mutated afterward except for score, status and bracket-slot fields.
type Match struct {
	ID              int64       `json:"id" db:"id"`
	CompetitionID   int64       `json:"competition_id" db:"competition_id"`
	SeasonID        int64       `json:"season_id" db:"season_id"`
	HomeTeamID      *int64      `json:"home_team_id,omitempty" db:"home_team_id"`
	AwayTeamID      *int64      `json:"away_team_id,omitempty" db:"away_team_id"`
	HomeScore       *int        `json:"home_score,omitempty" db:"home_score"`
	AwayScore       *int        `json:"away_score,omitempty" db:"away_score"`
	MatchDate       *time.Time  `json:"match_date,omitempty" db:"match_date"`
	Venue           *string     `json:"venue,omitempty" db:"venue"`
	Status          MatchStatus `json:"status" db:"status"`
	SubmittedByID   *int64      `json:"submitted_by_id,omitempty" db:"submitted_by_id"`
	ConfirmedByID   *int64      `json:"confirmed_by_id,omitempty" db:"confirmed_by_id"`
	Matchday        *int        `json:"matchday,omitempty" db:"matchday"`
	Stage           MatchStage  `json:"stage,omitempty" db:"stage"`
	GroupName       *string     `json:"group_name,omitempty" db:"group_name"`
	Leg             *int        `json:"leg,omitempty" db:"leg"` // nil, 1 or 2
	RoundNumber     *int        `json:"round_number,omitempty" db:"round_number"`
	BracketPosition *int        `json:"bracket_position,omitempty" db:"bracket_position"`
	PenaltyWinnerID *int64      `json:"penalty_winner_id,omitempty" db:"penalty_winner_id"`
	CreatedAt       time.Time   `json:"created_at" db:"created_at"`
}

// IsDraw reports whether both scores are recorded and equal.
func (m *Match) IsDraw() bool {
	return m.HomeScore != nil && m.AwayScore != nil && *m.HomeScore == *m.AwayScore
}

// IsTwoLegged reports whether this match is one leg of a two-legged tie.
func (m *Match) IsTwoLegged() bool {
	return m.Leg != nil
}

// IsBracketMatch reports whether this match sits in a knockout bracket.
func (m *Match) IsBracketMatch() bool {
	return m.BracketPosition != nil
}
