// internal/repositories/match_repository.go
// Match data access layer.

package repositories

import (
	"context"
	"database/sql"
	"strings"

	"tourney-engine/internal/apperr"
	"tourney-engine/internal/models"
)

// MatchRepository handles match data access.
type MatchRepository struct {
	db *sql.DB
}

// NewMatchRepository creates a new match repository.
func NewMatchRepository(db *sql.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

const matchColumns = `
	id, competition_id, season_id, home_team_id, away_team_id, home_score,
	away_score, match_date, venue, status, submitted_by_id, confirmed_by_id,
	matchday, stage, group_name, leg, round_number, bracket_position,
	penalty_winner_id, created_at
`

func scanMatch(row interface{ Scan(...interface{}) error }) (*models.Match, error) {
	var m models.Match
	err := row.Scan(
		&m.ID, &m.CompetitionID, &m.SeasonID, &m.HomeTeamID, &m.AwayTeamID,
		&m.HomeScore, &m.AwayScore, &m.MatchDate, &m.Venue, &m.Status,
		&m.SubmittedByID, &m.ConfirmedByID, &m.Matchday, &m.Stage,
		&m.GroupName, &m.Leg, &m.RoundNumber, &m.BracketPosition,
		&m.PenaltyWinnerID, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a new match, returning its assigned ID.
func (r *MatchRepository) Create(ctx context.Context, m *models.Match) (int64, error) {
	return r.create(ctx, r.db, m)
}

// CreateWithTx creates a match within a transaction.
func (r *MatchRepository) CreateWithTx(ctx context.Context, tx *sql.Tx, m *models.Match) (int64, error) {
	return r.create(ctx, tx, m)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func (r *MatchRepository) create(ctx context.Context, e execer, m *models.Match) (int64, error) {
	query := `
		INSERT INTO matches (
			competition_id, season_id, home_team_id, away_team_id, home_score,
			away_score, match_date, venue, status, submitted_by_id,
			confirmed_by_id, matchday, stage, group_name, leg, round_number,
			bracket_position, penalty_winner_id, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	res, err := e.ExecContext(ctx, query,
		m.CompetitionID, m.SeasonID, m.HomeTeamID, m.AwayTeamID, m.HomeScore,
		m.AwayScore, m.MatchDate, m.Venue, m.Status, m.SubmittedByID,
		m.ConfirmedByID, m.Matchday, m.Stage, m.GroupName, m.Leg,
		m.RoundNumber, m.BracketPosition, m.PenaltyWinnerID, m.CreatedAt,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetByID retrieves a match by ID.
func (r *MatchRepository) GetByID(ctx context.Context, id int64) (*models.Match, error) {
	query := "SELECT " + matchColumns + " FROM matches WHERE id = ?"
	row := r.db.QueryRowContext(ctx, query, id)
	m, err := scanMatch(row)
	if err == sql.ErrNoRows {
		return nil, apperr.Newf(apperr.NotFound, "match %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ListFilter narrows a match query. Zero-valued fields are not applied.
type ListFilter struct {
	CompetitionID int64
	SeasonID      int64
	TeamID        int64 // matches either home or away
	Status        models.MatchStatus
	Stage         models.MatchStage
	StageIn       []models.MatchStage
	Matchday      int
	GroupName     string
	// BracketPosIsNotNull matches any bracket_position ("this is a bracket
	// match"), independent of which position. BracketPosition/HasBracketPos
	// instead pin down one exact position; both can be set together to mean
	// "a bracket match at exactly this position."
	BracketPosIsNotNull bool
	BracketPosition     int
	HasBracketPos       bool
	Leg                 int
	HasLeg              bool
}

// List returns matches matching the filter, ordered by matchday then id.
func (r *MatchRepository) List(ctx context.Context, f ListFilter) ([]*models.Match, error) {
	var conditions []string
	var args []interface{}

	if f.CompetitionID != 0 {
		conditions = append(conditions, "competition_id = ?")
		args = append(args, f.CompetitionID)
	}
	if f.SeasonID != 0 {
		conditions = append(conditions, "season_id = ?")
		args = append(args, f.SeasonID)
	}
	if f.TeamID != 0 {
		conditions = append(conditions, "(home_team_id = ? OR away_team_id = ?)")
		args = append(args, f.TeamID, f.TeamID)
	}
	if f.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, f.Status)
	}
	if f.Stage != "" {
		conditions = append(conditions, "stage = ?")
		args = append(args, f.Stage)
	}
	if len(f.StageIn) > 0 {
		placeholders := make([]string, 0, len(f.StageIn))
		for _, s := range f.StageIn {
			placeholders = append(placeholders, "?")
			args = append(args, s)
		}
		conditions = append(conditions, "(stage IN ("+strings.Join(placeholders, ",")+") OR stage IS NULL OR stage = '')")
	}
	if f.Matchday != 0 {
		conditions = append(conditions, "matchday = ?")
		args = append(args, f.Matchday)
	}
	if f.GroupName != "" {
		conditions = append(conditions, "group_name = ?")
		args = append(args, f.GroupName)
	}
	if f.BracketPosIsNotNull {
		conditions = append(conditions, "bracket_position IS NOT NULL")
	}
	if f.HasBracketPos {
		conditions = append(conditions, "bracket_position = ?")
		args = append(args, f.BracketPosition)
	}
	if f.HasLeg {
		conditions = append(conditions, "leg = ?")
		args = append(args, f.Leg)
	}

	query := "SELECT " + matchColumns + " FROM matches"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY matchday, id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ExistsAny reports whether any match matching the filter exists. Used by
// the scheduler/bracket engines' AlreadyGenerated preconditions.
func (r *MatchRepository) ExistsAny(ctx context.Context, f ListFilter) (bool, error) {
	matches, err := r.List(ctx, f)
	if err != nil {
		return false, err
	}
	return len(matches) > 0, nil
}

// UpdateResultWithTx persists a score submission (SCHEDULED -> COMPLETED).
func (r *MatchRepository) UpdateResultWithTx(ctx context.Context, tx *sql.Tx, id int64, homeScore, awayScore int, submittedBy int64) error {
	query := `
		UPDATE matches SET home_score = ?, away_score = ?, status = ?, submitted_by_id = ?
		WHERE id = ?
	`
	_, err := tx.ExecContext(ctx, query, homeScore, awayScore, models.MatchCompleted, submittedBy, id)
	return err
}

// ConfirmWithTx persists a confirmation (COMPLETED -> CONFIRMED).
func (r *MatchRepository) ConfirmWithTx(ctx context.Context, tx *sql.Tx, id int64, confirmedBy int64, penaltyWinnerID *int64) error {
	query := `
		UPDATE matches SET status = ?, confirmed_by_id = ?, penalty_winner_id = ?
		WHERE id = ?
	`
	_, err := tx.ExecContext(ctx, query, models.MatchConfirmed, confirmedBy, penaltyWinnerID, id)
	return err
}

// DeleteBracketWithTx removes every match carrying a bracket_position for a
// competition, used to reset a bracket before it has any confirmed result
// (spec §6's DELETE /competitions/{id}/bracket).
func (r *MatchRepository) DeleteBracketWithTx(ctx context.Context, tx *sql.Tx, competitionID int64) error {
	_, err := tx.ExecContext(ctx, "DELETE FROM matches WHERE competition_id = ? AND bracket_position IS NOT NULL", competitionID)
	return err
}

// FillSlotWithTx writes a winner into a bracket parent's home or away slot.
func (r *MatchRepository) FillSlotWithTx(ctx context.Context, tx *sql.Tx, matchID int64, home bool, teamID int64) error {
	col := "away_team_id"
	if home {
		col = "home_team_id"
	}
	query := "UPDATE matches SET " + col + " = ? WHERE id = ?"
	_, err := tx.ExecContext(ctx, query, teamID, matchID)
	return err
}

// GetByID within a transaction, used by bracket advancement which must
// observe the just-committed row.
func (r *MatchRepository) GetByIDWithTx(ctx context.Context, tx *sql.Tx, id int64) (*models.Match, error) {
	query := "SELECT " + matchColumns + " FROM matches WHERE id = ?"
	row := tx.QueryRowContext(ctx, query, id)
	m, err := scanMatch(row)
	if err == sql.ErrNoRows {
		return nil, apperr.Newf(apperr.NotFound, "match %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ListWithTx mirrors List but runs inside a transaction.
func (r *MatchRepository) ListWithTx(ctx context.Context, tx *sql.Tx, f ListFilter) ([]*models.Match, error) {
	var conditions []string
	var args []interface{}

	if f.CompetitionID != 0 {
		conditions = append(conditions, "competition_id = ?")
		args = append(args, f.CompetitionID)
	}
	if f.SeasonID != 0 {
		conditions = append(conditions, "season_id = ?")
		args = append(args, f.SeasonID)
	}
	if f.TeamID != 0 {
		conditions = append(conditions, "(home_team_id = ? OR away_team_id = ?)")
		args = append(args, f.TeamID, f.TeamID)
	}
	if f.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, f.Status)
	}
	if f.Stage != "" {
		conditions = append(conditions, "stage = ?")
		args = append(args, f.Stage)
	}
	if len(f.StageIn) > 0 {
		placeholders := make([]string, 0, len(f.StageIn))
		for _, s := range f.StageIn {
			placeholders = append(placeholders, "?")
			args = append(args, s)
		}
		conditions = append(conditions, "(stage IN ("+strings.Join(placeholders, ",")+") OR stage IS NULL OR stage = '')")
	}
	if f.Matchday != 0 {
		conditions = append(conditions, "matchday = ?")
		args = append(args, f.Matchday)
	}
	if f.GroupName != "" {
		conditions = append(conditions, "group_name = ?")
		args = append(args, f.GroupName)
	}
	if f.BracketPosIsNotNull {
		conditions = append(conditions, "bracket_position IS NOT NULL")
	}
	if f.HasBracketPos {
		conditions = append(conditions, "bracket_position = ?")
		args = append(args, f.BracketPosition)
	}
	if f.HasLeg {
		conditions = append(conditions, "leg = ?")
		args = append(args, f.Leg)
	}

	query := "SELECT " + matchColumns + " FROM matches"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY matchday, id"

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
