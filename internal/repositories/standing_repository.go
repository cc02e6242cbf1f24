// internal/repositories/standing_repository.go
package repositories

import (
	"context"
	"database/sql"
	"time"

	"tourney-engine/internal/models"
)

// StandingRepository handles Standing data access. Standing rows are only
// ever written wholesale: seeded with zeroes when fixtures or groups are
// generated, then rebuilt by StandingsService.Recalculate; there is no
// public update-one-field method here on purpose.
type StandingRepository struct {
	db *sql.DB
}

func NewStandingRepository(db *sql.DB) *StandingRepository {
	return &StandingRepository{db: db}
}

const standingColumns = `
	id, team_id, competition_id, season_id, played, won, drawn, lost,
	goals_for, goals_against, goal_difference, points, group_name, updated_at
`

func scanStanding(row interface{ Scan(...interface{}) error }) (*models.Standing, error) {
	var s models.Standing
	if err := row.Scan(
		&s.ID, &s.TeamID, &s.CompetitionID, &s.SeasonID, &s.Played, &s.Won,
		&s.Drawn, &s.Lost, &s.GoalsFor, &s.GoalsAgainst, &s.GoalDifference,
		&s.Points, &s.GroupName, &s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

// ListByCompetitionWithTx returns every Standing row for a competition/season.
func (r *StandingRepository) ListByCompetitionWithTx(ctx context.Context, tx *sql.Tx, competitionID, seasonID int64) ([]*models.Standing, error) {
	rows, err := tx.QueryContext(ctx,
		"SELECT "+standingColumns+" FROM standings WHERE competition_id = ? AND season_id = ?",
		competitionID, seasonID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Standing
	for rows.Next() {
		s, err := scanStanding(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *StandingRepository) ListByCompetition(ctx context.Context, competitionID, seasonID int64) ([]*models.Standing, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+standingColumns+" FROM standings WHERE competition_id = ? AND season_id = ?",
		competitionID, seasonID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Standing
	for rows.Next() {
		s, err := scanStanding(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// UpsertWithTx creates the Standing row if absent or overwrites its computed
// fields if present, keyed on (team_id, competition_id, season_id).
func (r *StandingRepository) UpsertWithTx(ctx context.Context, tx *sql.Tx, s *models.Standing) error {
	s.UpdatedAt = nowFunc()
	_, err := tx.ExecContext(ctx, `
		INSERT INTO standings (
			team_id, competition_id, season_id, played, won, drawn, lost,
			goals_for, goals_against, goal_difference, points, group_name, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			played = VALUES(played), won = VALUES(won), drawn = VALUES(drawn),
			lost = VALUES(lost), goals_for = VALUES(goals_for),
			goals_against = VALUES(goals_against),
			goal_difference = VALUES(goal_difference), points = VALUES(points),
			group_name = COALESCE(standings.group_name, VALUES(group_name)),
			updated_at = VALUES(updated_at)
	`,
		s.TeamID, s.CompetitionID, s.SeasonID, s.Played, s.Won, s.Drawn,
		s.Lost, s.GoalsFor, s.GoalsAgainst, s.GoalDifference, s.Points,
		s.GroupName, s.UpdatedAt,
	)
	return err
}

// CreateZeroedWithTx seeds a zero-stat Standing row for a team, used when a
// competition's fixtures/groups are first generated.
func (r *StandingRepository) CreateZeroedWithTx(ctx context.Context, tx *sql.Tx, teamID, competitionID, seasonID int64, groupName *string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO standings (
			team_id, competition_id, season_id, played, won, drawn, lost,
			goals_for, goals_against, goal_difference, points, group_name, updated_at
		) VALUES (?, ?, ?, 0, 0, 0, 0, 0, 0, 0, 0, ?, ?)
	`, teamID, competitionID, seasonID, groupName, nowFunc())
	return err
}

var nowFunc = func() time.Time { return time.Now().UTC() }
