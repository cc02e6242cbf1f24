// internal/repositories/team_repository.go
package repositories

import (
	"context"
	"database/sql"
	"strings"

	"tourney-engine/internal/apperr"
	"tourney-engine/internal/models"
)

// TeamRepository handles Team data access and its membership in
// competitions (the competition_teams join table spec §9 calls for as a
// dedicated set-of-pairs entity rather than bidirectional pointers).
type TeamRepository struct {
	db *sql.DB
}

func NewTeamRepository(db *sql.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

const teamColumns = `id, name, county_id, region_id, category, status, logo_url, created_at`

func scanTeam(row interface{ Scan(...interface{}) error }) (*models.Team, error) {
	var t models.Team
	if err := row.Scan(&t.ID, &t.Name, &t.CountyID, &t.RegionID, &t.Category, &t.Status, &t.LogoURL, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TeamRepository) Create(ctx context.Context, t *models.Team) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO teams (name, county_id, region_id, category, status, logo_url, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.Name, t.CountyID, t.RegionID, t.Category, t.Status, t.LogoURL, t.CreatedAt,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *TeamRepository) Update(ctx context.Context, t *models.Team) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE teams SET name = ?, county_id = ?, region_id = ?, category = ?, status = ?, logo_url = ? WHERE id = ?`,
		t.Name, t.CountyID, t.RegionID, t.Category, t.Status, t.LogoURL, t.ID,
	)
	return err
}

func (r *TeamRepository) UpdateStatus(ctx context.Context, id int64, status models.TeamStatus) error {
	_, err := r.db.ExecContext(ctx, `UPDATE teams SET status = ? WHERE id = ?`, status, id)
	return err
}

func (r *TeamRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE id = ?`, id)
	return err
}

// HasPlayers reports whether any player row references this team. Used by
// the delete-guard invariant (deleting a team with registered players
// fails). Player rows themselves belong to the out-of-scope user/profile
// management area, so this only checks existence via a count query against
// a table this package never writes to.
func (r *TeamRepository) HasPlayers(ctx context.Context, teamID int64) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM players WHERE team_id = ?`, teamID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *TeamRepository) GetByID(ctx context.Context, id int64) (*models.Team, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+teamColumns+" FROM teams WHERE id = ?", id)
	t, err := scanTeam(row)
	if err == sql.ErrNoRows {
		return nil, apperr.Newf(apperr.NotFound, "team %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *TeamRepository) ListByIDs(ctx context.Context, ids []int64) ([]*models.Team, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	query := "SELECT " + teamColumns + " FROM teams WHERE id IN (" + strings.Join(placeholders, ",") + ")"
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Team
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TeamRepository) ListByCounty(ctx context.Context, countyID int64) ([]*models.Team, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+teamColumns+" FROM teams WHERE county_id = ? ORDER BY id", countyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Team
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// --- competition_teams join ---

// AddTeamToCompetitionWithTx inserts the (competition, team) pair if absent
// (idempotent no-op on duplicates, spec §4.9).
func (r *TeamRepository) AddTeamToCompetitionWithTx(ctx context.Context, tx *sql.Tx, competitionID, teamID int64) error {
	_, err := tx.ExecContext(ctx,
		`INSERT IGNORE INTO competition_teams (competition_id, team_id) VALUES (?, ?)`,
		competitionID, teamID,
	)
	return err
}

func (r *TeamRepository) AddTeamToCompetition(ctx context.Context, competitionID, teamID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT IGNORE INTO competition_teams (competition_id, team_id) VALUES (?, ?)`,
		competitionID, teamID,
	)
	return err
}

const teamColumnsPrefixed = `t.id, t.name, t.county_id, t.region_id, t.category, t.status, t.logo_url, t.created_at`

func (r *TeamRepository) ListByCompetition(ctx context.Context, competitionID int64) ([]*models.Team, error) {
	query := "SELECT " + teamColumnsPrefixed +
		" FROM teams t JOIN competition_teams ct ON ct.team_id = t.id WHERE ct.competition_id = ? ORDER BY t.id"
	rows, err := r.db.QueryContext(ctx, query, competitionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Team
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// CountCompetitionTeams returns how many teams are registered in a
// competition. The scheduler's ">= 2 teams" precondition counts the result
// of ListByCompetition instead, so nothing in the engine calls this.
func (r *TeamRepository) CountCompetitionTeams(ctx context.Context, competitionID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM competition_teams WHERE competition_id = ?`, competitionID).Scan(&count)
	return count, err
}
