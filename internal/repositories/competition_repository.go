// internal/repositories/competition_repository.go
package repositories

import (
	"context"
	"database/sql"
	"strings"

	"tourney-engine/internal/apperr"
	"tourney-engine/internal/models"
)

// CompetitionRepository handles Competition data access.
type CompetitionRepository struct {
	db *sql.DB
}

func NewCompetitionRepository(db *sql.DB) *CompetitionRepository {
	return &CompetitionRepository{db: db}
}

const competitionColumns = `id, name, type, category, season_id, region_id, county_id, created_at`

func scanCompetition(row interface{ Scan(...interface{}) error }) (*models.Competition, error) {
	var c models.Competition
	if err := row.Scan(&c.ID, &c.Name, &c.Type, &c.Category, &c.SeasonID, &c.RegionID, &c.CountyID, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CompetitionRepository) Create(ctx context.Context, c *models.Competition) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO competitions (name, type, category, season_id, region_id, county_id, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.Name, c.Type, c.Category, c.SeasonID, c.RegionID, c.CountyID, c.CreatedAt,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *CompetitionRepository) GetByID(ctx context.Context, id int64) (*models.Competition, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+competitionColumns+" FROM competitions WHERE id = ?", id)
	c, err := scanCompetition(row)
	if err == sql.ErrNoRows {
		return nil, apperr.Newf(apperr.NotFound, "competition %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// CompetitionListFilter narrows competition queries (e.g. all COUNTY competitions in a
// region/season for the qualification pipeline).
type CompetitionListFilter struct {
	SeasonID int64
	Type     models.CompetitionType
	RegionID int64
	HasRegion bool
}

func (r *CompetitionRepository) List(ctx context.Context, f CompetitionListFilter) ([]*models.Competition, error) {
	var conditions []string
	var args []interface{}

	if f.SeasonID != 0 {
		conditions = append(conditions, "season_id = ?")
		args = append(args, f.SeasonID)
	}
	if f.Type != "" {
		conditions = append(conditions, "type = ?")
		args = append(args, f.Type)
	}
	if f.HasRegion {
		conditions = append(conditions, "region_id = ?")
		args = append(args, f.RegionID)
	}

	query := "SELECT " + competitionColumns + " FROM competitions"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Competition
	for rows.Next() {
		c, err := scanCompetition(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
