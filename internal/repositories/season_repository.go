// internal/repositories/season_repository.go
package repositories

import (
	"context"
	"database/sql"

	"tourney-engine/internal/apperr"
	"tourney-engine/internal/models"
)

// SeasonRepository handles Season data access.
type SeasonRepository struct {
	db *sql.DB
}

func NewSeasonRepository(db *sql.DB) *SeasonRepository {
	return &SeasonRepository{db: db}
}

func (r *SeasonRepository) CreateWithTx(ctx context.Context, tx *sql.Tx, season *models.Season) (int64, error) {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO seasons (name, year, is_active, created_at) VALUES (?, ?, ?, ?)`,
		season.Name, season.Year, season.IsActive, season.CreatedAt,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// DeactivateAllWithTx clears is_active on every season, used by CreateSeason
// before inserting the new active one (spec §4.9's singleton invariant).
func (r *SeasonRepository) DeactivateAllWithTx(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `UPDATE seasons SET is_active = FALSE WHERE is_active = TRUE`)
	return err
}

func (r *SeasonRepository) GetByID(ctx context.Context, id int64) (*models.Season, error) {
	var s models.Season
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, year, is_active, created_at FROM seasons WHERE id = ?`, id,
	).Scan(&s.ID, &s.Name, &s.Year, &s.IsActive, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.Newf(apperr.NotFound, "season %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SeasonRepository) GetActive(ctx context.Context) (*models.Season, error) {
	var s models.Season
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, year, is_active, created_at FROM seasons WHERE is_active = TRUE LIMIT 1`,
	).Scan(&s.ID, &s.Name, &s.Year, &s.IsActive, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.NotFound, "no active season")
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SeasonRepository) ListAll(ctx context.Context) ([]*models.Season, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, year, is_active, created_at FROM seasons ORDER BY year DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Season
	for rows.Next() {
		var s models.Season
		if err := rows.Scan(&s.ID, &s.Name, &s.Year, &s.IsActive, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}
