// internal/repositories/region_repository.go
package repositories

import (
	"context"
	"database/sql"

	"tourney-engine/internal/apperr"
	"tourney-engine/internal/models"
)

// RegionRepository handles Region/County data access. They're grouped in
// one file since both are tiny, rarely-written reference tables.
type RegionRepository struct {
	db *sql.DB
}

func NewRegionRepository(db *sql.DB) *RegionRepository {
	return &RegionRepository{db: db}
}

func (r *RegionRepository) Create(ctx context.Context, region *models.Region) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO regions (name, code, created_at) VALUES (?, ?, ?)`,
		region.Name, region.Code, region.CreatedAt,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *RegionRepository) GetByID(ctx context.Context, id int64) (*models.Region, error) {
	var reg models.Region
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, code, created_at FROM regions WHERE id = ?`, id,
	).Scan(&reg.ID, &reg.Name, &reg.Code, &reg.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.Newf(apperr.NotFound, "region %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *RegionRepository) ListAll(ctx context.Context) ([]*models.Region, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, code, created_at FROM regions ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Region
	for rows.Next() {
		var reg models.Region
		if err := rows.Scan(&reg.ID, &reg.Name, &reg.Code, &reg.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &reg)
	}
	return out, rows.Err()
}

// CountyRepository handles County data access.
type CountyRepository struct {
	db *sql.DB
}

func NewCountyRepository(db *sql.DB) *CountyRepository {
	return &CountyRepository{db: db}
}

func (r *CountyRepository) Create(ctx context.Context, county *models.County) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO counties (name, code, region_id, created_at) VALUES (?, ?, ?, ?)`,
		county.Name, county.Code, county.RegionID, county.CreatedAt,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *CountyRepository) GetByID(ctx context.Context, id int64) (*models.County, error) {
	var c models.County
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, code, region_id, created_at FROM counties WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &c.Code, &c.RegionID, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.Newf(apperr.NotFound, "county %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CountyRepository) ListByRegion(ctx context.Context, regionID int64) ([]*models.County, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, code, region_id, created_at FROM counties WHERE region_id = ? ORDER BY id`, regionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.County
	for rows.Next() {
		var c models.County
		if err := rows.Scan(&c.ID, &c.Name, &c.Code, &c.RegionID, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (r *CountyRepository) ListAll(ctx context.Context) ([]*models.County, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, code, region_id, created_at FROM counties ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.County
	for rows.Next() {
		var c models.County
		if err := rows.Scan(&c.ID, &c.Name, &c.Code, &c.RegionID, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}
