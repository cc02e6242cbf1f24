// internal/repositories/container.go
// Repository container for dependency injection.

package repositories

import (
	"context"
	"database/sql"

	"tourney-engine/internal/database"
)

// Container holds all repository instances.
type Container struct {
	Region      *RegionRepository
	County      *CountyRepository
	Season      *SeasonRepository
	Team        *TeamRepository
	Competition *CompetitionRepository
	Match       *MatchRepository
	Standing    *StandingRepository
	db          *sql.DB
}

// NewContainer creates a new repository container.
func NewContainer(conn *database.Connections) *Container {
	return &Container{
		Region:      NewRegionRepository(conn.MySQL),
		County:      NewCountyRepository(conn.MySQL),
		Season:      NewSeasonRepository(conn.MySQL),
		Team:        NewTeamRepository(conn.MySQL),
		Competition: NewCompetitionRepository(conn.MySQL),
		Match:       NewMatchRepository(conn.MySQL),
		Standing:    NewStandingRepository(conn.MySQL),
		db:          conn.MySQL,
	}
}

// BeginTx starts a new database transaction. Every multi-step core
// operation (scheduler emission, group draw, bracket generation, result
// confirmation cascade) runs inside a single transaction opened here.
func (c *Container) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return c.db.BeginTx(ctx, nil)
}
