// internal/models/season.go
package models

import "time"

// Season scopes competitions and matches to a year of play. At most one
// Season is active at a time; creating a new active one clears the flag on
// all priors (see services.LifecycleService.CreateSeason).
type Season struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Year      int       `json:"year"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
