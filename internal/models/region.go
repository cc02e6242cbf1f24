// internal/models/region.go
package models

import "time"

// Region is the root of the Region -> County -> Team forest.
type Region struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
}

// County belongs to exactly one Region.
type County struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Code      int       `json:"code"`
	RegionID  int64     `json:"region_id"`
	CreatedAt time.Time `json:"created_at"`
}
