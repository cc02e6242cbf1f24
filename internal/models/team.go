// internal/models/team.go
package models

import "time"

// TeamStatus tracks a team's admission lifecycle.
type TeamStatus string

const (
	TeamPending   TeamStatus = "pending"
	TeamActive    TeamStatus = "active"
	TeamSuspended TeamStatus = "suspended"
)

// TeamCategory mirrors CompetitionCategory; a team plays in one category.
type TeamCategory string

const (
	CategoryMen   TeamCategory = "men"
	CategoryWomen TeamCategory = "women"
)

// Team belongs to a County, and its RegionID must equal that county's
// RegionID (enforced at the Lifecycle component, not by the database).
type Team struct {
	ID        int64        `json:"id"`
	Name      string       `json:"name"`
	CountyID  int64        `json:"county_id"`
	RegionID  int64        `json:"region_id"`
	Category  TeamCategory `json:"category"`
	Status    TeamStatus   `json:"status"`
	LogoURL   *string      `json:"logo_url,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}
