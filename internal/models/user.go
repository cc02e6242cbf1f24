// internal/models/user.go
// Actor identity as supplied by the external auth layer. Full user
// management (registration, credentials, profile) is out of scope; this is
// only the shape the Result State Machine needs to check role and
// team ownership.

package models

// UserRole mirrors original_source's UserRole enum. Only SUPER_ADMIN,
// COUNTY_ADMIN and COACH are meaningful to the engine's own invariants;
// PLAYER is carried for completeness since it appears in the source model.
type UserRole string

const (
	RoleSuperAdmin  UserRole = "super_admin"
	RoleCountyAdmin UserRole = "county_admin"
	RoleCoach       UserRole = "coach"
	RolePlayer      UserRole = "player"
)

// IsAdmin reports whether the role bypasses the submission-gating advisory
// window (spec §4.6).
func (r UserRole) IsAdmin() bool {
	return r == RoleSuperAdmin || r == RoleCountyAdmin
}

// Actor is the decoded identity of whoever is calling a core operation.
// TeamID is only populated for coaches, and is what SubmitResult's
// ownership check compares against a match's participants (spec §9 Open
// Question c: bare ID equality, no coach-of-record history).
type Actor struct {
	ID     int64
	Role   UserRole
	TeamID *int64
}
