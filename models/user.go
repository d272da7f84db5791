package models

// UserRole mirrors the "role" claim of access tokens issued by the auth backend.
type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RoleClubOwner UserRole = "club_owner"
	RolePlayer    UserRole = "player"
)

// CanManageMatches reports whether the role may submit or correct match scores.
func (r UserRole) CanManageMatches() bool {
	return r == RoleAdmin || r == RoleClubOwner
}
