package domain

import "time"

// Role is an ordered capability level. Higher levels include every
// permission of the levels below them.
type Role string

const (
	RoleUser         Role = "user"
	RoleJuniorAuthor Role = "junior-author"
	RoleAdmin        Role = "admin"
	RoleSuperAdmin   Role = "super-admin"
)

var roleLevels = map[Role]int{
	RoleUser:         0,
	RoleJuniorAuthor: 1,
	RoleAdmin:        2,
	RoleSuperAdmin:   3,
}

// Level returns the numeric rank of the role, or -1 for an unknown role.
func (r Role) Level() int {
	lvl, ok := roleLevels[r]
	if !ok {
		return -1
	}
	return lvl
}

// AtLeast reports whether r carries at least the capabilities of required.
// Unknown roles never satisfy any requirement.
func (r Role) AtLeast(required Role) bool {
	lvl := r.Level()
	return lvl >= 0 && lvl >= required.Level()
}

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	return r.Level() >= 0
}

// User models a registered account.
type User struct {
	ID           string    `json:"id"`
	FullName     string    `json:"full_name"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Biography    string    `json:"biography,omitempty"`
	Role         Role      `json:"role"`
	Verified     bool      `json:"verified"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
