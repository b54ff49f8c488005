package domain

import "fmt"

// Role is the ordered permission tier of a user. Every tier is a strict
// superset of the one below it: admin > moderator > wanner.
type Role string

const (
	RoleWanner    Role = "wanner"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

var roleLevels = map[Role]int{
	RoleWanner:    1,
	RoleModerator: 2,
	RoleAdmin:     3,
}

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if _, ok := roleLevels[r]; !ok {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

func (r Role) Level() int {
	return roleLevels[r]
}

func (r Role) AtLeast(other Role) bool {
	return roleLevels[r] >= roleLevels[other]
}

func (r Role) String() string {
	return string(r)
}
