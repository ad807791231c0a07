package user

import "fmt"

// Role is the access level of an account. Only the two declared values exist.
type Role uint8

const (
	RoleUser Role = iota + 1
	RoleAdmin
)

func ParseRole(s string) (Role, error) {
	switch s {
	case "user":
		return RoleUser, nil
	case "admin":
		return RoleAdmin, nil
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleAdmin:
		return "admin"
	}
	return "invalid"
}

func (r Role) Valid() bool { return r == RoleUser || r == RoleAdmin }
