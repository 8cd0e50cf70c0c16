package models

type Role uint8

const (
	RoleStudent    Role = 0
	RoleInstructor Role = 1
	RoleAdmin      Role = 2
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleInstructor:
		return "instructor"
	}
	return "student"
}

// RoleFromString defaults to student for unknown values
func RoleFromString(s string) Role {
	switch s {
	case "admin":
		return RoleAdmin
	case "instructor", "lecturer":
		return RoleInstructor
	}
	return RoleStudent
}
