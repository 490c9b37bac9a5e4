package classroom

// Role identifies what kind of participant a session represents.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// ParseRole maps the connection's type parameter to a Role. Anything other
// than an exact "teacher" falls back to student, including the empty string.
func ParseRole(s string) Role {
	if s == string(RoleTeacher) {
		return RoleTeacher
	}
	return RoleStudent
}
