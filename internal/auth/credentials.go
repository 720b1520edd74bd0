package auth

// The portal has exactly one teacher account. The pair is fixed on
// both sides: the client gate checks it locally for UI gating, and
// the server checks it again before issuing a session token.
const (
	TeacherID       = "sunrise"
	TeacherPassword = "password"
)

// Check reports whether the pair matches the static credentials.
func Check(id, password string) bool {
	return id == TeacherID && password == TeacherPassword
}
