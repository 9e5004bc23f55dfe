package model

type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
	FullName     string `json:"full_name"`
}

// SessionUser is the view of a User persisted as the current-session
// pointer; it never carries the password hash.
type SessionUser struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// Session returns the stripped view of the user.
func (u User) Session() SessionUser {
	return SessionUser{
		ID:       u.ID,
		Email:    u.Email,
		FullName: u.FullName,
	}
}
