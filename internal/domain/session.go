package domain

import "time"

// User is an account known to the identity provider.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Session is the proof of identity for the current user. A nil *Session means
// "none".
type Session struct {
	ID        string    `json:"-"`
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName,omitempty"`
	Role      Role      `json:"role,omitempty"`
	Token     string    `json:"token,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// SignedIn reports whether s identifies a user.
func (s *Session) SignedIn() bool {
	return s != nil && s.UserID != ""
}
