package models

// User is the authenticated account as returned by /users/me.
type User struct {
	ID         ID     `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name,omitempty"`
	IsActive   bool   `json:"is_active,omitempty"`
	IsVerified bool   `json:"is_verified,omitempty"`
}

// DisplayName prefers the name and falls back to the email.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// Token is the bearer token returned by the password grant.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
