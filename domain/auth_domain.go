package domain

// User is the identity carried by a verified session token. Single-tenant
// deployments use DefaultUser and skip verification entirely.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

var DefaultUser = User{ID: "local"}

type AuthMeResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email,omitempty"`
	Tier      string `json:"tier"`
	ExpiresAt string `json:"expires_at,omitempty"`
}
