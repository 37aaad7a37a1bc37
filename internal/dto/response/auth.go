package response

import "time"

// AuthResponse is returned by every flow that signs a user in. The token is
// sent at the envelope level and as a cookie, not inside data.
type AuthResponse struct {
	Token     string
	ExpiresAt time.Time
	User      UserResponse
}
