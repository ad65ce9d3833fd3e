package models

// IDClaims represents the claims extracted from a verified Google ID token.
type IDClaims struct {
	Subject  string `json:"sub"`     // Stable user ID from Google
	Email    string `json:"email"`   // User email (may be empty)
	Name     string `json:"name"`    // Display name
	Picture  string `json:"picture"` // Avatar URL (may be empty)
	Issuer   string `json:"iss"`     // Issuer
	Audience string `json:"aud"`     // Audience (must match the client ID)
	Expiry   int64  `json:"exp"`     // Expiration time
}
