package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// GoogleClaims are the display claims carried by a Google ID token.
type GoogleClaims struct {
	Name  string
	Email string
	Sub   string
}

// DecodeGoogleClaims extracts name/email/sub from a Google credential
// WITHOUT verifying the signature. The claims are for optimistic UI and the
// legacy request shape only; the raw credential is always forwarded to the
// backend, which owns verification.
func DecodeGoogleClaims(credential string) (GoogleClaims, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(credential, claims); err != nil {
		return GoogleClaims{}, fmt.Errorf("failed to decode google credential: %w", err)
	}

	out := GoogleClaims{}
	if v, ok := claims["name"].(string); ok {
		out.Name = v
	}
	if v, ok := claims["email"].(string); ok {
		out.Email = v
	}
	if v, ok := claims["sub"].(string); ok {
		out.Sub = v
	}
	return out, nil
}
