package token

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Verifier checks JWTs issued by an external identity provider and extracts
// the profile_id claim. Token issuance is out of scope here (spec §1
// non-goal: identity is owned elsewhere); this package only verifies.
type Verifier struct {
	secretKey string
}

// NewVerifier builds a Verifier with the provider's shared signing secret.
// The key must be at least 32 characters long to match the strength the
// issuer is expected to use.
func NewVerifier(secretKey string) (*Verifier, error) {
	if len(secretKey) < 32 {
		return nil, fmt.Errorf("invalid key size: must be at least 32 characters")
	}
	return &Verifier{secretKey}, nil
}

// Verify checks the token's signature and expiry and returns the profile_id
// claim it carries.
func (v *Verifier) Verify(tokenString string) (uuid.UUID, error) {
	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(v.secretKey), nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return uuid.Nil, fmt.Errorf("invalid token")
	}

	raw, ok := claims["profile_id"].(string)
	if !ok {
		return uuid.Nil, fmt.Errorf("token missing profile_id claim")
	}

	profileID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("token profile_id is not a valid uuid: %w", err)
	}
	return profileID, nil
}
