package family

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidInvite is returned for empty, tampered or expired codes.
var ErrInvalidInvite = errors.New("invalid family invite code")

const issuer = "ai-cookbook"

// Family is a group of users sharing a household.
type Family struct {
	ID   string
	Name string
}

type inviteClaims struct {
	FamilyName string `json:"fam"`
	jwt.RegisteredClaims
}

// NewFamily creates a family with a fresh id.
func NewFamily(name string) Family {
	return Family{ID: "fam-" + uuid.NewString(), Name: strings.TrimSpace(name)}
}

// NewInvite signs an invite code for f that expires after ttl.
func NewInvite(secret string, f Family, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("FAMILY_INVITE_SECRET environment variable not set")
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, inviteClaims{
		FamilyName: f.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   f.ID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return token.SignedString([]byte(secret))
}

// Redeem resolves an invite code. Signed codes are verified against secret.
// Any other non-empty code names the family directly, so households can
// share a plain word.
func Redeem(secret, code string) (Family, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Family{}, ErrInvalidInvite
	}

	if !looksSigned(code) {
		return Family{ID: code, Name: "Family " + code}, nil
	}
	if secret == "" {
		return Family{}, fmt.Errorf("%w: signed codes are not accepted", ErrInvalidInvite)
	}

	claims := &inviteClaims{}
	_, err := jwt.ParseWithClaims(code, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer))
	if err != nil {
		return Family{}, fmt.Errorf("%w: %v", ErrInvalidInvite, err)
	}
	if claims.Subject == "" {
		return Family{}, fmt.Errorf("%w: missing family id", ErrInvalidInvite)
	}

	name := claims.FamilyName
	if name == "" {
		name = "Family " + claims.Subject
	}
	return Family{ID: claims.Subject, Name: name}, nil
}

// looksSigned reports whether code has the three-segment JWT shape.
func looksSigned(code string) bool {
	return strings.Count(code, ".") == 2 && strings.HasPrefix(code, "eyJ")
}
