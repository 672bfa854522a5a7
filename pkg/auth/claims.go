package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/halisahar-connect/civic-portal/pkg/enums"
)

// AccessTokenPayload is what MintAccessToken signs.
type AccessTokenPayload struct {
	UserID uuid.UUID
	Role   enums.Role
	// JTI is generated when empty.
	JTI string
}

// AccessTokenClaims is the session token body: {id, role} plus the
// registered claims.
type AccessTokenClaims struct {
	UserID uuid.UUID  `json:"id"`
	Role   enums.Role `json:"role"`
	jwt.RegisteredClaims
}

// Validate runs after the registered-claim checks during parsing.
func (c AccessTokenClaims) Validate() error {
	if c.UserID == uuid.Nil {
		return errors.New("token missing user id")
	}
	if !c.Role.IsValid() {
		return fmt.Errorf("token carries invalid role %q", c.Role)
	}
	if c.ID == "" {
		return errors.New("token missing jti")
	}
	return nil
}
