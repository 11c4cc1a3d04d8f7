package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/paintdepot/inkstock-backend/pkg/config"
	"github.com/paintdepot/inkstock-backend/pkg/enums"
)

var jwtSigningMethod = jwt.SigningMethodHS256

// ActorClaims is the typed JWT the authentication collaborator issues. The
// core only verifies and reads it.
type ActorClaims struct {
	UserID uuid.UUID       `json:"user_id"`
	Name   string          `json:"name"`
	Role   enums.ActorRole `json:"role"`
	jwt.RegisteredClaims
}

// Actor converts the claims into the explicit actor passed to services.
func (c *ActorClaims) Actor() Actor {
	return Actor{UserID: c.UserID, Name: c.Name, Role: c.Role}
}

// MintActorToken issues a signed JWT for the provided actor. Used by the dev
// tooling and tests; production tokens come from the auth collaborator.
func MintActorToken(cfg config.JWTConfig, now time.Time, actor Actor) (string, error) {
	if cfg.Secret == "" {
		return "", fmt.Errorf("jwt secret is required")
	}
	if cfg.Issuer == "" {
		return "", fmt.Errorf("jwt issuer is required")
	}
	if cfg.ExpirationMinutes <= 0 {
		return "", fmt.Errorf("jwt expiration minutes must be positive")
	}
	if !actor.Role.IsValid() {
		return "", fmt.Errorf("invalid actor role %q", actor.Role)
	}

	claims := ActorClaims{
		UserID: actor.UserID,
		Name:   actor.Name,
		Role:   actor.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(cfg.ExpirationMinutes) * time.Minute)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwtSigningMethod, claims)
	signed, err := token.SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing jwt: %w", err)
	}
	return signed, nil
}

// ParseActorToken validates the JWT string and returns typed claims.
func ParseActorToken(cfg config.JWTConfig, tokenString string) (*ActorClaims, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}

	claims := &ActorClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(cfg.Secret), nil
		},
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
	)
	if err != nil {
		return nil, err
	}

	return claims, nil
}
