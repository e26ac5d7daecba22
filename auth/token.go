package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "teamchat"

// CustomClaims is the payload of an access token.
type CustomClaims struct {
	UserID      string   `json:"user_id"`
	DisplayName string   `json:"display_name"`
	Roles       []string `json:"roles"`
	jwt.RegisteredClaims
}

// TokenManager signs and checks HS256 access tokens.
type TokenManager struct {
	secret   []byte
	duration time.Duration
}

func NewTokenManager(secret string, duration time.Duration) TokenManager {
	return TokenManager{secret: []byte(secret), duration: duration}
}

func (m TokenManager) GenerateToken(identity Identity) (string, error) {
	now := time.Now()
	claims := &CustomClaims{
		UserID:      identity.UserID,
		DisplayName: identity.DisplayName,
		Roles:       identity.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.duration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// ValidateToken checks signature, algorithm, issuer and expiry.
func (m TokenManager) ValidateToken(tokenString string) (Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer))
	if err != nil {
		return Identity{}, err
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return Identity{}, jwt.ErrSignatureInvalid
	}
	return Identity{UserID: claims.UserID, DisplayName: claims.DisplayName, Roles: claims.Roles}, nil
}
