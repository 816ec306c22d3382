package auth

import (
	"os"
	"time"

	autherrors "go-empms/internal/auth/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	AccessTokenTTL  = time.Hour
	RefreshTokenTTL = time.Hour * 24 * 7
)

// issueToken signs an HS256 token carrying the identity claims the
// middleware expects. Every token gets its own jti so it can be
// revoked individually.
func issueToken(userID, role string, ttl time.Duration) (token, jti string, err error) {
	jti = uuid.New().String()
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"jti":     jti,
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(ttl).Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		return "", "", autherrors.ErrTokenGenerationFailed
	}
	return signed, jti, nil
}

// parseToken verifies the signature and returns the claims. Expiry is
// checked by the jwt library itself.
func parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherrors.ErrInvalidToken
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return nil, autherrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, autherrors.ErrInvalidToken
	}
	return claims, nil
}
