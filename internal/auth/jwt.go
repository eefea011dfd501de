package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ssshpaklevka/deliv-ad/internal/model"
)

// Claims identify one console session. The upstream token pair never leaves
// the server; browsers only ever hold this token.
type Claims struct {
	SessionID string     `json:"session_id"`
	UserID    int64      `json:"user_id"`
	Role      model.Role `json:"role"`
	jwt.RegisteredClaims
}

func NewSessionToken(secret, issuer string, ttl time.Duration, claims Claims) (string, error) {
	now := time.Now().UTC()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   claims.SessionID,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseSessionToken(secret, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
