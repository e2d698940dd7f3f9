package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims carries the authenticated identity. Email is included because
// invitation acceptance compares the session email to the invitation target.
type AuthClaims struct {
	IdentityId string `json:"identityId"`
	Email      string `json:"email"`
	jwt.RegisteredClaims
}

var issuer = "draftpad"

var ErrInvalidClaims = errors.New("invalid token claims")

// GenToken generates an access token and a refresh token for the identity.
func GenToken(identityId, email string, secretKey []byte, accessExpire, refreshExpire time.Duration) (aToken, rToken string, err error) {
	aClaims := &AuthClaims{
		IdentityId: identityId,
		Email:      email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(accessExpire)),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}
	aToken, err = jwt.NewWithClaims(jwt.SigningMethodHS256, aClaims).SignedString(secretKey)
	if err != nil {
		return "", "", err
	}

	rClaims := jwt.RegisteredClaims{
		Issuer:    issuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(refreshExpire)),
	}
	rToken, err = jwt.NewWithClaims(jwt.SigningMethodHS256, rClaims).SignedString(secretKey)
	if err != nil {
		return "", "", err
	}

	return aToken, rToken, nil
}

// ParseToken validates an access token and returns its claims.
func ParseToken(aToken, secretKey string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(aToken, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*AuthClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidClaims
}
