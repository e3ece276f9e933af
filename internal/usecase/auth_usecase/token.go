package auth

import (
	"errors"
	"time"

	"storefront/internal/domain/model"

	"github.com/golang-jwt/jwt/v4"
)

// JWTのclaim名
const (
	ClaimSubject      = "sub"
	ClaimEmail        = "email"
	ClaimIsAdmin      = "adm"
	ClaimTokenVersion = "tv"
)

// HS256 でアクセストークンを発行する。
type JWTIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func NewJWTIssuer(secret string, accessTTL time.Duration) *JWTIssuer {
	return &JWTIssuer{secret: []byte(secret), accessTTL: accessTTL}
}

func (i *JWTIssuer) Issue(user model.User, now time.Time) (string, time.Time, error) {
	if len(i.secret) == 0 {
		return "", time.Time{}, errors.New("jwt secret is empty")
	}
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		ClaimSubject:      user.ID,
		ClaimEmail:        user.Email,
		ClaimIsAdmin:      user.IsAdmin,
		ClaimTokenVersion: user.TokenVersion,
		"iat":             now.Unix(),
		"exp":             expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}
