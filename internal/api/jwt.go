package api

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/TonganTuring/learning-tongan-app/internal/config"
)

// JWTProcessor verifies identity-provider session tokens. The token's
// subject carries the external user id that scopes every datastore access.
type JWTProcessor struct {
	issuer string
	secret []byte
}

func NewJWTProcessor(conf config.JWT) *JWTProcessor {
	return &JWTProcessor{
		issuer: conf.Issuer,
		secret: []byte(conf.Secret),
	}
}

func (p *JWTProcessor) ParseSessionToken(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return p.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return "", fmt.Errorf("invalid token claims")
	}

	if iss, _ := claims.GetIssuer(); iss != p.issuer {
		return "", fmt.Errorf("invalid issuer")
	}

	subject, err := parsed.Claims.GetSubject()
	if err != nil {
		return "", fmt.Errorf("get subject: %w", err)
	}
	if subject == "" {
		return "", fmt.Errorf("empty subject")
	}
	return subject, nil
}
