package identityapp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/burenotti/go_training_backend/internal/domain"
	"github.com/burenotti/go_training_backend/internal/domain/account"
	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

var (
	ErrTokenInvalid = fmt.Errorf("%w: invalid access token", domain.ErrNotAuthenticated)
)

// Verifier turns a bearer token issued by the identity provider into a
// session.
type Verifier interface {
	Verify(ctx context.Context, token string) (*account.Session, error)
}

type providerClaims struct {
	jwt.StandardClaims
	Email        string       `json:"email"`
	Name         string       `json:"name"`
	UserMetadata userMetadata `json:"user_metadata"`
}

type userMetadata struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"`
}

func (m userMetadata) displayName() string {
	if m.Name != "" {
		return m.Name
	}
	return m.FullName
}

// JWTVerifier validates HS256 tokens signed with the provider's secret.
type JWTVerifier struct {
	Secret string
}

func (v *JWTVerifier) Verify(_ context.Context, token string) (*account.Session, error) {
	claims := providerClaims{}
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(v.Secret), nil
	})
	if err != nil {
		return nil, errors.Join(err, ErrTokenInvalid)
	}

	if _, err := uuid.Parse(claims.Subject); err != nil {
		return nil, ErrTokenInvalid
	}

	name := claims.UserMetadata.displayName()
	if name == "" {
		name = claims.Name
	}

	return &account.Session{
		ExternalID: account.ExternalID(claims.Subject),
		Email:      strings.ToLower(claims.Email),
		Name:       name,
	}, nil
}
