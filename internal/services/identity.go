package services

import (
	"context"
	"log"

	"makemystay/internal/domain"
	"makemystay/internal/util"
	apperrors "makemystay/pkg/errors"
)

// CredentialsErrorMessage is returned for every bearer token that does not
// resolve to an active user.
const CredentialsErrorMessage = "Could not validate credentials"

// UserStore persists credentials.
type UserStore interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// IdentityResolver turns a bearer token into the user it was issued to.
// It keeps no state between calls.
type IdentityResolver struct {
	users  UserStore
	tokens *util.TokenManager
}

func NewIdentityResolver(users UserStore, tokens *util.TokenManager) *IdentityResolver {
	return &IdentityResolver{users: users, tokens: tokens}
}

// Resolve verifies token and loads its subject. Any failure other than a
// storage error is Unauthorized.
func (r *IdentityResolver) Resolve(ctx context.Context, token string) (*domain.User, error) {
	subject, err := r.tokens.Verify(token)
	if err != nil {
		log.Printf("[AUTH] Token rejected: %v", err)
		return nil, apperrors.Unauthorized(CredentialsErrorMessage)
	}

	user, err := r.users.GetByEmail(ctx, subject)
	if err != nil {
		if apperrors.IsNotFound(err) {
			log.Printf("[AUTH] Token rejected: subject %q has no account", subject)
			return nil, apperrors.Unauthorized(CredentialsErrorMessage)
		}
		return nil, err
	}

	if !user.IsActive {
		log.Printf("[AUTH] Token rejected: user id=%d is inactive", user.ID)
		return nil, apperrors.Unauthorized(CredentialsErrorMessage)
	}

	return user, nil
}

type contextKey int

const userContextKey contextKey = iota

// WithUser returns a copy of ctx carrying the authenticated user.
func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userContextKey).(*domain.User)
	return user, ok && user != nil
}
