package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"makemystay/internal/domain"
	"makemystay/internal/metrics"
	"makemystay/internal/util"
	apperrors "makemystay/pkg/errors"
)

const loginErrorMessage = "Incorrect email or password"

// SignupPayload registers a new account.
type SignupPayload struct {
	Email    string `json:"email" validate:"required,email,max=150"`
	Password string `json:"password" validate:"required,min=6,max=72,maxbytes=72"`
}

// LoginPayload exchanges credentials for an access token.
type LoginPayload struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenResult is the login response body.
type TokenResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// AuthService implements signup, login and the current-user lookup.
type AuthService struct {
	users     UserStore
	tokens    *util.TokenManager
	validator *Validator
}

// NewAuthService creates a new auth service
func NewAuthService(users UserStore, tokens *util.TokenManager, validator *Validator) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		validator: validator,
	}
}

// Signup stores a new active user with a hashed password.
func (s *AuthService) Signup(ctx context.Context, p *SignupPayload) (*domain.User, error) {
	email := normalizeEmail(p.Email)
	log.Printf("[AUTH] Signup request: email=%s", email)

	payload := SignupPayload{Email: email, Password: p.Password}
	if err := s.validator.Struct(&payload); err != nil {
		log.Printf("[AUTH] Signup failed: validation error: %v", err)
		return nil, err
	}

	hashedPassword, err := util.HashPassword(payload.Password)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, apperrors.Validation("password must be at most 72 bytes")
	}
	if err != nil {
		log.Printf("[AUTH] Signup failed: password hashing error: %v", err)
		return nil, apperrors.Internal("failed to hash password", err)
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: hashedPassword,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		log.Printf("[AUTH] Signup failed for '%s': %v", email, err)
		return nil, err
	}

	log.Printf("[AUTH] Signup successful: email=%s, id=%d", email, user.ID)
	metrics.RecordSignup()
	return user, nil
}

// Login checks the credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, p *LoginPayload) (*TokenResult, error) {
	email := normalizeEmail(p.Email)
	log.Printf("[AUTH] Login attempt for user: %s", email)

	if err := s.validator.Struct(&LoginPayload{Email: email, Password: p.Password}); err != nil {
		metrics.RecordAuthAttempt(false)
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		metrics.RecordAuthAttempt(false)
		if apperrors.IsNotFound(err) {
			log.Printf("[AUTH] Login failed: user '%s' not found", email)
			return nil, apperrors.Unauthorized(loginErrorMessage)
		}
		log.Printf("[AUTH] Login failed: database error for user '%s': %v", email, err)
		return nil, err
	}

	if !util.CheckPasswordHash(p.Password, user.PasswordHash) {
		log.Printf("[AUTH] Login failed: invalid password for user '%s'", email)
		metrics.RecordAuthAttempt(false)
		return nil, apperrors.Unauthorized(loginErrorMessage)
	}

	if !user.IsActive {
		log.Printf("[AUTH] Login failed: user '%s' is inactive", email)
		metrics.RecordAuthAttempt(false)
		return nil, apperrors.Unauthorized("User account is inactive")
	}

	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		log.Printf("[AUTH] Login failed: token generation error for user '%s': %v", email, err)
		return nil, apperrors.Internal("failed to generate token", fmt.Errorf("issue token: %w", err))
	}

	log.Printf("[AUTH] Login successful for user '%s' (id=%d)", email, user.ID)
	metrics.RecordAuthAttempt(true)

	return &TokenResult{
		AccessToken: token,
		TokenType:   "bearer",
	}, nil
}

// Me returns the user attached to ctx by the auth gate.
func (s *AuthService) Me(ctx context.Context) (*domain.User, error) {
	user, ok := UserFromContext(ctx)
	if !ok {
		return nil, apperrors.Unauthorized(CredentialsErrorMessage)
	}
	log.Printf("[AUTH] Me request for user: %s (id=%d)", user.Email, user.ID)
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
