package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"rental-backend/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	DB     *gorm.DB
	Tokens *TokenManager
}

func NewAuthService(db *gorm.DB, tokens *TokenManager) *AuthService {
	return &AuthService{DB: db, Tokens: tokens}
}

// LoginResult is returned to the client after a successful login.
type LoginResult struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int64        `json:"expires_in"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        *models.User `json:"user"`
}

// Login authenticates an owner. Valid credentials for any other role fail with ErrForbidden.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	return s.login(ctx, email, password, models.AuthorityOwner)
}

// AdminLogin is the admin counterpart of Login.
func (s *AuthService) AdminLogin(ctx context.Context, email, password string) (*LoginResult, error) {
	return s.login(ctx, email, password, models.AuthorityAdmin)
}

func (s *AuthService) login(ctx context.Context, email, password, authority string) (*LoginResult, error) {
	user, err := s.checkCredentials(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if user.Role.Authority != authority {
		return nil, newError(ErrForbidden, "only %s accounts may log in here", authority)
	}

	token, expiresAt, err := s.Tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.Tokens.TTL().Seconds()),
		ExpiresAt:   expiresAt,
		User:        user,
	}, nil
}

func (s *AuthService) checkCredentials(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, invalidf("email and password are required")
	}

	var user models.User
	err := s.DB.WithContext(ctx).Preload("Role").Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, newError(ErrUnauthorized, "incorrect email or password")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, newError(ErrUnauthorized, "incorrect email or password")
	}
	if !user.IsActive {
		return nil, newError(ErrUnauthorized, "account is inactive")
	}
	return &user, nil
}

// Authenticate resolves a bearer token to its active user. The user is found
// by owner id, so a token survives an email change.
func (s *AuthService) Authenticate(ctx context.Context, rawToken string) (*models.User, error) {
	claims, err := s.Tokens.Parse(rawToken)
	if err != nil {
		return nil, err
	}

	var user models.User
	err = s.DB.WithContext(ctx).Preload("Role").
		Where("owner_id = ?", claims.OwnerID).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, newError(ErrUnauthorized, "could not validate credentials")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !user.IsActive {
		return nil, newError(ErrUnauthorized, "account is inactive")
	}
	return &user, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
