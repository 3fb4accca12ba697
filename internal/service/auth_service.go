package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"safepay/config"
	"safepay/internal/auth"
	"safepay/internal/domain"
	"safepay/internal/models"
	"safepay/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// RegisterInput is the profile and password of a new account.
type RegisterInput struct {
	Name        string
	Surname     string
	Username    string
	PhoneNumber string
	Email       string
	Password    string
}

// UserService is the user directory: registration and profile lookups.
type UserService struct {
	store      repository.Store
	tokens     *auth.TokenIssuer
	bcryptCost int
	log        *slog.Logger
	now        func() time.Time
}

func NewUserService(store repository.Store, tokens *auth.TokenIssuer, cfg *config.SecurityConfig, log *slog.Logger) *UserService {
	return &UserService{
		store:      store,
		tokens:     tokens,
		bcryptCost: cfg.BcryptCost,
		log:        log,
		now:        time.Now,
	}
}

// Register creates the user and its credential and returns the user with a
// fresh session token. Username and email must both be unused.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}
	u := &models.User{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Surname:     in.Surname,
		Username:    in.Username,
		PhoneNumber: in.PhoneNumber,
		Email:       in.Email,
		CreatedAt:   s.now().UTC(),
	}
	token, err := s.tokens.Issue(u.ID, u.Name, u.Surname)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	err = s.store.RunInTx(ctx, func(ctx context.Context, tx repository.Store) error {
		if err := ensureAbsent(tx.Users().GetByUsername(ctx, in.Username)); err != nil {
			return err
		}
		if err := ensureAbsent(tx.Users().GetByEmail(ctx, in.Email)); err != nil {
			return err
		}
		if err := tx.Users().Create(ctx, u); err != nil {
			return err
		}
		return tx.Credentials().Create(ctx, &models.Credential{
			UserID:       u.ID,
			PasswordHash: string(hash),
			AuthToken:    token,
		})
	})
	if err != nil {
		return nil, "", err
	}
	s.log.Info("user registered", "user_id", u.ID, "username", u.Username)
	return u, token, nil
}

func (s *UserService) LookupByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.store.Users().GetByUsername(ctx, username)
}

func (s *UserService) LookupByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.store.Users().GetByEmail(ctx, email)
}

func ensureAbsent(_ *models.User, err error) error {
	switch {
	case err == nil:
		return domain.ErrConflict
	case errors.Is(err, domain.ErrNotFound):
		return nil
	default:
		return err
	}
}

// AuthService logs users in and verifies session tokens.
type AuthService struct {
	store         repository.Store
	tokens        *auth.TokenIssuer
	singleSession bool
	log           *slog.Logger
}

func NewAuthService(store repository.Store, tokens *auth.TokenIssuer, cfg *config.JWTConfig, log *slog.Logger) *AuthService {
	return &AuthService{
		store:         store,
		tokens:        tokens,
		singleSession: cfg.SingleSession,
		log:           log,
	}
}

// Login checks the password and issues a new token, replacing the stored one.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	u, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	cred, err := s.store.Credentials().GetByUserID(ctx, u.ID)
	if err != nil {
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return nil, "", domain.ErrUnauthorized
	}
	token, err := s.tokens.Issue(u.ID, u.Name, u.Surname)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	if err := s.store.Credentials().SetToken(ctx, u.ID, token); err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Verify returns the identity carried by token. In single-session mode the
// token must also be the one most recently issued to the user.
func (s *AuthService) Verify(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !s.singleSession {
		return claims, nil
	}
	cred, err := s.store.Credentials().GetByUserID(ctx, claims.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if subtle.ConstantTimeCompare([]byte(cred.AuthToken), []byte(token)) != 1 {
		s.log.Debug("superseded token rejected", "user_id", claims.UserID)
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}
