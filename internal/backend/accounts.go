package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/smallbiznis/helpdesk/internal/auth/password"
	"github.com/smallbiznis/helpdesk/internal/helpdesk/domain"
	"github.com/smallbiznis/helpdesk/pkg/db"
	"github.com/smallbiznis/helpdesk/pkg/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresIn int64       `json:"expires_in"`
	User      domain.User `json:"user"`
}

type AccountService struct {
	db              *gorm.DB
	accounts        repository.Repository[Account]
	resources       repository.Repository[Resource]
	tokens          *TokenIssuer
	defaultPassword string
	log             *zap.Logger
}

func NewAccountService(conn *gorm.DB, tokens *TokenIssuer, defaultPassword string, log *zap.Logger) *AccountService {
	return &AccountService{
		db:              conn,
		accounts:        repository.ProvideStore[Account](conn),
		resources:       repository.ProvideStore[Resource](conn),
		tokens:          tokens,
		defaultPassword: defaultPassword,
		log:             log.Named("backend.accounts"),
	}
}

func (s *AccountService) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return LoginResponse{}, ErrInvalidCredentials
	}

	account, err := s.accounts.FindOne(ctx, &Account{Email: email})
	if err != nil {
		return LoginResponse{}, err
	}
	if account == nil || !password.Verify(req.Password, account.PasswordHash) {
		return LoginResponse{}, ErrInvalidCredentials
	}

	user, err := s.User(ctx, account.UserID)
	if err != nil {
		return LoginResponse{}, err
	}
	if !user.Active {
		return LoginResponse{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(*account)
	if err != nil {
		return LoginResponse{}, err
	}
	return LoginResponse{
		Token:     token,
		ExpiresIn: int64(s.tokens.TTL().Seconds()),
		User:      user,
	}, nil
}

// User reads the user resource behind an account.
func (s *AccountService) User(ctx context.Context, userID string) (domain.User, error) {
	res, err := s.resources.FindOne(ctx, &Resource{Kind: string(domain.KindUser), ID: userID})
	if err != nil {
		return domain.User{}, err
	}
	if res == nil {
		return domain.User{}, ErrNotFound
	}
	var user domain.User
	if err := json.Unmarshal(res.Payload, &user); err != nil {
		return domain.User{}, fmt.Errorf("decode user %s: %w", userID, err)
	}
	return user, nil
}

// syncUser keeps the account in step with a user resource written in tx. New
// accounts start with the default password.
func (s *AccountService) syncUser(ctx context.Context, tx *gorm.DB, user domain.User) error {
	repo := s.accounts.WithTrx(tx)
	email := normalizeEmail(user.Email)
	if email == "" {
		return fmt.Errorf("%w: user email is required", ErrInvalidRequest)
	}

	existing, err := repo.FindOne(ctx, &Account{UserID: user.ID})
	if err != nil {
		return err
	}
	if existing != nil {
		_, err := repo.Update(ctx, &Account{UserID: user.ID}, map[string]any{
			"email": email,
			"role":  string(user.Role),
		})
		return translate(err)
	}

	hash, err := password.Hash(s.defaultPassword)
	if err != nil {
		return err
	}
	return translate(repo.Create(ctx, &Account{
		UserID:       user.ID,
		Email:        email,
		PasswordHash: hash,
		Role:         string(user.Role),
	}))
}

func (s *AccountService) removeUser(ctx context.Context, tx *gorm.DB, userID string) error {
	_, err := s.accounts.WithTrx(tx).Delete(ctx, &Account{UserID: userID})
	return err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func translate(err error) error {
	if db.IsDuplicateKeyErr(err) {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}
