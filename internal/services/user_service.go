package services

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/ahmetcoskunkizilkaya/intelligent-content-api/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/intelligent-content-api/internal/dto"
	"github.com/ahmetcoskunkizilkaya/intelligent-content-api/internal/models"
	"github.com/ahmetcoskunkizilkaya/intelligent-content-api/internal/repository"
)

const TokenTypeBearer = "bearer"

var (
	ErrEmailTaken         = apperr.New(apperr.KindConflict, "User already exists")
	ErrInvalidEmail       = apperr.InvalidInput("Invalid email address")
	ErrWeakPassword       = apperr.InvalidInput("Password must be at least 8 characters long and include an uppercase letter, a lowercase letter, a number, and a special character.")
	ErrInvalidCredentials = apperr.Unauthorized("Invalid credentials")
)

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

type TokenIssuer interface {
	Issue(userID uint, email string) (string, error)
}

type UserService struct {
	users  UserStore
	hasher Hasher
	tokens TokenIssuer
}

func NewUserService(users UserStore, hasher Hasher, tokens TokenIssuer) *UserService {
	return &UserService{users: users, hasher: hasher, tokens: tokens}
}

// Signup registers a new identity. Duplicate emails are reported before the
// password policy is checked.
func (s *UserService) Signup(ctx context.Context, req *dto.SignupRequest) (*models.User, error) {
	if !validEmail(req.Email) {
		return nil, ErrInvalidEmail
	}

	_, err := s.users.GetByEmail(ctx, req.Email)
	switch {
	case err == nil:
		slog.Warn("signup for existing email", "operation", "signup")
		return nil, ErrEmailTaken
	case !errors.Is(err, repository.ErrNotFound):
		return nil, internalError("signup", 0, "Internal server error", err)
	}

	if !ValidPassword(req.Password) {
		return nil, ErrWeakPassword
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, internalError("signup", 0, "Internal server error", err)
	}

	user := &models.User{Email: req.Email, PasswordHash: hash}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, internalError("signup", 0, "Internal server error", err)
	}

	slog.Info("user created", "operation", "signup", "user_id", user.ID)
	return user, nil
}

// Signin checks the credentials and issues an access token. Unknown emails
// and wrong passwords are indistinguishable.
func (s *UserService) Signin(ctx context.Context, req *dto.SigninRequest) (*dto.TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, internalError("signin", 0, "Internal server error", err)
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, internalError("signin", user.ID, "Internal server error", err)
	}

	slog.Info("user signed in", "operation", "signin", "user_id", user.ID)
	return &dto.TokenResponse{AccessToken: token, TokenType: TokenTypeBearer}, nil
}

// validEmail accepts a bare addr-spec such as a@b.com. Display-name forms
// like "A <a@b.com>", quoted local parts and dotless domains are rejected.
func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	at := strings.LastIndexByte(email, '@')
	local, domain := email[:at], email[at+1:]
	if strings.ContainsRune(local, '"') {
		return false
	}
	dot := strings.LastIndexByte(domain, '.')
	return dot > 0 && dot < len(domain)-1 && !strings.HasPrefix(domain, "[")
}
