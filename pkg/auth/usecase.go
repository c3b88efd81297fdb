package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/artem13815/blog/pkg/apperr"
	"github.com/artem13815/blog/pkg/validate"
)

const (
	passwordMinLen = 6
	passwordMaxLen = 128
)

// AuthUseCase describes authentication and account behaviour.
type AuthUseCase interface {
	Login(ctx context.Context, email, password string) (AuthResult, error)
	Me(ctx context.Context, userID int64) (User, error)
	UpdateProfile(ctx context.Context, userID int64, upd ProfileUpdate) (User, error)
	ChangePassword(ctx context.Context, userID int64, current, next string) error
	CreateUser(ctx context.Context, in NewUser) (User, error)
}

type AuthResult struct {
	User      User
	Token     string
	ExpiresIn time.Duration
}

type authService struct {
	repo   UserRepository
	tokens TokenIssuer
	hasher PasswordHasher
	log    *slog.Logger
}

// NewAuthService returns default implementation of AuthUseCase.
func NewAuthService(repo UserRepository, tokens TokenIssuer, hasher PasswordHasher, log *slog.Logger) AuthUseCase {
	if log == nil {
		log = slog.Default()
	}
	return &authService{repo: repo, tokens: tokens, hasher: hasher, log: log}
}

func (s *authService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	email = normalizeEmail(email)
	if err := validate.Email(email); err != nil {
		return AuthResult{}, err
	}
	if err := validate.Length("Password", password, passwordMinLen, 0); err != nil {
		return AuthResult{}, err
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, err
	}
	if err := s.checkPassword(ctx, user, password); err != nil {
		return AuthResult{}, err
	}

	token, err := s.tokens.Issue(ctx, user)
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue token: %w", err)
	}
	return AuthResult{User: user, Token: token, ExpiresIn: s.tokens.TTL()}, nil
}

// checkPassword verifies password against the stored digest and upgrades
// legacy plaintext records to bcrypt on a successful match.
func (s *authService) checkPassword(ctx context.Context, user User, password string) error {
	ok, legacy := s.hasher.Verify(password, user.PasswordHash)
	if legacy {
		s.log.Warn("legacy plaintext password record", "user_id", user.ID, "matched", ok, "allowed", s.hasher.AllowLegacy)
	}
	if !ok {
		return ErrInvalidCredentials
	}
	if legacy {
		hash, err := s.hasher.Hash(password)
		if err != nil {
			return fmt.Errorf("rehash legacy password: %w", err)
		}
		if err := s.repo.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
			return fmt.Errorf("store rehashed password: %w", err)
		}
		s.log.Info("legacy password migrated to bcrypt", "user_id", user.ID)
	}
	return nil
}

func (s *authService) Me(ctx context.Context, userID int64) (User, error) {
	return s.repo.GetByID(ctx, userID)
}

func (s *authService) UpdateProfile(ctx context.Context, userID int64, upd ProfileUpdate) (User, error) {
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if err := validate.Length("Name", name, 2, 50); err != nil {
			return User{}, err
		}
		upd.Name = &name
	}
	if upd.Avatar != nil && *upd.Avatar != "" {
		if err := validate.URL("Avatar", *upd.Avatar); err != nil {
			return User{}, err
		}
	}
	if upd.Bio != nil {
		bio := strings.TrimSpace(*upd.Bio)
		if err := validate.Length("Bio", bio, 0, 500); err != nil {
			return User{}, err
		}
		upd.Bio = &bio
	}
	return s.repo.UpdateProfile(ctx, userID, upd)
}

func (s *authService) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	if current == "" {
		return apperr.Invalid("Current password is required")
	}
	if err := validate.Length("New password", next, passwordMinLen, passwordMaxLen); err != nil {
		return err
	}
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.checkPassword(ctx, user, current); err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return ErrIncorrectPassword
		}
		return err
	}
	hash, err := s.hasher.Hash(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.repo.UpdatePasswordHash(ctx, userID, hash)
}

func (s *authService) CreateUser(ctx context.Context, in NewUser) (User, error) {
	email := normalizeEmail(in.Email)
	if err := validate.Email(email); err != nil {
		return User{}, err
	}
	if err := validate.Length("Password", in.Password, passwordMinLen, passwordMaxLen); err != nil {
		return User{}, err
	}
	if in.Role == "" {
		in.Role = RoleUser
	}
	if !in.Role.Valid() {
		return User{}, apperr.Invalid("Role must be ADMIN or USER")
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}
	now := time.Now().UTC()
	return s.repo.Create(ctx, User{
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(in.Name),
		Role:         in.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
