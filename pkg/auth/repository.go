package auth

import (
	"context"

	"github.com/artem13815/blog/pkg/apperr"
)

// Common errors used by repository/use cases
var (
	ErrNotFound           = apperr.New(apperr.KindNotFound, "User not found")
	ErrUserAlreadyExists  = apperr.New(apperr.KindConflict, "Email already exists")
	ErrInvalidCredentials = apperr.New(apperr.KindAuthentication, "Invalid email or password")
	ErrIncorrectPassword  = apperr.New(apperr.KindValidation, "Current password is incorrect")
)

// UserRepository abstracts persistence concerns from the domain layer.
// Create must report a duplicate email as ErrUserAlreadyExists.
type UserRepository interface {
	Create(ctx context.Context, user User) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id int64) (User, error)
	UpdateProfile(ctx context.Context, id int64, upd ProfileUpdate) (User, error)
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
}
