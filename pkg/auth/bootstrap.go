package auth

import (
	"context"
	"errors"
)

// EnsureUser creates the account unless one with the same email already
// exists. created is false when nothing was written.
func EnsureUser(ctx context.Context, uc AuthUseCase, in NewUser) (created bool, err error) {
	if _, err := uc.CreateUser(ctx, in); err != nil {
		if errors.Is(err, ErrUserAlreadyExists) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
