package ops

import (
	"context"
	"strings"

	"github.com/hpungsan/rankwatch/internal/errors"
)

// RegisterInput contains parameters for the Register operation.
type RegisterInput struct {
	Email           string
	Password        string
	ConfirmPassword string
}

// RegisterOutput contains the result of the Register operation.
type RegisterOutput struct {
	Email string `json:"email"`
}

// Register creates a new account. Validation failures (including a password
// confirmation mismatch) are caught before any request is issued. A
// successful registration does not log the user in.
func Register(ctx context.Context, env *Env, input RegisterInput) (*RegisterOutput, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" {
		return nil, errors.NewValidationFailed("email is required")
	}
	if input.Password == "" {
		return nil, errors.NewValidationFailed("password is required")
	}
	if input.Password != input.ConfirmPassword {
		return nil, errors.NewValidationFailed("passwords do not match")
	}

	if err := env.Client.Register(ctx, email, input.Password); err != nil {
		return nil, err
	}

	return &RegisterOutput{Email: email}, nil
}
