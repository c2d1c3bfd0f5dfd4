package ops

import (
	"context"
	"strings"

	"github.com/hpungsan/rankwatch/internal/errors"
	"github.com/hpungsan/rankwatch/internal/keyword"
	"github.com/hpungsan/rankwatch/internal/session"
)

// LoginInput contains parameters for the Login operation.
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput contains the result of the Login operation.
type LoginOutput struct {
	User *keyword.User `json:"user"`
}

// Login obtains a token with the password grant, verifies it against
// /auth/me, and promotes the session to authenticated mode. The token only
// becomes the session credential after it is obtained; verification runs
// with it in place, mirroring a fresh page load.
func Login(ctx context.Context, env *Env, input LoginInput) (*LoginOutput, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" {
		return nil, errors.NewValidationFailed("email is required")
	}
	if input.Password == "" {
		return nil, errors.NewValidationFailed("password is required")
	}

	token, err := env.Client.Token(ctx, email, input.Password)
	if err != nil {
		return nil, err
	}

	env.Session.SetToken(token)
	user, err := env.Client.VerifyIdentity(ctx)
	if err != nil {
		// A token the server just issued but will not verify leaves the
		// session as it was.
		env.Session.SetToken("")
		return nil, err
	}

	env.Session.SetUser(user)
	env.Session.SetMode(session.ModeAuth)
	// Entering the authenticated data universe: nothing cached from guest
	// mode may survive.
	env.Cache.InvalidateAll()

	return &LoginOutput{User: user}, nil
}
