package ops

import (
	"context"
	"log"
)

// LogoutOutput contains the result of the Logout operation.
type LogoutOutput struct {
	GuestID string `json:"guest_id,omitempty"`
}

// Logout clears the authenticated identity, invalidates every cached
// resource (the session mode changes, so no entry may survive), and
// re-establishes a guest session so the visitor keeps working anonymously.
// The preserved guest id is offered to the server so the same quota bucket
// resumes; a failed guest re-establishment degrades gracefully.
func Logout(ctx context.Context, env *Env) (*LogoutOutput, error) {
	env.Session.Logout()
	env.Cache.InvalidateAll()

	result, err := env.Client.GuestSession(ctx, env.Session.GuestID())
	if err != nil {
		log.Printf("logout: guest session failed: %v", err)
		env.Session.SetGuestID("")
		return &LogoutOutput{}, nil
	}

	env.Session.SetGuestID(result.ID)
	return &LogoutOutput{GuestID: result.ID}, nil
}
