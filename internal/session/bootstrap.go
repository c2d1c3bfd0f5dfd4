package session

import (
	"context"
	"log"
	"sync"

	"github.com/hpungsan/rankwatch/internal/api"
)

// Bootstrapper runs the startup protocol that reconciles persisted identity
// with the server: verify a persisted token, or fall back to a guest session,
// then mark the session hydrated. It runs exactly once per process.
//
// Failures are always recovered locally into a guest fallback and never
// surfaced; an unreachable server is treated the same as a rejected
// credential here.
type Bootstrapper struct {
	once   sync.Once
	sess   *Session
	client *api.Client
}

// NewBootstrapper creates a Bootstrapper over the given session and client.
func NewBootstrapper(sess *Session, client *api.Client) *Bootstrapper {
	return &Bootstrapper{sess: sess, client: client}
}

// Run executes the bootstrap sequence. Subsequent calls are no-ops. By the
// time Run returns, Hydrated is true and every network leg has resolved.
func (b *Bootstrapper) Run(ctx context.Context) {
	b.once.Do(func() { b.run(ctx) })
}

func (b *Bootstrapper) run(ctx context.Context) {
	token := b.sess.persistedToken()
	if token != "" {
		b.sess.SetToken(token)
		user, err := b.client.VerifyIdentity(ctx)
		if err == nil {
			b.sess.SetUser(user)
			b.sess.SetMode(ModeAuth)
			b.sess.setHydrated()
			return
		}
		// Rejected and unreachable both degrade to guest.
		log.Printf("session: token verification failed, falling back to guest: %v", err)
		b.sess.SetToken("")
		b.sess.SetUser(nil)
	}

	b.bootstrapGuest(ctx)
}

// bootstrapGuest establishes (or resumes) the anonymous session. On failure
// the guest id is cleared and the session still hydrates: guest mode with no
// working identifier degrades gracefully.
func (b *Bootstrapper) bootstrapGuest(ctx context.Context) {
	guestID := b.sess.persistedGuestID()
	result, err := b.client.GuestSession(ctx, guestID)
	if err == nil {
		b.sess.SetGuestID(result.ID)
	} else {
		log.Printf("session: guest session failed: %v", err)
		b.sess.SetGuestID("")
	}
	b.sess.SetMode(ModeGuest)
	b.sess.setHydrated()
}
