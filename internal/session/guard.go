package session

import "sync"

// Decision is the route guard's verdict for a protected view.
type Decision int

const (
	// DecisionPending means hydration has not finished: render a neutral
	// placeholder and do not navigate.
	DecisionPending Decision = iota
	// DecisionAllow means the protected content may render.
	DecisionAllow
	// DecisionRedirectLogin means navigate to the login view.
	DecisionRedirectLogin
	// DecisionDeny means render nothing; the redirect was already issued.
	DecisionDeny
)

// Decide is the pure gating function over a session snapshot. It never
// redirects before hydration completes, which prevents a flash-redirect on
// reload while verification is still pending.
func Decide(st State) Decision {
	if !st.Hydrated {
		return DecisionPending
	}
	if st.Mode == ModeAuth && st.Token != "" {
		return DecisionAllow
	}
	return DecisionRedirectLogin
}

// Guard wraps Decide with a redirect-once latch: for a given guard instance
// the login redirect is issued at most once, later denials render nothing.
type Guard struct {
	mu         sync.Mutex
	redirected bool
}

// Evaluate returns the decision for the given state, downgrading repeat
// redirects to DecisionDeny.
func (g *Guard) Evaluate(st State) Decision {
	d := Decide(st)
	if d != DecisionRedirectLogin {
		return d
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.redirected {
		return DecisionDeny
	}
	g.redirected = true
	return DecisionRedirectLogin
}

// Reset re-arms the latch. Called on every session state change: a new
// identity epoch may redirect again.
func (g *Guard) Reset() {
	g.mu.Lock()
	g.redirected = false
	g.mu.Unlock()
}
