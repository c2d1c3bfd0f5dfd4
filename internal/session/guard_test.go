package session

import "testing"

func TestDecide(t *testing.T) {
	tests := []struct {
		name  string
		state State
		want  Decision
	}{
		{
			name:  "not hydrated",
			state: State{Mode: ModeGuest},
			want:  DecisionPending,
		},
		{
			name:  "not hydrated even with token",
			state: State{Mode: ModeAuth, Token: "tok"},
			want:  DecisionPending,
		},
		{
			name:  "hydrated authenticated",
			state: State{Mode: ModeAuth, Token: "tok", Hydrated: true},
			want:  DecisionAllow,
		},
		{
			name:  "hydrated guest",
			state: State{Mode: ModeGuest, Hydrated: true},
			want:  DecisionRedirectLogin,
		},
		{
			name:  "hydrated auth mode without token never allows",
			state: State{Mode: ModeAuth, Hydrated: true},
			want:  DecisionRedirectLogin,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decide(tt.state); got != tt.want {
				t.Errorf("Decide = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGuard_RedirectsExactlyOnce(t *testing.T) {
	g := &Guard{}
	unauth := State{Mode: ModeGuest, Hydrated: true}

	if d := g.Evaluate(unauth); d != DecisionRedirectLogin {
		t.Fatalf("first Evaluate = %v, want redirect", d)
	}
	for i := 0; i < 3; i++ {
		if d := g.Evaluate(unauth); d != DecisionDeny {
			t.Errorf("Evaluate #%d = %v, want deny", i+2, d)
		}
	}
}

func TestGuard_ResetRearmsLatch(t *testing.T) {
	g := &Guard{}
	unauth := State{Mode: ModeGuest, Hydrated: true}

	if d := g.Evaluate(unauth); d != DecisionRedirectLogin {
		t.Fatalf("first Evaluate = %v, want redirect", d)
	}
	if d := g.Evaluate(unauth); d != DecisionDeny {
		t.Fatalf("second Evaluate = %v, want deny", d)
	}

	g.Reset()
	if d := g.Evaluate(unauth); d != DecisionRedirectLogin {
		t.Errorf("Evaluate after Reset = %v, want redirect again", d)
	}
}

func TestGuard_NeverRedirectsBeforeHydration(t *testing.T) {
	g := &Guard{}
	pending := State{Mode: ModeGuest}

	for i := 0; i < 3; i++ {
		if d := g.Evaluate(pending); d != DecisionPending {
			t.Fatalf("Evaluate = %v, want pending", d)
		}
	}

	// Hydration completing with a valid token never redirects.
	if d := g.Evaluate(State{Mode: ModeAuth, Token: "tok", Hydrated: true}); d != DecisionAllow {
		t.Errorf("Evaluate after hydration = %v, want allow", d)
	}
}
