package ops

import (
	"github.com/hpungsan/rankwatch/internal/keyword"
	"github.com/hpungsan/rankwatch/internal/session"
)

// StatusOutput describes the current session for display.
type StatusOutput struct {
	Mode     session.Mode  `json:"mode"`
	Hydrated bool          `json:"hydrated"`
	User     *keyword.User `json:"user,omitempty"`
	GuestID  string        `json:"guest_id,omitempty"`
	HasToken bool          `json:"has_token"`
}

// Status reports the session snapshot. The token itself is never exposed.
func Status(env *Env) *StatusOutput {
	st := env.Session.Snapshot()
	return &StatusOutput{
		Mode:     st.Mode,
		Hydrated: st.Hydrated,
		User:     st.User,
		GuestID:  st.GuestID,
		HasToken: st.Token != "",
	}
}
