package ops

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/rankwatch/internal/errors"
	"github.com/hpungsan/rankwatch/internal/session"
)

// TestWorkflow_LoginBrowseLogout walks the whole session lifecycle: anonymous
// browsing, login, authenticated browsing, logout back to a fresh guest
// universe.
func TestWorkflow_LoginBrowseLogout(t *testing.T) {
	b := newTestBackend(t)
	env := newTestEnv(t, b)
	ctx := context.Background()

	// Anonymous visitor: reads go to the guest endpoints.
	list, err := ListKeywords(ctx, env)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "gk-1", list.Items[0].ID)
	assert.EqualValues(t, 1, b.guestListCalls.Load())
	assert.EqualValues(t, 0, b.authListCalls.Load())

	// Login flips the mode; the next read must hit the authenticated
	// endpoint with a fresh call, never the guest entry.
	login(t, env)
	list, err = ListKeywords(ctx, env)
	require.NoError(t, err)
	assert.Equal(t, "k-1", list.Items[0].ID)
	assert.EqualValues(t, 1, b.authListCalls.Load())

	// Warm a detail entry too.
	_, err = KeywordDetail(ctx, env, KeywordDetailInput{ID: "k-1"})
	require.NoError(t, err)

	// Logout clears the token, resets mode to guest, and invalidates every
	// cached resource.
	_, err = Logout(ctx, env)
	require.NoError(t, err)

	st := env.Session.Snapshot()
	assert.Equal(t, session.ModeGuest, st.Mode)
	assert.Empty(t, st.Token)
	assert.Nil(t, st.User)
	assert.Zero(t, env.Cache.Len())

	// The subsequent list fetch queries the guest endpoint, not the
	// authenticated one.
	list, err = ListKeywords(ctx, env)
	require.NoError(t, err)
	assert.Equal(t, "gk-1", list.Items[0].ID)
	assert.EqualValues(t, 2, b.guestListCalls.Load())
	assert.EqualValues(t, 1, b.authListCalls.Load())
}

// TestWorkflow_GuestQuotaRejection mirrors the guest hitting their keyword
// quota: the server rejects the creation, the client surfaces the action
// error, and session state is untouched.
func TestWorkflow_GuestQuotaRejection(t *testing.T) {
	b := newTestBackend(t)
	b.createStatus = 403
	env := newTestEnv(t, b)
	before := env.Session.Snapshot()

	_, err := CreateKeyword(context.Background(), env, CreateKeywordInput{Query: "eleventh"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrQuotaExceeded), "err = %v", err)

	assert.Equal(t, before, env.Session.Snapshot(), "session state must not change")
}

// TestWorkflow_CreateThenDetail checks that creation pre-populates nothing:
// the detail view after a create performs a fresh fetch.
func TestWorkflow_CreateThenDetail(t *testing.T) {
	b := newTestBackend(t)
	env := newTestEnv(t, b)
	login(t, env)
	ctx := context.Background()

	created, err := CreateKeyword(ctx, env, CreateKeywordInput{
		Query:         "gangnam dermatology",
		Category:      "region_business",
		TargetNames:   "clinic a, clinic b",
		TargetDomains: "example.co.kr",
	})
	require.NoError(t, err)
	require.NotNil(t, created.Keyword)
	assert.Equal(t, "k-created", created.Keyword.ID)
	assert.Equal(t, []string{"clinic a", "clinic b"}, created.Keyword.TargetNames)
	assert.Zero(t, env.Cache.Len(), "create must not pre-populate the cache")

	_, err = KeywordDetail(ctx, env, KeywordDetailInput{ID: created.Keyword.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, b.authDetailCalls.Load())
}

func TestWorkflow_StatusReflectsSession(t *testing.T) {
	b := newTestBackend(t)
	env := newTestEnv(t, b)

	st := Status(env)
	assert.Equal(t, session.ModeGuest, st.Mode)
	assert.True(t, st.Hydrated)
	assert.False(t, st.HasToken)
	assert.NotEmpty(t, st.GuestID)

	login(t, env)
	st = Status(env)
	assert.Equal(t, session.ModeAuth, st.Mode)
	assert.True(t, st.HasToken)
	require.NotNil(t, st.User)
	assert.Equal(t, "user@example.com", st.User.Email)
}
