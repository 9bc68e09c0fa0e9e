package bot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shgereadis-cpu/p2p-group-market-bot/internal/domain"
	"github.com/shgereadis-cpu/p2p-group-market-bot/internal/session"
)

func seedListing(t *testing.T, env *testEnv) int64 {
	t.Helper()
	id, err := env.listings.Insert(context.Background(), domain.Listing{
		UserID:      testUserID,
		Kind:        domain.KindSell,
		GroupName:   "G",
		MemberCount: 10,
		Established: "2019",
		Price:       100,
		Contact:     "@c",
	})
	require.NoError(t, err)
	return id
}

func TestAdminCommandsDeniedForNonAdmin(t *testing.T) {
	env := newTestEnv(t)

	for _, cmd := range []string{"/admin", "/del_ad", "/broadcast"} {
		env.send(testUserID, cmd)
		assert.Equal(t, msgAdminDenied, env.sender.lastText(), "command %s", cmd)
		_, open := env.sessions.Get(testUserID)
		assert.False(t, open, "denial must not create state for %s", cmd)
	}
}

func TestAdminMenu(t *testing.T) {
	env := newTestEnv(t)
	env.send(testAdminID, "/admin")
	assert.Contains(t, env.sender.lastText(), "/del_ad")
	assert.Contains(t, env.sender.lastText(), "/broadcast")
}

func TestDeleteFlow(t *testing.T) {
	env := newTestEnv(t)
	id := seedListing(t, env)

	env.send(testAdminID, "/del_ad")
	assert.Equal(t, msgAskAdID, env.sender.lastText())

	env.send(testAdminID, "1")
	assert.Equal(t, deleteResultMessage(id, true), env.sender.lastText())
	_, open := env.sessions.Get(testAdminID)
	assert.False(t, open, "sub-flow ends after an accepted id")
	assert.Empty(t, env.listings.active())

	// A second delete of the same id reports no change instead of erroring.
	env.send(testAdminID, "/del_ad")
	env.send(testAdminID, "1")
	assert.Equal(t, deleteResultMessage(id, false), env.sender.lastText())
}

func TestDeleteUnknownIDEndsFlow(t *testing.T) {
	env := newTestEnv(t)

	env.send(testAdminID, "/del_ad")
	env.send(testAdminID, "42")

	assert.Equal(t, deleteResultMessage(42, false), env.sender.lastText())
	_, open := env.sessions.Get(testAdminID)
	assert.False(t, open, "a parsed id ends the sub-flow even when no row matched")
}

func TestDeleteMalformedIDReprompts(t *testing.T) {
	env := newTestEnv(t)
	id := seedListing(t, env)

	env.send(testAdminID, "/del_ad")
	env.send(testAdminID, "abc")
	assert.Equal(t, msgBadAdID, env.sender.lastText())

	st, ok := env.sessions.Get(testAdminID)
	require.True(t, ok, "malformed input keeps the sub-flow open")
	assert.Equal(t, session.FlowAdminDelete, st.Flow)

	env.send(testAdminID, "1")
	assert.Equal(t, deleteResultMessage(id, true), env.sender.lastText())
}

func TestBroadcastFlow(t *testing.T) {
	env := newTestEnv(t)
	for _, id := range []int64{1, 2, 3, 4} {
		_ = env.users.Upsert(context.Background(), id, nil, nil)
	}
	env.sender.failTo[3] = true

	env.send(testAdminID, "/broadcast")
	assert.Equal(t, msgAskBroadcast, env.sender.lastText())

	env.send(testAdminID, "ሰላም ለሁሉም!")

	assert.Equal(t, broadcastReportMessage(3, 4), env.sender.lastText())
	for _, id := range []int64{1, 2, 4} {
		assert.Contains(t, env.sender.textsTo(id), "ሰላም ለሁሉም!", "recipient %d", id)
	}
	assert.Empty(t, env.sender.textsTo(3))

	_, open := env.sessions.Get(testAdminID)
	assert.False(t, open)
}

func TestBroadcastExcludesAdmin(t *testing.T) {
	env := newTestEnv(t)
	_ = env.users.Upsert(context.Background(), 1, nil, nil)

	env.send(testAdminID, "/broadcast")
	env.send(testAdminID, "hi")

	assert.Equal(t, broadcastReportMessage(1, 1), env.sender.lastText())
	for _, text := range env.sender.textsTo(testAdminID) {
		assert.NotEqual(t, "hi", text, "admin must not receive their own broadcast")
	}
}

func TestCancelAbortsAdminFlow(t *testing.T) {
	env := newTestEnv(t)

	env.send(testAdminID, "/del_ad")
	env.send(testAdminID, "/cancel")

	_, open := env.sessions.Get(testAdminID)
	assert.False(t, open)
}

func TestAdminFlowsShareTheSessionSlot(t *testing.T) {
	env := newTestEnv(t)

	env.send(testAdminID, "/del_ad")
	env.send(testAdminID, "/broadcast")

	assert.Equal(t, msgFlowOpen, env.sender.lastText())
	st, ok := env.sessions.Get(testAdminID)
	require.True(t, ok)
	assert.Equal(t, session.FlowAdminDelete, st.Flow, "open sub-flow must be untouched")
}
