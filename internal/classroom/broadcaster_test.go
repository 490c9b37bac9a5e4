package classroom

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalBroadcasterDeliversToEveryMember(t *testing.T) {
	registry, router := newTestRouter(false)
	broadcaster := NewLocalBroadcaster(registry)

	conns := make([]*fakeConn, 0, 3)
	for _, name := range []string{"Alice", "Bob", "Carol"} {
		_, conn := joinSession(registry, router, "r1", name, RoleStudent)
		conns = append(conns, conn)
	}

	broadcaster.Broadcast("r1", NewHandRaised("Alice"))

	for _, conn := range conns {
		got := conn.envelopes(t)
		require.Len(t, got, 1)
		assert.Equal(t, EventHandRaised, got[0].Type)
	}
}

func TestLocalBroadcasterSwallowsFailedRecipients(t *testing.T) {
	registry, router := newTestRouter(false)
	broadcaster := NewLocalBroadcaster(registry)

	_, healthy1 := joinSession(registry, router, "r1", "Alice", RoleStudent)
	_, staleConn := joinSession(registry, router, "r1", "Bob", RoleStudent)
	_, healthy2 := joinSession(registry, router, "r1", "Carol", RoleStudent)

	staleConn.sendErr = errors.New("connection reset")

	broadcaster.Broadcast("r1", NewChatMessage("hi", "Alice", "student"))

	// One bad recipient never aborts delivery to the rest of the room.
	assert.Len(t, healthy1.envelopes(t), 1)
	assert.Len(t, healthy2.envelopes(t), 1)
	assert.Empty(t, staleConn.envelopes(t))
}

func TestLocalBroadcasterUnknownRoomIsNoOp(t *testing.T) {
	registry, _ := newTestRouter(false)
	broadcaster := NewLocalBroadcaster(registry)

	broadcaster.Broadcast("ghost", NewHandRaised("Alice"))
}
