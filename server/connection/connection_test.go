package connection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_RunSubscriptions(t *testing.T) {
	m := NewManager()
	alice := NewClient("alice", nil)
	bob := NewClient("bob", nil)
	m.Register(alice)
	m.Register(bob)

	require.True(t, m.AddRunToClient("alice", "run-1"))
	require.True(t, m.AddRunToClient("alice", "run-1"))
	assert.Equal(t, []string{"run-1"}, m.ClientRuns("alice"))
	assert.True(t, m.IsClientWatchingRun("alice", "run-1"))
	assert.False(t, m.IsClientWatchingRun("bob", "run-1"))

	assert.Equal(t, 1, m.SendToRun("run-1", []byte("hello")))
	assert.Equal(t, []byte("hello"), <-alice.Send)
	assert.Empty(t, bob.Send)

	assert.True(t, m.RemoveRunFromClient("alice", "run-1"))
	assert.False(t, m.RemoveRunFromClient("alice", "run-1"))
	assert.Equal(t, 0, m.SendToRun("run-1", []byte("again")))

	assert.False(t, m.AddRunToClient("nobody", "run-1"))
}

func TestManager_ReleaseRun(t *testing.T) {
	m := NewManager()
	m.Register(NewClient("a", nil))
	m.Register(NewClient("b", nil))
	m.AddRunToClient("a", "r")
	m.AddRunToClient("b", "r")
	m.AddRunToClient("b", "s")

	m.ReleaseRun("r")

	assert.Empty(t, m.ClientRuns("a"))
	assert.Equal(t, []string{"s"}, m.ClientRuns("b"))
}

func TestManager_Unregister(t *testing.T) {
	m := NewManager()
	c := NewClient("c", nil)
	m.Register(c)
	assert.True(t, m.IsRegistered("c"))

	assert.True(t, m.SendToClient("c", []byte("x")))
	<-c.Send

	m.Unregister(c)
	m.Unregister(c)

	_, open := <-c.Send
	assert.False(t, open)
	assert.False(t, m.IsRegistered("c"))
	assert.False(t, m.SendToClient("c", []byte("y")))
}

func TestManager_FullQueueDropsMessage(t *testing.T) {
	m := NewManager()
	m.Register(&Client{ID: "slow", Send: make(chan []byte, 1)})

	assert.True(t, m.SendToClient("slow", []byte("1")))
	assert.False(t, m.SendToClient("slow", []byte("2")))
}
