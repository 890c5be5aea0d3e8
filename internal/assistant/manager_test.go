package assistant

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/coachflow/pkg/logging"
)

func newTestManager(t *testing.T, collab Collaborator) *Manager {
	t.Helper()
	return NewManager(newTestAssistant(t, collab), NewMemorySessionStore(), logging.Discard())
}

func TestManagerConversationPersistsBetweenTurns(t *testing.T) {
	collab := newFakeCollaborator()
	m := newTestManager(t, collab)
	ctx := context.Background()

	sess, err := m.Create(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, sess.ID)

	for _, turn := range []string{"add a client", "Rahul", "9876543210", "skip"} {
		_, err := m.Send(ctx, sess.ID, turn)
		require.NoError(t, err)
	}

	got, err := m.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Flow)
	assert.Len(t, got.Transcript, 8)
	require.NotNil(t, got.Memory.LastClient)
	assert.Equal(t, "Rahul", got.Memory.LastClient.Name)
	assert.Len(t, collab.createdClients, 1)
}

func TestManagerSendUnknownSession(t *testing.T) {
	m := newTestManager(t, newFakeCollaborator())
	_, err := m.Send(context.Background(), "nope", "help")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManagerOpenCreatesUnderGivenID(t *testing.T) {
	m := newTestManager(t, newFakeCollaborator())
	ctx := context.Background()

	sess, err := m.Open(ctx, "web-42")
	require.NoError(t, err)
	assert.Equal(t, "web-42", sess.ID)

	_, err = m.Send(ctx, "web-42", "help")
	require.NoError(t, err)

	again, err := m.Open(ctx, "web-42")
	require.NoError(t, err)
	assert.Len(t, again.Transcript, 2)
}

func TestManagerResetAndDelete(t *testing.T) {
	m := newTestManager(t, newFakeCollaborator())
	ctx := context.Background()
	sess, err := m.Create(ctx)
	require.NoError(t, err)

	_, err = m.Send(ctx, sess.ID, "add a client")
	require.NoError(t, err)
	require.NoError(t, m.Reset(ctx, sess.ID))

	got, err := m.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Flow)
	assert.Empty(t, got.Transcript)

	require.NoError(t, m.Delete(ctx, sess.ID))
	_, err = m.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManagerSerializesTurnsPerSession(t *testing.T) {
	m := newTestManager(t, newFakeCollaborator())
	ctx := context.Background()

	ids := make([]string, 4)
	for i := range ids {
		sess, err := m.Create(ctx)
		require.NoError(t, err)
		ids[i] = sess.ID
	}

	const turns = 25
	var wg sync.WaitGroup
	for _, id := range ids {
		for i := 0; i < turns; i++ {
			wg.Add(1)
			go func(id string, i int) {
				defer wg.Done()
				_, err := m.Send(ctx, id, fmt.Sprintf("help %d", i))
				assert.NoError(t, err)
			}(id, i)
		}
	}
	wg.Wait()

	for _, id := range ids {
		got, err := m.Get(ctx, id)
		require.NoError(t, err)
		assert.Len(t, got.Transcript, 2*turns, "no turn on %s was lost", id)
	}
	assert.Zero(t, m.lockCount(), "idle sessions hold no lock")
}

func TestManagerDropsLocksOfExpiredSessions(t *testing.T) {
	store := NewMemorySessionStore()
	m := NewManager(newTestAssistant(t, newFakeCollaborator()), store, logging.Discard())
	ctx := context.Background()

	sess, err := m.Create(ctx)
	require.NoError(t, err)
	_, err = m.Send(ctx, sess.ID, "help")
	require.NoError(t, err)

	// Expiry removes the session from the store without going through the manager.
	require.NoError(t, store.Delete(ctx, sess.ID))
	_, err = m.Send(ctx, sess.ID, "help")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Zero(t, m.lockCount())
}
