package coach

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_ClientLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	email := "priya@example.com"
	rahul, err := store.CreateClient(ctx, NewClient{Name: "Rahul", Phone: "9876543210"})
	require.NoError(t, err)
	priya, err := store.CreateClient(ctx, NewClient{Name: "Priya", Phone: "9812345678", Email: &email})
	require.NoError(t, err)
	assert.Equal(t, email, priya.Email)

	clients, err := store.ListClients(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 2)
	assert.Equal(t, "Rahul", clients[0].Name)

	start := time.Date(2026, 10, 16, 10, 0, 0, 0, time.Local)
	_, err = store.InsertSessions(ctx, []Session{{ClientID: rahul.ID, Start: start, DurationMinutes: 60, Recurrence: RecurrenceOnce}})
	require.NoError(t, err)

	require.NoError(t, store.DeleteClient(ctx, rahul.ID))
	assert.ErrorIs(t, store.DeleteClient(ctx, rahul.ID), ErrClientNotFound)

	sessions, err := store.SessionsBetween(ctx, start.Add(-time.Hour), start.Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, sessions, "sessions of a deleted client are removed")
}

func TestMemoryStore_InsertSessionsIsAtomic(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	c, err := store.CreateClient(ctx, NewClient{Name: "Rahul", Phone: "9876543210"})
	require.NoError(t, err)

	start := time.Date(2026, 10, 16, 10, 0, 0, 0, time.Local)
	_, err = store.InsertSessions(ctx, []Session{
		{ClientID: c.ID, Start: start, DurationMinutes: 60},
		{ClientID: "ghost", Start: start, DurationMinutes: 60},
	})
	assert.ErrorIs(t, err, ErrClientNotFound)

	sessions, err := store.SessionsBetween(ctx, start.Add(-time.Hour), start.Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestMemoryStore_SessionsBetweenOrdered(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	c, err := store.CreateClient(ctx, NewClient{Name: "Rahul", Phone: "9876543210"})
	require.NoError(t, err)

	day := time.Date(2026, 10, 15, 0, 0, 0, 0, time.Local)
	_, err = store.InsertSessions(ctx, []Session{
		{ClientID: c.ID, Start: day.Add(18 * time.Hour), DurationMinutes: 60},
		{ClientID: c.ID, Start: day.Add(7 * time.Hour), DurationMinutes: 60},
		{ClientID: c.ID, Start: day.Add(30 * time.Hour), DurationMinutes: 60},
	})
	require.NoError(t, err)

	sessions, err := store.SessionsBetween(ctx, day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, 7, sessions[0].Start.Hour())
	assert.Equal(t, 18, sessions[1].Start.Hour())
	assert.Equal(t, "Rahul", sessions[0].ClientName)
}

func TestMemoryStore_NextSessionSkipsClosed(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	c, err := store.CreateClient(ctx, NewClient{Name: "Rahul", Phone: "9876543210"})
	require.NoError(t, err)

	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.Local)
	out, err := store.InsertSessions(ctx, []Session{
		{ClientID: c.ID, Start: now.Add(2 * time.Hour), DurationMinutes: 60, Status: SessionCancelled},
		{ClientID: c.ID, Start: now.Add(26 * time.Hour), DurationMinutes: 60},
		{ClientID: c.ID, Start: now.Add(-2 * time.Hour), DurationMinutes: 60},
	})
	require.NoError(t, err)

	next, err := store.NextSession(ctx, c.ID, now)
	require.NoError(t, err)
	assert.Equal(t, out[1].ID, next.ID)

	_, err = store.NextSession(ctx, "other", now)
	assert.ErrorIs(t, err, ErrNoUpcomingSession)
}

func TestMemoryStore_DeleteWorkoutDetachesSessions(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	c, err := store.CreateClient(ctx, NewClient{Name: "Rahul", Phone: "9876543210"})
	require.NoError(t, err)
	w, err := store.CreateWorkout(ctx, NewWorkout{Name: "Leg Day", Category: "strength", DurationMinutes: 45})
	require.NoError(t, err)

	out, err := store.InsertSessions(ctx, []Session{{ClientID: c.ID, WorkoutID: w.ID, Start: time.Now(), DurationMinutes: 45}})
	require.NoError(t, err)

	require.NoError(t, store.DeleteWorkout(ctx, w.ID))
	sess, err := store.GetSession(ctx, out[0].ID)
	require.NoError(t, err)
	assert.Empty(t, sess.WorkoutID)
	assert.ErrorIs(t, store.DeleteWorkout(ctx, w.ID), ErrWorkoutNotFound)
}

func TestMemoryStore_StatsAndLeads(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	c, err := store.CreateClient(ctx, NewClient{Name: "Rahul", Phone: "9876543210"})
	require.NoError(t, err)
	_, err = store.InsertSessions(ctx, []Session{
		{ClientID: c.ID, Start: time.Now(), DurationMinutes: 60, Status: SessionCompleted},
		{ClientID: c.ID, Start: time.Now(), DurationMinutes: 60},
	})
	require.NoError(t, err)
	_, err = store.CreatePaymentLink(ctx, PaymentLink{ClientID: c.ID, Amount: 1500, Status: PaymentPaid})
	require.NoError(t, err)
	_, err = store.CreatePaymentLink(ctx, PaymentLink{ClientID: c.ID, Amount: 800, Status: PaymentPending})
	require.NoError(t, err)

	st, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{TotalClients: 1, TotalSessions: 2, CompletedSessions: 1, TotalRevenue: 1500, PendingPayments: 1}, *st)

	older := store.AddLead(Lead{Name: "Anita", Phone: "9000000001", Source: "instagram", CreatedAt: time.Now().Add(-time.Hour)})
	newer := store.AddLead(Lead{Name: "Vikram", Phone: "9000000002", Source: "website"})
	assert.Equal(t, "new", newer.Status)

	leads, err := store.Leads(ctx)
	require.NoError(t, err)
	require.Len(t, leads, 2)
	assert.Equal(t, newer.ID, leads[0].ID)
	assert.Equal(t, older.ID, leads[1].ID)
}
