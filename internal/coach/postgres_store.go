package coach

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PostgresStore stores coach data in the relational database.
type PostgresStore struct {
	db pgxQuerier
}

// NewPostgresStore initializes a store backed by pgxpool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	if pool == nil {
		panic("coach: pgx pool required")
	}
	return &PostgresStore{db: pool}
}

func newPostgresStoreWithDB(db pgxQuerier) *PostgresStore {
	if db == nil {
		panic("coach: db required")
	}
	return &PostgresStore{db: db}
}

func (s *PostgresStore) ListClients(ctx context.Context) ([]Client, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, phone, COALESCE(email, ''), created_at
		FROM clients
		ORDER BY created_at, name
	`)
	if err != nil {
		return nil, fmt.Errorf("coach: list clients: %w", err)
	}
	defer rows.Close()

	var out []Client
	for rows.Next() {
		var c Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("coach: scan client: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PostgresStore) GetClient(ctx context.Context, id string) (*Client, error) {
	var c Client
	err := s.db.QueryRow(ctx, `
		SELECT id, name, phone, COALESCE(email, ''), created_at
		FROM clients
		WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("coach: get client: %w", err)
	}
	return &c, nil
}

func (s *PostgresStore) CreateClient(ctx context.Context, req NewClient) (*Client, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	id := uuid.New()
	var createdAt time.Time
	if err := s.db.QueryRow(ctx, `
		INSERT INTO clients (id, name, phone, email)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, id, req.Name, req.Phone, req.Email).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("coach: insert client: %w", err)
	}
	c := &Client{ID: id.String(), Name: req.Name, Phone: req.Phone, CreatedAt: createdAt}
	if req.Email != nil {
		c.Email = *req.Email
	}
	return c, nil
}

// DeleteClient removes the client; sessions and payment links cascade in the schema.
func (s *PostgresStore) DeleteClient(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("coach: delete client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrClientNotFound
	}
	return nil
}

func (s *PostgresStore) ListWorkouts(ctx context.Context) ([]Workout, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, category, duration_minutes, created_at
		FROM workouts
		ORDER BY created_at, name
	`)
	if err != nil {
		return nil, fmt.Errorf("coach: list workouts: %w", err)
	}
	defer rows.Close()

	var out []Workout
	for rows.Next() {
		var w Workout
		if err := rows.Scan(&w.ID, &w.Name, &w.Category, &w.DurationMinutes, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("coach: scan workout: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CreateWorkout(ctx context.Context, req NewWorkout) (*Workout, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	id := uuid.New()
	var createdAt time.Time
	if err := s.db.QueryRow(ctx, `
		INSERT INTO workouts (id, name, category, duration_minutes)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, id, req.Name, req.Category, req.DurationMinutes).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("coach: insert workout: %w", err)
	}
	return &Workout{
		ID:              id.String(),
		Name:            req.Name,
		Category:        req.Category,
		DurationMinutes: req.DurationMinutes,
		CreatedAt:       createdAt,
	}, nil
}

func (s *PostgresStore) DeleteWorkout(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM workouts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("coach: delete workout: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrWorkoutNotFound
	}
	return nil
}

const insertSessionSQL = `
	INSERT INTO sessions (id, client_id, workout_id, starts_at, duration_minutes, status, recurrence, series_index, series_total)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

// InsertSessions writes the batch in one transaction so a series is never half-created.
func (s *PostgresStore) InsertSessions(ctx context.Context, sessions []Session) ([]Session, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("coach: begin session insert: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	out := make([]Session, 0, len(sessions))
	for _, sess := range sessions {
		if sess.ID == "" {
			sess.ID = uuid.New().String()
		}
		if sess.Status == "" {
			sess.Status = SessionScheduled
		}
		var workoutID *string
		if sess.WorkoutID != "" {
			workoutID = &sess.WorkoutID
		}
		if _, err := tx.Exec(ctx, insertSessionSQL,
			sess.ID,
			sess.ClientID,
			workoutID,
			sess.Start,
			sess.DurationMinutes,
			string(sess.Status),
			string(sess.Recurrence),
			sess.SeriesIndex,
			sess.SeriesTotal,
		); err != nil {
			return nil, fmt.Errorf("coach: insert session: %w", err)
		}
		out = append(out, sess)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("coach: commit sessions: %w", err)
	}
	return out, nil
}

const sessionColumns = `
	s.id, s.client_id, c.name, COALESCE(s.workout_id::text, ''), s.starts_at, s.duration_minutes,
	s.status, s.recurrence, s.series_index, s.series_total
`

func scanSession(row pgx.Row) (Session, error) {
	var sess Session
	var status, recurrence string
	err := row.Scan(
		&sess.ID,
		&sess.ClientID,
		&sess.ClientName,
		&sess.WorkoutID,
		&sess.Start,
		&sess.DurationMinutes,
		&status,
		&recurrence,
		&sess.SeriesIndex,
		&sess.SeriesTotal,
	)
	sess.Status = SessionStatus(status)
	sess.Recurrence = Recurrence(recurrence)
	return sess, err
}

func (s *PostgresStore) GetSession(ctx context.Context, id string) (*Session, error) {
	sess, err := scanSession(s.db.QueryRow(ctx, `
		SELECT `+sessionColumns+`
		FROM sessions s JOIN clients c ON c.id = s.client_id
		WHERE s.id = $1
	`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("coach: get session: %w", err)
	}
	return &sess, nil
}

func (s *PostgresStore) UpdateSessionStatus(ctx context.Context, id string, status SessionStatus) (*Session, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE sessions SET status = $1, updated_at = NOW() WHERE id = $2
	`, string(status), id)
	if err != nil {
		return nil, fmt.Errorf("coach: update session status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrSessionNotFound
	}
	return s.GetSession(ctx, id)
}

func (s *PostgresStore) SessionsBetween(ctx context.Context, from, to time.Time) ([]Session, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+sessionColumns+`
		FROM sessions s JOIN clients c ON c.id = s.client_id
		WHERE s.starts_at >= $1 AND s.starts_at < $2
		ORDER BY s.starts_at
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("coach: list sessions: %w", err)
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("coach: scan session: %w", err)
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

func (s *PostgresStore) NextSession(ctx context.Context, clientID string, after time.Time) (*Session, error) {
	sess, err := scanSession(s.db.QueryRow(ctx, `
		SELECT `+sessionColumns+`
		FROM sessions s JOIN clients c ON c.id = s.client_id
		WHERE s.client_id = $1 AND s.starts_at >= $2 AND s.status IN ('scheduled', 'confirmed')
		ORDER BY s.starts_at
		LIMIT 1
	`, clientID, after))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoUpcomingSession
		}
		return nil, fmt.Errorf("coach: next session: %w", err)
	}
	return &sess, nil
}

func (s *PostgresStore) CreatePaymentLink(ctx context.Context, link PaymentLink) (*PaymentLink, error) {
	if link.ID == "" {
		link.ID = uuid.New().String()
	}
	if err := s.db.QueryRow(ctx, `
		INSERT INTO payment_links (id, client_id, amount, currency, url, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, link.ID, link.ClientID, link.Amount, link.Currency, link.URL, link.Status).Scan(&link.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("coach: insert payment link: %w", err)
	}
	return &link, nil
}
