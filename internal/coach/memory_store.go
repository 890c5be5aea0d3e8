package coach

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps everything in process memory. It backs development runs and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	clients  []Client
	workouts []Workout
	sessions map[string]*Session
	links    []PaymentLink
	leads    []Lead
	now      func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// ListClients returns clients in creation order.
func (s *MemoryStore) ListClients(ctx context.Context) ([]Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Client(nil), s.clients...), nil
}

func (s *MemoryStore) GetClient(ctx context.Context, id string) (*Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.clients {
		if s.clients[i].ID == id {
			c := s.clients[i]
			return &c, nil
		}
	}
	return nil, ErrClientNotFound
}

func (s *MemoryStore) CreateClient(ctx context.Context, req NewClient) (*Client, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	c := Client{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Phone:     req.Phone,
		CreatedAt: s.now().UTC(),
	}
	if req.Email != nil {
		c.Email = *req.Email
	}
	s.mu.Lock()
	s.clients = append(s.clients, c)
	s.mu.Unlock()
	return &c, nil
}

// DeleteClient removes the client together with their sessions.
func (s *MemoryStore) DeleteClient(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.clients {
		if s.clients[i].ID == id {
			s.clients = append(s.clients[:i], s.clients[i+1:]...)
			for sid, sess := range s.sessions {
				if sess.ClientID == id {
					delete(s.sessions, sid)
				}
			}
			return nil
		}
	}
	return ErrClientNotFound
}

func (s *MemoryStore) ListWorkouts(ctx context.Context) ([]Workout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Workout(nil), s.workouts...), nil
}

func (s *MemoryStore) CreateWorkout(ctx context.Context, req NewWorkout) (*Workout, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	w := Workout{
		ID:              uuid.New().String(),
		Name:            req.Name,
		Category:        req.Category,
		DurationMinutes: req.DurationMinutes,
		CreatedAt:       s.now().UTC(),
	}
	s.mu.Lock()
	s.workouts = append(s.workouts, w)
	s.mu.Unlock()
	return &w, nil
}

func (s *MemoryStore) DeleteWorkout(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.workouts {
		if s.workouts[i].ID == id {
			s.workouts = append(s.workouts[:i], s.workouts[i+1:]...)
			for _, sess := range s.sessions {
				if sess.WorkoutID == id {
					sess.WorkoutID = ""
				}
			}
			return nil
		}
	}
	return ErrWorkoutNotFound
}

func (s *MemoryStore) InsertSessions(ctx context.Context, sessions []Session) ([]Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// validate the whole batch before writing anything
	for _, sess := range sessions {
		if s.clientLocked(sess.ClientID) == nil {
			return nil, ErrClientNotFound
		}
	}
	out := make([]Session, 0, len(sessions))
	for _, sess := range sessions {
		if sess.ID == "" {
			sess.ID = uuid.New().String()
		}
		if sess.Status == "" {
			sess.Status = SessionScheduled
		}
		stored := sess
		s.sessions[stored.ID] = &stored
		out = append(out, s.withClientName(stored))
	}
	return out, nil
}

func (s *MemoryStore) GetSession(ctx context.Context, id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	out := s.withClientName(*sess)
	return &out, nil
}

func (s *MemoryStore) UpdateSessionStatus(ctx context.Context, id string, status SessionStatus) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.Status = status
	out := s.withClientName(*sess)
	return &out, nil
}

func (s *MemoryStore) SessionsBetween(ctx context.Context, from, to time.Time) ([]Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Session
	for _, sess := range s.sessions {
		if !sess.Start.Before(from) && sess.Start.Before(to) {
			out = append(out, s.withClientName(*sess))
		}
	}
	sortSessions(out)
	return out, nil
}

func (s *MemoryStore) NextSession(ctx context.Context, clientID string, after time.Time) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var candidates []Session
	for _, sess := range s.sessions {
		if sess.ClientID == clientID && sess.Status.Open() && !sess.Start.Before(after) {
			candidates = append(candidates, s.withClientName(*sess))
		}
	}
	if len(candidates) == 0 {
		return nil, ErrNoUpcomingSession
	}
	sortSessions(candidates)
	return &candidates[0], nil
}

func (s *MemoryStore) CreatePaymentLink(ctx context.Context, link PaymentLink) (*PaymentLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clientLocked(link.ClientID) == nil {
		return nil, ErrClientNotFound
	}
	if link.ID == "" {
		link.ID = uuid.New().String()
	}
	if link.CreatedAt.IsZero() {
		link.CreatedAt = s.now().UTC()
	}
	s.links = append(s.links, link)
	return &link, nil
}

// AddLead seeds a lead; leads arrive through the marketing site, not the assistant.
func (s *MemoryStore) AddLead(lead Lead) Lead {
	s.mu.Lock()
	defer s.mu.Unlock()
	if lead.ID == "" {
		lead.ID = uuid.New().String()
	}
	if lead.Status == "" {
		lead.Status = "new"
	}
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = s.now().UTC()
	}
	s.leads = append(s.leads, lead)
	return lead
}

// Leads returns the newest leads first.
func (s *MemoryStore) Leads(ctx context.Context) ([]Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]Lead(nil), s.leads...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Stats aggregates the same figures the SQL dashboard computes.
func (s *MemoryStore) Stats(ctx context.Context) (*Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := &Stats{TotalClients: len(s.clients), TotalSessions: len(s.sessions)}
	for _, sess := range s.sessions {
		if sess.Status == SessionCompleted {
			st.CompletedSessions++
		}
	}
	for _, l := range s.links {
		switch l.Status {
		case PaymentPaid:
			st.TotalRevenue += l.Amount
		case PaymentPending:
			st.PendingPayments++
		}
	}
	return st, nil
}

func (s *MemoryStore) clientLocked(id string) *Client {
	for i := range s.clients {
		if s.clients[i].ID == id {
			return &s.clients[i]
		}
	}
	return nil
}

func (s *MemoryStore) withClientName(sess Session) Session {
	if c := s.clientLocked(sess.ClientID); c != nil {
		sess.ClientName = c.Name
	}
	return sess
}

func sortSessions(sessions []Session) {
	sort.SliceStable(sessions, func(i, j int) bool { return sessions[i].Start.Before(sessions[j].Start) })
}
