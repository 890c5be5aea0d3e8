package assistant

import (
	"context"
	"strings"

	"github.com/wolfman30/coachflow/internal/coach"
)

// EntityKind is the kind of named entity a fragment refers to.
type EntityKind string

const (
	KindClient  EntityKind = "client"
	KindWorkout EntityKind = "workout"
)

// Match picks the entity a name fragment refers to. An exact case-insensitive
// name wins; otherwise the first entity, in collection order, whose name contains
// the fragment. Substring ties are not ranked.
func Match[T any](items []T, name func(T) string, fragment string) (T, bool) {
	var zero T
	frag := strings.ToLower(strings.TrimSpace(fragment))
	if frag == "" {
		return zero, false
	}
	for _, it := range items {
		if strings.ToLower(strings.TrimSpace(name(it))) == frag {
			return it, true
		}
	}
	for _, it := range items {
		if strings.Contains(strings.ToLower(name(it)), frag) {
			return it, true
		}
	}
	return zero, false
}

func names[T any](items []T, name func(T) string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, name(it))
	}
	return out
}

func clientName(c coach.Client) string   { return c.Name }
func workoutName(w coach.Workout) string { return w.Name }

// resolveClient looks up a client by fragment against a fresh listing.
// Pronouns resolve to the remembered client instead.
func (a *Assistant) resolveClient(ctx context.Context, sess *Session, fragment string) (*coach.Client, error) {
	fragment = strings.TrimSpace(fragment)
	if IsPronoun(fragment, KindClient) {
		if sess.Memory.LastClient != nil {
			c := *sess.Memory.LastClient
			return &c, nil
		}
		return nil, invalid(SlotClient, "I'm not sure who you mean by **%s**. Please use the client's name.", fragment)
	}

	var clients []coach.Client
	err := a.call(ctx, "list_clients", func(ctx context.Context) error {
		var err error
		clients, err = a.collab.ListClients(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	c, ok := Match(clients, clientName, fragment)
	if !ok {
		return nil, &NotFoundError{Kind: KindClient, Fragment: fragment, Candidates: names(clients, clientName)}
	}
	sess.Memory.RememberClient(c)
	return &c, nil
}

// resolveWorkout is resolveClient for workouts.
func (a *Assistant) resolveWorkout(ctx context.Context, sess *Session, fragment string) (*coach.Workout, error) {
	fragment = strings.TrimSpace(fragment)
	if IsPronoun(fragment, KindWorkout) {
		if sess.Memory.LastWorkout != nil {
			w := *sess.Memory.LastWorkout
			return &w, nil
		}
		return nil, invalid(SlotWorkout, "I'm not sure which workout you mean by **%s**. Please use its name.", fragment)
	}

	var workouts []coach.Workout
	err := a.call(ctx, "list_workouts", func(ctx context.Context) error {
		var err error
		workouts, err = a.collab.ListWorkouts(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	w, ok := Match(workouts, workoutName, fragment)
	if !ok {
		return nil, &NotFoundError{Kind: KindWorkout, Fragment: fragment, Candidates: names(workouts, workoutName)}
	}
	sess.Memory.RememberWorkout(w)
	return &w, nil
}
