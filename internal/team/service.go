// Package team is the team registry: teams keyed by unique name,
// participants keyed by unique email within each team.
package team

import (
	"context"
	"log/slog"
	"sort"

	"hackhub"
	"hackhub/internal/check"
	"hackhub/internal/kernel"
)

type state struct {
	teams map[string]hackhub.Team
}

// Service serializes all team mutations through a single worker. Run
// must be started before any operation is served.
type Service struct {
	w     *kernel.Worker[state]
	store Store
	clock hackhub.Clock
}

// New creates the registry. State is loaded from store when Run starts.
func New(store Store, clock hackhub.Clock) *Service {
	check.Assert(store != nil, "team.New: store must not be nil")
	if clock == nil {
		clock = hackhub.RealClock{}
	}
	s := &Service{store: store, clock: clock}
	s.w = kernel.New("teams", func() state {
		return state{teams: store.LoadTeams()}
	})
	return s
}

// Run serves the registry until ctx is cancelled.
func (s *Service) Run(ctx context.Context) error { return s.w.Run(ctx) }

func (s *Service) persist(st *state) {
	if err := s.store.SaveTeams(st.teams); err != nil {
		slog.Warn("team snapshot write failed", "err", err)
	}
}

// Create registers a new team. Two concurrent creates for the same name
// race on queue position: the first dequeued wins, the second gets
// ErrTeamExists.
func (s *Service) Create(ctx context.Context, name, topic string) (hackhub.Team, error) {
	if name == "" {
		return hackhub.Team{}, &hackhub.ValidationError{Field: "name", Message: "is required"}
	}
	return kernel.Call(ctx, s.w, "create_team", func(st *state) (hackhub.Team, error) {
		if _, ok := st.teams[name]; ok {
			return hackhub.Team{}, hackhub.ErrTeamExists
		}
		t := hackhub.Team{
			ID:        hackhub.NewID(),
			Name:      name,
			Topic:     topic,
			CreatedAt: s.clock.Now(),
		}
		st.teams[name] = t
		s.persist(st)
		return t, nil
	})
}

// AddParticipant prepends a participant to a team. Email must be unique
// within the team.
func (s *Service) AddParticipant(ctx context.Context, teamName, personName, email string) (hackhub.Team, error) {
	if email == "" {
		return hackhub.Team{}, &hackhub.ValidationError{Field: "email", Message: "is required"}
	}
	return kernel.Call(ctx, s.w, "add_participant", func(st *state) (hackhub.Team, error) {
		t, ok := st.teams[teamName]
		if !ok {
			return hackhub.Team{}, hackhub.ErrTeamNotFound
		}
		for _, p := range t.Participants {
			if p.Email == email {
				return hackhub.Team{}, hackhub.ErrParticipantDuplicate
			}
		}
		t.Participants = append([]hackhub.Participant{{Name: personName, Email: email}}, t.Participants...)
		st.teams[teamName] = t
		s.persist(st)
		return t, nil
	})
}

// Get returns one team by name.
func (s *Service) Get(ctx context.Context, name string) (hackhub.Team, error) {
	return kernel.Call(ctx, s.w, "get_team", func(st *state) (hackhub.Team, error) {
		t, ok := st.teams[name]
		if !ok {
			return hackhub.Team{}, hackhub.ErrTeamNotFound
		}
		return t, nil
	})
}

// List returns all teams sorted by name.
func (s *Service) List(ctx context.Context) ([]hackhub.Team, error) {
	return kernel.Call(ctx, s.w, "list_teams", func(st *state) ([]hackhub.Team, error) {
		out := make([]hackhub.Team, 0, len(st.teams))
		for _, t := range st.teams {
			out = append(out, t)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
		return out, nil
	})
}

// Reset empties the registry and overwrites the snapshot with an empty
// map.
func (s *Service) Reset(ctx context.Context) error {
	_, err := kernel.Call(ctx, s.w, "reset", func(st *state) (struct{}, error) {
		st.teams = make(map[string]hackhub.Team)
		s.persist(st)
		return struct{}{}, nil
	})
	return err
}
