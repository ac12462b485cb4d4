// Package mentor is the mentor registry: mentors keyed by random id,
// names intentionally not unique, with feedback that dual-writes into
// the project registry.
package mentor

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"hackhub"
	"hackhub/internal/check"
	"hackhub/internal/kernel"
)

type state struct {
	mentors map[string]hackhub.Mentor
}

// Service serializes all mentor mutations through a single worker.
type Service struct {
	w     *kernel.Worker[state]
	store Store
	sink  FeedbackSink
	clock hackhub.Clock
}

// New creates the registry. sink receives the project-side append of
// SendFeedback.
func New(store Store, sink FeedbackSink, clock hackhub.Clock) *Service {
	check.Assert(store != nil, "mentor.New: store must not be nil")
	check.Assert(sink != nil, "mentor.New: sink must not be nil")
	if clock == nil {
		clock = hackhub.RealClock{}
	}
	s := &Service{store: store, sink: sink, clock: clock}
	s.w = kernel.New("mentors", func() state {
		return state{mentors: store.LoadMentors()}
	})
	return s
}

// Run serves the registry until ctx is cancelled.
func (s *Service) Run(ctx context.Context) error { return s.w.Run(ctx) }

func (s *Service) persist(st *state) {
	if err := s.store.SaveMentors(st.mentors); err != nil {
		slog.Warn("mentor snapshot write failed", "err", err)
	}
}

// Register adds a mentor under a fresh id. There is no duplicate
// detection: two mentors may share a name.
func (s *Service) Register(ctx context.Context, name, specialty string) (hackhub.Mentor, error) {
	return kernel.Call(ctx, s.w, "register_mentor", func(st *state) (hackhub.Mentor, error) {
		m := hackhub.Mentor{
			ID:        hackhub.NewID(),
			Name:      name,
			Specialty: specialty,
		}
		st.mentors[m.ID] = m
		s.persist(st)
		return m, nil
	})
}

// SendFeedback appends to the mentor's given-feedback log and then
// appends to the team's project. The two writes are best-effort
// two-step: when the project side fails, the mentor side is already
// committed and is NOT rolled back — the project error is reported
// alongside the updated mentor.
func (s *Service) SendFeedback(ctx context.Context, mentorID, teamName, content string) (hackhub.Mentor, error) {
	m, err := kernel.Call(ctx, s.w, "send_feedback", func(st *state) (hackhub.Mentor, error) {
		m, ok := st.mentors[mentorID]
		if !ok {
			return hackhub.Mentor{}, hackhub.ErrMentorNotFound
		}
		m.FeedbackGiven = append([]hackhub.GivenFeedback{{
			TeamName: teamName,
			Content:  content,
			At:       s.clock.Now(),
		}}, m.FeedbackGiven...)
		st.mentors[mentorID] = m
		s.persist(st)
		return m, nil
	})
	if err != nil {
		return hackhub.Mentor{}, err
	}

	if _, err := s.sink.AppendFeedback(ctx, teamName, m.Name, content); err != nil {
		slog.Warn("mentor feedback committed but project append failed",
			"mentor", mentorID, "team", teamName, "err", err)
		return m, err
	}
	return m, nil
}

// Get returns one mentor by id.
func (s *Service) Get(ctx context.Context, id string) (hackhub.Mentor, error) {
	return kernel.Call(ctx, s.w, "get_mentor", func(st *state) (hackhub.Mentor, error) {
		m, ok := st.mentors[id]
		if !ok {
			return hackhub.Mentor{}, hackhub.ErrMentorNotFound
		}
		return m, nil
	})
}

// List returns all mentors sorted by id.
func (s *Service) List(ctx context.Context) ([]hackhub.Mentor, error) {
	return kernel.Call(ctx, s.w, "list_mentors", func(st *state) ([]hackhub.Mentor, error) {
		return sorted(st, func(hackhub.Mentor) bool { return true }), nil
	})
}

// FindBySpecialty returns mentors whose specialty equals s,
// case-insensitively.
func (s *Service) FindBySpecialty(ctx context.Context, specialty string) ([]hackhub.Mentor, error) {
	return kernel.Call(ctx, s.w, "find_by_specialty", func(st *state) ([]hackhub.Mentor, error) {
		return sorted(st, func(m hackhub.Mentor) bool {
			return strings.EqualFold(m.Specialty, specialty)
		}), nil
	})
}

// Reset empties the registry and overwrites the snapshot.
func (s *Service) Reset(ctx context.Context) error {
	_, err := kernel.Call(ctx, s.w, "reset", func(st *state) (struct{}, error) {
		st.mentors = make(map[string]hackhub.Mentor)
		s.persist(st)
		return struct{}{}, nil
	})
	return err
}

func sorted(st *state, keep func(hackhub.Mentor) bool) []hackhub.Mentor {
	out := make([]hackhub.Mentor, 0, len(st.mentors))
	for _, m := range st.mentors {
		if keep(m) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
