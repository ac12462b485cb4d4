// Package project is the project registry: at most one project per
// team, a value-checked state field, and append-only progress and
// feedback logs.
//
// The registry treats team_name as an opaque key — it does not verify
// the team exists. Registries commit independently.
package project

import (
	"context"
	"log/slog"
	"sort"

	"hackhub"
	"hackhub/internal/check"
	"hackhub/internal/kernel"
)

type state struct {
	projects map[string]hackhub.Project
}

// Service serializes all project mutations through a single worker.
type Service struct {
	w     *kernel.Worker[state]
	store Store
	clock hackhub.Clock
}

// New creates the registry. State is loaded from store when Run starts.
func New(store Store, clock hackhub.Clock) *Service {
	check.Assert(store != nil, "project.New: store must not be nil")
	if clock == nil {
		clock = hackhub.RealClock{}
	}
	s := &Service{store: store, clock: clock}
	s.w = kernel.New("projects", func() state {
		return state{projects: store.LoadProjects()}
	})
	return s
}

// Run serves the registry until ctx is cancelled.
func (s *Service) Run(ctx context.Context) error { return s.w.Run(ctx) }

func (s *Service) persist(st *state) {
	if err := s.store.SaveProjects(st.projects); err != nil {
		slog.Warn("project snapshot write failed", "err", err)
	}
}

// Create registers a team's project in state "iniciado".
func (s *Service) Create(ctx context.Context, teamName, description string, category hackhub.ProjectCategory) (hackhub.Project, error) {
	if teamName == "" {
		return hackhub.Project{}, &hackhub.ValidationError{Field: "team_name", Message: "is required"}
	}
	if !category.Valid() {
		return hackhub.Project{}, &hackhub.ValidationError{Field: "category", Message: "must be social, ambiental or educativo"}
	}
	return kernel.Call(ctx, s.w, "create_project", func(st *state) (hackhub.Project, error) {
		if _, ok := st.projects[teamName]; ok {
			return hackhub.Project{}, hackhub.ErrProjectExists
		}
		p := hackhub.Project{
			ID:          hackhub.NewID(),
			TeamName:    teamName,
			Description: description,
			Category:    category,
			State:       hackhub.StateStarted,
			CreatedAt:   s.clock.Now(),
		}
		st.projects[teamName] = p
		s.persist(st)
		return p, nil
	})
}

// UpdateState sets the project state. Rejection is value-based only:
// any enumerated state may be set from any other.
func (s *Service) UpdateState(ctx context.Context, teamName string, newState hackhub.ProjectState) (hackhub.Project, error) {
	if !newState.Valid() {
		return hackhub.Project{}, &hackhub.ValidationError{Field: "state", Message: "must be iniciado, en_progreso or completado"}
	}
	return kernel.Call(ctx, s.w, "update_state", func(st *state) (hackhub.Project, error) {
		p, ok := st.projects[teamName]
		if !ok {
			return hackhub.Project{}, hackhub.ErrProjectNotFound
		}
		p.State = newState
		st.projects[teamName] = p
		s.persist(st)
		return p, nil
	})
}

// AppendProgress prepends a progress note.
func (s *Service) AppendProgress(ctx context.Context, teamName, text string) (hackhub.Project, error) {
	return kernel.Call(ctx, s.w, "append_progress", func(st *state) (hackhub.Project, error) {
		p, ok := st.projects[teamName]
		if !ok {
			return hackhub.Project{}, hackhub.ErrProjectNotFound
		}
		p.Progress = append([]string{text}, p.Progress...)
		st.projects[teamName] = p
		s.persist(st)
		return p, nil
	})
}

// AppendFeedback prepends a mentor note. Called externally and from the
// mentor registry's dual write.
func (s *Service) AppendFeedback(ctx context.Context, teamName, mentorName, content string) (hackhub.Project, error) {
	return kernel.Call(ctx, s.w, "append_feedback", func(st *state) (hackhub.Project, error) {
		p, ok := st.projects[teamName]
		if !ok {
			return hackhub.Project{}, hackhub.ErrProjectNotFound
		}
		p.Feedback = append([]hackhub.Feedback{{
			MentorName: mentorName,
			Content:    content,
			At:         s.clock.Now(),
		}}, p.Feedback...)
		st.projects[teamName] = p
		s.persist(st)
		return p, nil
	})
}

// Get returns one team's project.
func (s *Service) Get(ctx context.Context, teamName string) (hackhub.Project, error) {
	return kernel.Call(ctx, s.w, "get_project", func(st *state) (hackhub.Project, error) {
		p, ok := st.projects[teamName]
		if !ok {
			return hackhub.Project{}, hackhub.ErrProjectNotFound
		}
		return p, nil
	})
}

// List returns all projects sorted by team name.
func (s *Service) List(ctx context.Context) ([]hackhub.Project, error) {
	return kernel.Call(ctx, s.w, "list_projects", func(st *state) ([]hackhub.Project, error) {
		return sorted(st, func(hackhub.Project) bool { return true }), nil
	})
}

// ListByCategory returns projects in the given category.
func (s *Service) ListByCategory(ctx context.Context, c hackhub.ProjectCategory) ([]hackhub.Project, error) {
	return kernel.Call(ctx, s.w, "list_by_category", func(st *state) ([]hackhub.Project, error) {
		return sorted(st, func(p hackhub.Project) bool { return p.Category == c }), nil
	})
}

// ListByState returns projects in the given state.
func (s *Service) ListByState(ctx context.Context, v hackhub.ProjectState) ([]hackhub.Project, error) {
	return kernel.Call(ctx, s.w, "list_by_state", func(st *state) ([]hackhub.Project, error) {
		return sorted(st, func(p hackhub.Project) bool { return p.State == v }), nil
	})
}

// Reset empties the registry and overwrites the snapshot.
func (s *Service) Reset(ctx context.Context) error {
	_, err := kernel.Call(ctx, s.w, "reset", func(st *state) (struct{}, error) {
		st.projects = make(map[string]hackhub.Project)
		s.persist(st)
		return struct{}{}, nil
	})
	return err
}

func sorted(st *state, keep func(hackhub.Project) bool) []hackhub.Project {
	out := make([]hackhub.Project, 0, len(st.projects))
	for _, p := range st.projects {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TeamName < out[j].TeamName })
	return out
}
