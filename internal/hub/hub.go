// Package hub is the unified entry API over the registries, the chat
// resolver and the snapshot store. It only delegates; the one place
// with logic of its own is Reset, which must never fail half-way.
package hub

import (
	"context"
	"log/slog"

	"hackhub"
	"hackhub/internal/check"
	"hackhub/internal/chat"
	"hackhub/internal/cluster"
	"hackhub/internal/mentor"
	"hackhub/internal/project"
	"hackhub/internal/pubsub"
	"hackhub/internal/snapshot"
	"hackhub/internal/team"
)

// Hub is the stateless dispatcher fronting every registry.
type Hub struct {
	Teams    *team.Service
	Projects *project.Service
	Mentors  *mentor.Service
	Chat     *cluster.Resolver
	Monitor  *cluster.Monitor
	Store    *snapshot.Store
	Bus      *pubsub.Bus
	Self     cluster.Node
}

// New wires a hub. Monitor may be nil on single-host builds.
func New(teams *team.Service, projects *project.Service, mentors *mentor.Service,
	chatResolver *cluster.Resolver, monitor *cluster.Monitor,
	store *snapshot.Store, bus *pubsub.Bus, self cluster.Node) *Hub {
	check.Assert(teams != nil, "hub.New: teams must not be nil")
	check.Assert(projects != nil, "hub.New: projects must not be nil")
	check.Assert(mentors != nil, "hub.New: mentors must not be nil")
	check.Assert(chatResolver != nil, "hub.New: chat resolver must not be nil")
	check.Assert(store != nil, "hub.New: store must not be nil")
	return &Hub{
		Teams:    teams,
		Projects: projects,
		Mentors:  mentors,
		Chat:     chatResolver,
		Monitor:  monitor,
		Store:    store,
		Bus:      bus,
		Self:     self,
	}
}

// --- Teams ---

func (h *Hub) CreateTeam(ctx context.Context, name, topic string) (hackhub.Team, error) {
	return h.Teams.Create(ctx, name, topic)
}

func (h *Hub) AddParticipant(ctx context.Context, teamName, personName, email string) (hackhub.Team, error) {
	return h.Teams.AddParticipant(ctx, teamName, personName, email)
}

func (h *Hub) GetTeam(ctx context.Context, name string) (hackhub.Team, error) {
	return h.Teams.Get(ctx, name)
}

func (h *Hub) ListTeams(ctx context.Context) ([]hackhub.Team, error) {
	return h.Teams.List(ctx)
}

// --- Projects ---

func (h *Hub) CreateProject(ctx context.Context, teamName, description string, category hackhub.ProjectCategory) (hackhub.Project, error) {
	return h.Projects.Create(ctx, teamName, description, category)
}

func (h *Hub) UpdateProjectState(ctx context.Context, teamName string, state hackhub.ProjectState) (hackhub.Project, error) {
	return h.Projects.UpdateState(ctx, teamName, state)
}

func (h *Hub) AppendProgress(ctx context.Context, teamName, text string) (hackhub.Project, error) {
	return h.Projects.AppendProgress(ctx, teamName, text)
}

func (h *Hub) AppendFeedback(ctx context.Context, teamName, mentorName, content string) (hackhub.Project, error) {
	return h.Projects.AppendFeedback(ctx, teamName, mentorName, content)
}

func (h *Hub) GetProject(ctx context.Context, teamName string) (hackhub.Project, error) {
	return h.Projects.Get(ctx, teamName)
}

func (h *Hub) ListProjects(ctx context.Context) ([]hackhub.Project, error) {
	return h.Projects.List(ctx)
}

func (h *Hub) ListProjectsByCategory(ctx context.Context, c hackhub.ProjectCategory) ([]hackhub.Project, error) {
	return h.Projects.ListByCategory(ctx, c)
}

func (h *Hub) ListProjectsByState(ctx context.Context, s hackhub.ProjectState) ([]hackhub.Project, error) {
	return h.Projects.ListByState(ctx, s)
}

// --- Mentors ---

func (h *Hub) RegisterMentor(ctx context.Context, name, specialty string) (hackhub.Mentor, error) {
	return h.Mentors.Register(ctx, name, specialty)
}

func (h *Hub) SendFeedback(ctx context.Context, mentorID, teamName, content string) (hackhub.Mentor, error) {
	return h.Mentors.SendFeedback(ctx, mentorID, teamName, content)
}

func (h *Hub) GetMentor(ctx context.Context, id string) (hackhub.Mentor, error) {
	return h.Mentors.Get(ctx, id)
}

func (h *Hub) ListMentors(ctx context.Context) ([]hackhub.Mentor, error) {
	return h.Mentors.List(ctx)
}

func (h *Hub) FindMentorsBySpecialty(ctx context.Context, specialty string) ([]hackhub.Mentor, error) {
	return h.Mentors.FindBySpecialty(ctx, specialty)
}

// --- Chat (resolved to the global holder per call) ---

func (h *Hub) CreateRoom(ctx context.Context, name string) (string, error) {
	api, err := h.Chat.Resolve(ctx)
	if err != nil {
		return "", err
	}
	return api.CreateRoom(ctx, name)
}

func (h *Hub) SendMessage(ctx context.Context, room, author, content string) error {
	api, err := h.Chat.Resolve(ctx)
	if err != nil {
		return err
	}
	return api.Send(room, author, content)
}

func (h *Hub) History(ctx context.Context, room string) ([]hackhub.Message, error) {
	api, err := h.Chat.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	return api.History(ctx, room)
}

func (h *Hub) ListRooms(ctx context.Context) ([]string, error) {
	api, err := h.Chat.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	return api.ListRooms(ctx)
}

func (h *Hub) Subscribe(ctx context.Context, room string) (<-chan pubsub.Event, context.CancelFunc, error) {
	api, err := h.Chat.Resolve(ctx)
	if err != nil {
		return nil, nil, err
	}
	return api.Subscribe(ctx, room)
}

// ChatReset restores the room set to {"general"}.
func (h *Hub) ChatReset(ctx context.Context) error {
	api, err := h.Chat.Resolve(ctx)
	if err != nil {
		return err
	}
	return api.Reset(ctx)
}

// ClusterInfo reports this node, the chat holder and peer states.
func (h *Hub) ClusterInfo(ctx context.Context) cluster.Info {
	info := cluster.Info{
		Self:   h.Self,
		Holder: h.Chat.HolderName(ctx),
		Local:  h.Chat.IsLocal(),
	}
	if h.Monitor != nil {
		info.Nodes = h.Monitor.Statuses()
	}
	return info
}

// --- System ---

// Reset wipes the snapshot directory and every registry. Registries
// that cannot be reached are skipped with a log line; Reset itself
// never fails on them.
func (h *Hub) Reset(ctx context.Context) error {
	if err := h.Store.ClearAll(); err != nil {
		return err
	}
	if err := h.Teams.Reset(ctx); err != nil {
		slog.Warn("team reset skipped", "err", err)
	}
	if err := h.Projects.Reset(ctx); err != nil {
		slog.Warn("project reset skipped", "err", err)
	}
	if err := h.Mentors.Reset(ctx); err != nil {
		slog.Warn("mentor reset skipped", "err", err)
	}
	if err := h.ChatReset(ctx); err != nil {
		slog.Warn("chat reset skipped", "err", err)
	}
	return nil
}

// defaultProjectPlaceholder is written when the project registry is
// non-responsive during snapshot aggregation, so the snapshot file
// always decodes.
var defaultProjectPlaceholder = map[string]hackhub.Project{
	"default": {
		ID:          "00000000",
		TeamName:    "default",
		Description: "placeholder",
		Category:    hackhub.CategorySocial,
		State:       hackhub.StateStarted,
	},
}

// PersistState writes a live snapshot of every registry through the
// public list APIs. A non-responsive registry is substituted — empty
// mappings, or the default-project placeholder — so persistence never
// fails startup.
func (h *Hub) PersistState(ctx context.Context) error {
	teams := map[string]hackhub.Team{}
	if list, err := h.Teams.List(ctx); err == nil {
		for _, t := range list {
			teams[t.Name] = t
		}
	} else {
		slog.Warn("team registry unavailable, persisting empty", "err", err)
	}
	if err := h.Store.SaveTeams(teams); err != nil {
		return err
	}

	projects := map[string]hackhub.Project{}
	if list, err := h.Projects.List(ctx); err == nil {
		for _, p := range list {
			projects[p.TeamName] = p
		}
	} else {
		slog.Warn("project registry unavailable, persisting placeholder", "err", err)
		projects = defaultProjectPlaceholder
	}
	if err := h.Store.SaveProjects(projects); err != nil {
		return err
	}

	mentors := map[string]hackhub.Mentor{}
	if list, err := h.Mentors.List(ctx); err == nil {
		for _, m := range list {
			mentors[m.ID] = m
		}
	} else {
		slog.Warn("mentor registry unavailable, persisting empty", "err", err)
	}
	if err := h.Store.SaveMentors(mentors); err != nil {
		return err
	}

	rooms := map[string][]hackhub.Message{}
	if api, err := h.Chat.Resolve(ctx); err == nil {
		rooms = h.collectRooms(ctx, api)
	} else {
		slog.Warn("chat unavailable, persisting empty", "err", err)
	}
	return h.Store.SaveChat(rooms)
}

func (h *Hub) collectRooms(ctx context.Context, api chat.API) map[string][]hackhub.Message {
	rooms := map[string][]hackhub.Message{}
	names, err := api.ListRooms(ctx)
	if err != nil {
		slog.Warn("room listing unavailable, persisting empty", "err", err)
		return rooms
	}
	for _, name := range names {
		history, err := api.History(ctx, name)
		if err != nil {
			rooms[name] = nil
			continue
		}
		// History is oldest-first; storage is newest-first.
		newest := make([]hackhub.Message, len(history))
		for i, m := range history {
			newest[len(history)-1-i] = m
		}
		rooms[name] = newest
	}
	return rooms
}

// PersistInfo counts entries per snapshot file.
func (h *Hub) PersistInfo() snapshot.Info {
	return h.Store.ReadInfo()
}

// ClearAll recursively deletes and recreates the snapshot directory.
func (h *Hub) ClearAll() error {
	return h.Store.ClearAll()
}
