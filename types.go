// Package hackhub holds the domain model for the hackathon
// collaboration backend: teams, projects, mentors and chat rooms.
//
// Every ordered sequence in these types is newest-first: the most
// recently appended element is at index 0.
package hackhub

import "time"

// ProjectState is the lifecycle state of a project.
type ProjectState string

const (
	StateStarted    ProjectState = "iniciado"
	StateInProgress ProjectState = "en_progreso"
	StateCompleted  ProjectState = "completado"
)

// Valid reports whether s is one of the enumerated states.
func (s ProjectState) Valid() bool {
	switch s {
	case StateStarted, StateInProgress, StateCompleted:
		return true
	}
	return false
}

// ProjectCategory classifies a project.
type ProjectCategory string

const (
	CategorySocial        ProjectCategory = "social"
	CategoryEnvironmental ProjectCategory = "ambiental"
	CategoryEducational   ProjectCategory = "educativo"
)

// Valid reports whether c is one of the enumerated categories.
func (c ProjectCategory) Valid() bool {
	switch c {
	case CategorySocial, CategoryEnvironmental, CategoryEducational:
		return true
	}
	return false
}

// Participant is a member of a team. Email is unique within the team.
type Participant struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Team is keyed by Name in its registry.
type Team struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Topic        string        `json:"topic"`
	Participants []Participant `json:"participants"` // newest-first
	CreatedAt    time.Time     `json:"created_at"`
}

// Feedback is a single mentor note attached to a project.
type Feedback struct {
	MentorName string    `json:"mentor_name"`
	Content    string    `json:"content"`
	At         time.Time `json:"at"`
}

// Project is keyed by TeamName in its registry. The registry does not
// verify that the referenced team exists.
type Project struct {
	ID          string          `json:"id"`
	TeamName    string          `json:"team_name"`
	Description string          `json:"description"`
	Category    ProjectCategory `json:"category"`
	State       ProjectState    `json:"state"`
	Progress    []string        `json:"progress"` // newest-first
	Feedback    []Feedback      `json:"feedback"` // newest-first
	CreatedAt   time.Time       `json:"created_at"`
}

// GivenFeedback records feedback a mentor handed to a team.
type GivenFeedback struct {
	TeamName string    `json:"team_name"`
	Content  string    `json:"content"`
	At       time.Time `json:"at"`
}

// Mentor is keyed by ID in its registry. Names are not unique.
type Mentor struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Specialty     string          `json:"specialty"`
	FeedbackGiven []GivenFeedback `json:"feedback_given"` // newest-first
}

// Message is immutable once appended to a room.
type Message struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	Room      string    `json:"room"`
	Timestamp time.Time `json:"timestamp"`
}

// GeneralRoom always exists after chat server start and after a chat
// reset.
const GeneralRoom = "general"
