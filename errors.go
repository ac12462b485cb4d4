package hackhub

import "errors"

// Domain error taxonomy. Registry operations return these as tagged
// outcomes; none of them is ever allowed to escape as a panic.
var (
	ErrTeamExists           = errors.New("team already exists")
	ErrTeamNotFound         = errors.New("team not found")
	ErrParticipantDuplicate = errors.New("participant email already registered in team")

	ErrProjectExists   = errors.New("project already exists for team")
	ErrProjectNotFound = errors.New("project not found")

	ErrMentorNotFound = errors.New("mentor not found")

	ErrRoomExists      = errors.New("room already exists")
	ErrRoomNotFound    = errors.New("room not found")
	ErrChatUnavailable = errors.New("chat server unavailable")

	// ErrUnavailable indicates a registry was momentarily non-responsive
	// during snapshot aggregation.
	ErrUnavailable = errors.New("registry unavailable")
)

// ValidationError indicates an invalid input to a registry operation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}
