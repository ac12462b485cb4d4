package mentor

import (
	"context"

	"hackhub"
)

// Store persists the mentor registry.
// Production: *snapshot.Store. Testing: in-memory fake.
type Store interface {
	LoadMentors() map[string]hackhub.Mentor
	SaveMentors(mentors map[string]hackhub.Mentor) error
}

// FeedbackSink receives the project-side half of a mentor feedback.
// Production: *project.Service. Testing: recording fake.
type FeedbackSink interface {
	AppendFeedback(ctx context.Context, teamName, mentorName, content string) (hackhub.Project, error)
}
