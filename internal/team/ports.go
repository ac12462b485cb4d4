package team

import "hackhub"

// Store persists the team registry.
// Production: *snapshot.Store. Testing: in-memory fake.
type Store interface {
	LoadTeams() map[string]hackhub.Team
	SaveTeams(teams map[string]hackhub.Team) error
}
