package project

import "hackhub"

// Store persists the project registry.
// Production: *snapshot.Store. Testing: in-memory fake.
type Store interface {
	LoadProjects() map[string]hackhub.Project
	SaveProjects(projects map[string]hackhub.Project) error
}
