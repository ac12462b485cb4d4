// Package snapshot persists each registry's full state to disk, one
// file per registry, rewritten on every successful mutation.
//
// Layout under the base directory:
//
//	teams.etf       map[team name]Team
//	projects.etf    map[team name]Project
//	mentors.etf     map[mentor id]Mentor
//	chat/index.etf  ordered room names
//	chat/<room>.etf newest-first messages for one room
package snapshot

import (
	"net/url"
	"os"
	"path/filepath"

	"hackhub"
)

const (
	teamsFile    = "teams.etf"
	projectsFile = "projects.etf"
	mentorsFile  = "mentors.etf"
	chatDir      = "chat"
	indexFile    = "index.etf"
)

// Store reads and writes registry snapshots under one base directory.
// Each file is owned exclusively by its registry worker while the
// system is live.
type Store struct {
	dir string
}

// New creates a store rooted at dir. The directory is created lazily on
// first write.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the base directory.
func (s *Store) Dir() string { return s.dir }

func (s *Store) teamsPath() string    { return filepath.Join(s.dir, teamsFile) }
func (s *Store) projectsPath() string { return filepath.Join(s.dir, projectsFile) }
func (s *Store) mentorsPath() string  { return filepath.Join(s.dir, mentorsFile) }
func (s *Store) indexPath() string    { return filepath.Join(s.dir, chatDir, indexFile) }

func (s *Store) roomPath(name string) string {
	return filepath.Join(s.dir, chatDir, url.PathEscape(name)+".etf")
}

// SaveTeams rewrites the teams snapshot.
func (s *Store) SaveTeams(teams map[string]hackhub.Team) error {
	return writeFile(s.teamsPath(), teams)
}

// LoadTeams reads the teams snapshot. It accepts the canonical map or a
// legacy team list keyed by name; missing or corrupt files load empty.
func (s *Store) LoadTeams() map[string]hackhub.Team {
	return loadMap(s.teamsPath(), func(t hackhub.Team) string { return t.Name })
}

// SaveProjects rewrites the projects snapshot.
func (s *Store) SaveProjects(projects map[string]hackhub.Project) error {
	return writeFile(s.projectsPath(), projects)
}

// LoadProjects reads the projects snapshot, accepting a legacy project
// list keyed by team name.
func (s *Store) LoadProjects() map[string]hackhub.Project {
	return loadMap(s.projectsPath(), func(p hackhub.Project) string { return p.TeamName })
}

// SaveMentors rewrites the mentors snapshot.
func (s *Store) SaveMentors(mentors map[string]hackhub.Mentor) error {
	return writeFile(s.mentorsPath(), mentors)
}

// LoadMentors reads the mentors snapshot, accepting a legacy mentor
// list keyed by id.
func (s *Store) LoadMentors() map[string]hackhub.Mentor {
	return loadMap(s.mentorsPath(), func(m hackhub.Mentor) string { return m.ID })
}

// SaveChat rewrites the room index and every room's message file, then
// removes files of rooms no longer present.
func (s *Store) SaveChat(rooms map[string][]hackhub.Message) error {
	names := make([]string, 0, len(rooms))
	for name := range rooms {
		names = append(names, name)
	}
	if err := writeFile(s.indexPath(), names); err != nil {
		return err
	}
	for name, msgs := range rooms {
		if err := s.SaveRoom(name, msgs); err != nil {
			return err
		}
	}
	s.pruneRooms(rooms)
	return nil
}

// SaveRoom rewrites one room's message file.
func (s *Store) SaveRoom(name string, msgs []hackhub.Message) error {
	return writeFile(s.roomPath(name), msgs)
}

// LoadChat reads the room index and each listed room's messages. A
// room listed in the index but missing its file loads with empty
// history.
func (s *Store) LoadChat() map[string][]hackhub.Message {
	names := loadList[string](s.indexPath())
	rooms := make(map[string][]hackhub.Message, len(names))
	for _, name := range names {
		rooms[name] = loadList[hackhub.Message](s.roomPath(name))
	}
	return rooms
}

// pruneRooms deletes message files whose room is no longer in rooms.
func (s *Store) pruneRooms(rooms map[string][]hackhub.Message) {
	entries, err := os.ReadDir(filepath.Join(s.dir, chatDir))
	if err != nil {
		return
	}
	keep := make(map[string]bool, len(rooms)+1)
	keep[indexFile] = true
	for name := range rooms {
		keep[url.PathEscape(name)+".etf"] = true
	}
	for _, e := range entries {
		if !keep[e.Name()] {
			_ = os.Remove(filepath.Join(s.dir, chatDir, e.Name()))
		}
	}
}

// ClearAll removes the base directory recursively and recreates it
// empty. It succeeds unconditionally: a failed removal still attempts
// the recreate.
func (s *Store) ClearAll() error {
	_ = os.RemoveAll(s.dir)
	return os.MkdirAll(s.dir, 0o755)
}

// Info holds per-file entry counts for observability.
type Info struct {
	Teams    int `json:"teams"`
	Projects int `json:"projects"`
	Mentors  int `json:"mentors"`
	Rooms    int `json:"rooms"`
	Messages int `json:"messages"`
}

// ReadInfo counts entries in each snapshot file.
func (s *Store) ReadInfo() Info {
	info := Info{
		Teams:    len(s.LoadTeams()),
		Projects: len(s.LoadProjects()),
		Mentors:  len(s.LoadMentors()),
	}
	for _, messages := range s.LoadChat() {
		info.Rooms++
		info.Messages += len(messages)
	}
	return info
}
