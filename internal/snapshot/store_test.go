package snapshot

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"hackhub"

	"github.com/fxamacker/cbor/v2"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	return New(t.TempDir())
}

func TestTeamsRoundTrip(t *testing.T) {
	s := testStore(t)

	teams := map[string]hackhub.Team{
		"Alpha": {
			ID:    "a1b2c3d4",
			Name:  "Alpha",
			Topic: "AI",
			Participants: []hackhub.Participant{
				{Name: "Ana", Email: "a@x"},
			},
			CreatedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		},
	}
	if err := s.SaveTeams(teams); err != nil {
		t.Fatalf("SaveTeams: %v", err)
	}

	got := s.LoadTeams()
	if len(got) != 1 {
		t.Fatalf("loaded %d teams, want 1", len(got))
	}
	team := got["Alpha"]
	if team.Topic != "AI" || len(team.Participants) != 1 || team.Participants[0].Email != "a@x" {
		t.Fatalf("round-trip mismatch: %+v", team)
	}
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	s := testStore(t)
	if got := s.LoadTeams(); len(got) != 0 {
		t.Fatalf("missing file loaded %d entries", len(got))
	}
	if got := s.LoadChat(); len(got) != 0 {
		t.Fatalf("missing chat loaded %d rooms", len(got))
	}
}

// Legacy snapshots hold an ordered list of entities instead of the
// canonical map. Bootstrap converts them keyed by natural key.
func TestLegacyListBootstrap(t *testing.T) {
	s := testStore(t)

	legacy := []hackhub.Mentor{
		{ID: "11111111", Name: "Dr S", Specialty: "IA"},
		{ID: "22222222", Name: "Dr T", Specialty: "IoT"},
	}
	data, err := cbor.Marshal(legacy)
	if err != nil {
		t.Fatalf("marshal legacy: %v", err)
	}
	if err := os.WriteFile(s.mentorsPath(), data, 0o644); err != nil {
		t.Fatalf("write legacy: %v", err)
	}

	got := s.LoadMentors()
	if len(got) != 2 {
		t.Fatalf("loaded %d mentors, want 2", len(got))
	}
	if got["11111111"].Name != "Dr S" || got["22222222"].Specialty != "IoT" {
		t.Fatalf("legacy conversion mismatch: %+v", got)
	}
}

func TestCorruptFileLoadsEmpty(t *testing.T) {
	s := testStore(t)
	if err := os.MkdirAll(s.Dir(), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(s.teamsPath(), []byte("not cbor at all"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := s.LoadTeams(); len(got) != 0 {
		t.Fatalf("corrupt file loaded %d entries", len(got))
	}
}

func TestChatRoundTripAndPrune(t *testing.T) {
	s := testStore(t)

	rooms := map[string][]hackhub.Message{
		"general": {},
		"Room1": {
			{ID: "m2", Author: "B", Content: "dos", Room: "Room1"},
			{ID: "m1", Author: "A", Content: "uno", Room: "Room1"},
		},
	}
	if err := s.SaveChat(rooms); err != nil {
		t.Fatalf("SaveChat: %v", err)
	}

	got := s.LoadChat()
	if len(got) != 2 {
		t.Fatalf("loaded %d rooms, want 2", len(got))
	}
	if len(got["Room1"]) != 2 || got["Room1"][0].Content != "dos" {
		t.Fatalf("room history mismatch: %+v", got["Room1"])
	}

	// Dropping Room1 removes its file on the next save.
	if err := s.SaveChat(map[string][]hackhub.Message{"general": {}}); err != nil {
		t.Fatalf("SaveChat: %v", err)
	}
	if _, err := os.Stat(s.roomPath("Room1")); !os.IsNotExist(err) {
		t.Fatalf("stale room file survived prune: %v", err)
	}
}

func TestRoomNameEscaping(t *testing.T) {
	s := testStore(t)
	name := "weird/../room"
	if err := s.SaveRoom(name, nil); err != nil {
		t.Fatalf("SaveRoom: %v", err)
	}
	p := s.roomPath(name)
	if filepath.Dir(p) != filepath.Join(s.Dir(), "chat") {
		t.Fatalf("room path escaped chat dir: %s", p)
	}
}

func TestClearAllAndInfo(t *testing.T) {
	s := testStore(t)

	if err := s.SaveTeams(map[string]hackhub.Team{"Alpha": {Name: "Alpha"}}); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveChat(map[string][]hackhub.Message{"general": {}}); err != nil {
		t.Fatal(err)
	}

	info := s.ReadInfo()
	if info.Teams != 1 || info.Rooms != 1 {
		t.Fatalf("info = %+v", info)
	}

	if err := s.ClearAll(); err != nil {
		t.Fatalf("ClearAll: %v", err)
	}
	info = s.ReadInfo()
	if info != (Info{}) {
		t.Fatalf("info after clear = %+v", info)
	}
	if _, err := os.Stat(s.Dir()); err != nil {
		t.Fatalf("base dir missing after clear: %v", err)
	}
}
