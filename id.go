package hackhub

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// NewID returns a random 8-character hex identifier, the id format
// shared by teams, projects, mentors and messages.
func NewID() string {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand never fails on supported platforms.
		panic("hackhub.NewID: " + err.Error())
	}
	return hex.EncodeToString(b[:])
}

// Clock abstracts time for tests.
// Production: RealClock. Testing: fixed or stepped fakes.
type Clock interface {
	Now() time.Time
}

// RealClock is the production Clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now().UTC() }
