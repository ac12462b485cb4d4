package cmdutil

import (
	"errors"
	"fmt"
	"testing"

	"hackhub"
	"hackhub/internal/kernel"
)

func TestDomainMessage(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		domain bool
	}{
		{"team exists", hackhub.ErrTeamExists, true},
		{"wrapped team exists", fmt.Errorf("create: %w", hackhub.ErrTeamExists), true},
		{"room not found", hackhub.ErrRoomNotFound, true},
		{"chat unavailable", hackhub.ErrChatUnavailable, true},
		{"validation", &hackhub.ValidationError{Field: "state", Message: "unknown"}, true},
		{"timeout", kernel.ErrTimeout, true},
		{"plain error", errors.New("disk on fire"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, domain := DomainMessage(tt.err)
			if domain != tt.domain {
				t.Fatalf("domain = %v, want %v", domain, tt.domain)
			}
			if domain && msg == "" {
				t.Fatal("domain error rendered empty message")
			}
		})
	}
}
