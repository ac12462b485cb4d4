// Package loadgen drives a concurrent creation workload against the
// hub: teams, participants, projects and chat messages in four bounded
// parallel phases. Its purpose is to demonstrate that the single-writer
// registries keep duplicate detection and ordering under contention.
package loadgen

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"hackhub"

	"golang.org/x/sync/errgroup"
)

const (
	// maxInFlight caps the fan-out per phase.
	maxInFlight = 50
	// taskTimeout bounds every individual request.
	taskTimeout = 10 * time.Second
)

// Target is the slice of the hub the harness drives.
type Target interface {
	CreateTeam(ctx context.Context, name, topic string) (hackhub.Team, error)
	AddParticipant(ctx context.Context, teamName, personName, email string) (hackhub.Team, error)
	CreateProject(ctx context.Context, teamName, description string, category hackhub.ProjectCategory) (hackhub.Project, error)
	CreateRoom(ctx context.Context, name string) (string, error)
	SendMessage(ctx context.Context, room, author, content string) error
}

// Config sizes the workload: N teams, M participants per team, one
// project per team, K messages per team room.
type Config struct {
	Teams        int
	Participants int
	Messages     int
}

// DefaultConfig is the standard benchmark shape.
var DefaultConfig = Config{Teams: 100, Participants: 10, Messages: 10}

// Phase is one timed stage of the run.
type Phase struct {
	Name     string        `json:"name"`
	Count    int           `json:"count"`
	Errors   int           `json:"errors"`
	Duration time.Duration `json:"duration"`
}

// Report sums a finished run.
type Report struct {
	Phases []Phase       `json:"phases"`
	Total  time.Duration `json:"total"`
}

// Errors sums errors across phases.
func (r Report) Errors() int {
	n := 0
	for _, p := range r.Phases {
		n += p.Errors
	}
	return n
}

var categories = []hackhub.ProjectCategory{
	hackhub.CategorySocial,
	hackhub.CategoryEnvironmental,
	hackhub.CategoryEducational,
}

// TeamName returns the i-th generated team name.
func TeamName(i int) string { return fmt.Sprintf("team-%03d", i) }

// RoomName returns the chat room used by the i-th team.
func RoomName(i int) string { return "room-" + TeamName(i) }

// Run executes the four phases in order and reports timings. A failed
// task counts as a phase error; the run itself only fails when ctx is
// cancelled.
func Run(ctx context.Context, target Target, cfg Config) (Report, error) {
	var report Report
	start := time.Now()

	phases := []struct {
		name string
		run  func(ctx context.Context) (int, int)
	}{
		{"teams", func(ctx context.Context) (int, int) { return runTeams(ctx, target, cfg) }},
		{"participants", func(ctx context.Context) (int, int) { return runParticipants(ctx, target, cfg) }},
		{"projects", func(ctx context.Context) (int, int) { return runProjects(ctx, target, cfg) }},
		{"messages", func(ctx context.Context) (int, int) { return runMessages(ctx, target, cfg) }},
	}
	for _, phase := range phases {
		phaseStart := time.Now()
		count, errs := phase.run(ctx)
		report.Phases = append(report.Phases, Phase{
			Name:     phase.name,
			Count:    count,
			Errors:   errs,
			Duration: time.Since(phaseStart),
		})
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
	}

	report.Total = time.Since(start)
	return report, nil
}

// fanOut runs n tasks with the shared concurrency cap and per-task
// timeout, counting successes and failures.
func fanOut(ctx context.Context, n int, task func(ctx context.Context, i int) error) (int, int) {
	var ok, failed atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxInFlight)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			taskCtx, cancel := context.WithTimeout(ctx, taskTimeout)
			defer cancel()
			if err := task(taskCtx, i); err != nil {
				failed.Add(1)
			} else {
				ok.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()
	return int(ok.Load()), int(failed.Load())
}

func runTeams(ctx context.Context, target Target, cfg Config) (int, int) {
	return fanOut(ctx, cfg.Teams, func(ctx context.Context, i int) error {
		_, err := target.CreateTeam(ctx, TeamName(i), fmt.Sprintf("topic-%03d", i))
		return err
	})
}

func runParticipants(ctx context.Context, target Target, cfg Config) (int, int) {
	total := cfg.Teams * cfg.Participants
	return fanOut(ctx, total, func(ctx context.Context, i int) error {
		team, member := i/cfg.Participants, i%cfg.Participants
		_, err := target.AddParticipant(ctx, TeamName(team),
			fmt.Sprintf("member-%d", member),
			fmt.Sprintf("member-%d@%s.example.com", member, TeamName(team)))
		return err
	})
}

func runProjects(ctx context.Context, target Target, cfg Config) (int, int) {
	return fanOut(ctx, cfg.Teams, func(ctx context.Context, i int) error {
		_, err := target.CreateProject(ctx, TeamName(i),
			fmt.Sprintf("project for %s", TeamName(i)), categories[i%len(categories)])
		return err
	})
}

func runMessages(ctx context.Context, target Target, cfg Config) (int, int) {
	// Rooms first: sends to a missing room are silently dropped.
	_, roomErrs := fanOut(ctx, cfg.Teams, func(ctx context.Context, i int) error {
		_, err := target.CreateRoom(ctx, RoomName(i))
		return err
	})

	total := cfg.Teams * cfg.Messages
	sent, errs := fanOut(ctx, total, func(ctx context.Context, i int) error {
		team, seq := i/cfg.Messages, i%cfg.Messages
		return target.SendMessage(ctx, RoomName(team),
			fmt.Sprintf("member-%d", seq%max(cfg.Participants, 1)),
			fmt.Sprintf("message %d from %s", seq, TeamName(team)))
	})
	return sent, errs + roomErrs
}
