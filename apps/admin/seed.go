package main

import (
	"fmt"
	"time"

	"github.com/mwalimu/ratiba/core/actor"
	"github.com/mwalimu/ratiba/core/post"
)

var seedAuthor = post.Author{
	ID:    "seed-registrar",
	Name:  "Registrar Office",
	Email: "registrar@localhost",
	Roles: []string{actor.RoleRegistrar},
}

// seed creates a small set of published demo posts spread over the next
// `days` days, one of each schedulable kind per cycle.
func (cli *commandLine) seed(days int) error {
	svc := post.NewService(cli.postRepo)
	now := time.Now().UTC()

	kinds := []post.Type{post.TypeEvent, post.TypeActivity, post.TypeAssignment, post.TypeExam}
	for i := 0; i < days; i++ {
		kind := kinds[i%len(kinds)]
		day := now.AddDate(0, 0, i+1)

		np := post.NewPost{
			Type:    kind,
			Title:   fmt.Sprintf("Demo %s %d", kind, i+1),
			Body:    "Seeded for demo purposes.",
			Publish: true,
		}
		if kind.IsDeadline() {
			due := time.Date(day.Year(), day.Month(), day.Day(), 16, 0, 0, 0, time.UTC)
			np.DueAt = &due
		} else {
			start := time.Date(day.Year(), day.Month(), day.Day(), 9, 0, 0, 0, time.UTC)
			end := start.Add(2 * time.Hour)
			np.StartAt, np.EndAt = &start, &end
		}

		if _, err := svc.Create(np, seedAuthor); err != nil {
			return err
		}
	}
	cli.logger.Info(fmt.Sprintf("seeded %d posts", days))
	return nil
}
