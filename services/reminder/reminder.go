// Package remindersvc emails authors about next-day deadlines on a daily
// cron schedule.
package remindersvc

import (
	"fmt"
	"net/mail"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mwalimu/ratiba/core"
	"github.com/mwalimu/ratiba/core/post"
)

// daily at 06:00
const defaultSpec = "0 6 * * *"

type Service struct {
	repo    post.Repository
	mailSvc core.EmailService
	logger  core.Logger
	cron    *cron.Cron
	spec    string

	nowFunc func() time.Time // mockable
}

func NewService(repo post.Repository, mailSvc core.EmailService, logger core.Logger) *Service {
	return &Service{
		repo:    repo,
		mailSvc: mailSvc,
		logger:  logger,
		cron:    cron.New(),
		spec:    defaultSpec,
		nowFunc: time.Now,
	}
}

// Start schedules the daily run; call Stop on shutdown.
func (svc *Service) Start() error {
	if _, err := svc.cron.AddFunc(svc.spec, svc.RunOnce); err != nil {
		return err
	}
	svc.cron.Start()
	return nil
}

func (svc *Service) Stop() {
	svc.cron.Stop()
}

// RunOnce emails each author whose deadline-kind posts fall due tomorrow.
func (svc *Service) RunOnce() {
	now := svc.nowFunc().UTC()
	from := now.Truncate(24 * time.Hour).AddDate(0, 0, 1)
	to := from.AddDate(0, 0, 1).Add(-time.Second)

	posts, err := svc.repo.FilterPosts(post.QueryFilter{
		From:  from,
		To:    to,
		Types: []post.Type{post.TypeActivity, post.TypeAssignment, post.TypeExam},
	})
	if err != nil {
		svc.logger.Error(fmt.Sprintf("querying next-day deadlines: %v", err), err)
		return
	}

	msgs := make([]*core.EmailMessage, 0, len(posts))
	for _, p := range posts {
		if p.AuthorEmail == "" || p.PublishState != post.StatePublished {
			continue
		}
		due, ok := p.When()
		if !ok {
			continue
		}
		msgs = append(msgs, &core.EmailMessage{
			To:      []mail.Address{{Name: p.AuthorName, Address: p.AuthorEmail}},
			Subject: fmt.Sprintf("Reminder: %q is due tomorrow", p.Title),
			BodyStr: fmt.Sprintf("%q is due %s.", p.Title, due.Format("Mon, 02 Jan 2006 15:04 MST")),
		})
	}
	if len(msgs) > 0 {
		svc.mailSvc.SendMessages(msgs...)
	}
	svc.logger.Info(fmt.Sprintf("deadline reminders: %d sent", len(msgs)))
}
