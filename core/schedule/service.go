package schedule

import (
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/mwalimu/ratiba/core"
	"github.com/mwalimu/ratiba/core/actor"
	"github.com/mwalimu/ratiba/core/post"
)

// Broadcaster pushes schedule-change notifications to connected clients.
type Broadcaster interface {
	PostMoved(p post.Post)
}

type Service struct {
	repo        post.Repository
	normalizer  *Normalizer
	mailSvc     core.EmailService
	logger      core.Logger
	broadcaster Broadcaster // optional
}

func NewService(repo post.Repository, normalizer *Normalizer, mailSvc core.EmailService, logger core.Logger, broadcaster Broadcaster) *Service {
	return &Service{
		repo:        repo,
		normalizer:  normalizer,
		mailSvc:     mailSvc,
		logger:      logger,
		broadcaster: broadcaster,
	}
}

// Feed returns the viewer's normalized calendar items within [from, to].
func (svc *Service) Feed(viewer actor.Actor, from, to time.Time, filter post.QueryFilter) ([]CalendarItem, error) {
	filter.From, filter.To = from, to
	posts, err := svc.repo.FilterPosts(filter)
	if err != nil {
		return nil, errors.Wrap(err, "filtering posts")
	}
	return svc.normalizer.NormalizeAll(posts, viewer, from, to), nil
}

// DayBuckets composes Feed with the day-grid computation for each day in
// [from, to] at the from instant's location.
func (svc *Service) DayBuckets(viewer actor.Actor, from, to time.Time, filter post.QueryFilter, limit VisibleLimitFn) (map[string]DayBucket, error) {
	items, err := svc.Feed(viewer, from, to, filter)
	if err != nil {
		return nil, err
	}
	return ComputeDayBuckets(DaysBetween(from, to), items, limit), nil
}

// DaysBetween lists the calendar days from `from` through `to` inclusive.
func DaysBetween(from, to time.Time) []time.Time {
	var days []time.Time
	for day := dayStart(from); !day.After(to); day = day.AddDate(0, 0, 1) {
		days = append(days, day)
	}
	return days
}

// MoveResult is the outcome of a drag-and-drop move: the decision, and the
// updated record when the mutation went through.
type MoveResult struct {
	Decision Decision  `json:"decision"`
	Post     post.Post `json:"post,omitempty"`
}

// Move validates a drag-and-drop date change and, if allowed, applies exactly
// one schedule mutation. A denied decision is not an error; a store miss is
// folded into a generic failure decision so the caller's schedule stays
// untouched.
func (svc *Service) Move(mover actor.Actor, recordID string, targetDay time.Time) (MoveResult, error) {
	p, err := svc.repo.GetPostByID(recordID)
	if err != nil {
		return MoveResult{}, errors.Wrap(err, "finding post")
	}

	from, _ := p.When()
	decision := ValidateMove(MoveRequest{
		Kind:              p.Type,
		From:              from,
		To:                targetDay,
		ActorIsOwner:      p.AuthoredBy(mover.ID),
		ActorIsRegistrar:  mover.IsRegistrar(),
		ScopeGlobal:       p.IsGlobal(),
		AuthorIsRegistrar: p.AuthorIsRegistrar(),
		Now:               time.Now().UTC(),
	})
	if !decision.Allowed {
		return MoveResult{Decision: decision}, nil
	}

	change := scheduleChange(p, targetDay)
	updated, err := svc.repo.UpdatePostSchedule(p.ID, change)
	if err != nil {
		if errors.Cause(err) == post.ErrNotFound {
			return MoveResult{Decision: Decision{
				Allowed:      false,
				Reason:       ReasonStoreFailure,
				ToastVariant: ToastWarning,
				ToastMessage: ReasonStoreFailure,
			}}, nil
		}
		return MoveResult{}, errors.Wrap(err, "updating post schedule")
	}

	svc.logger.Info(fmt.Sprintf("post %q moved to %s by %s", p.ID, DayKey(targetDay), mover.ID))
	svc.notifyMove(mover, updated)
	if svc.broadcaster != nil {
		svc.broadcaster.PostMoved(updated)
	}
	return MoveResult{Decision: decision, Post: updated}, nil
}

// scheduleChange computes the partial update for a move: deadline kinds keep
// their time-of-day on the new date, events keep time-of-day and duration.
func scheduleChange(p post.Post, targetDay time.Time) post.ScheduleChange {
	if p.Type.IsDeadline() {
		if p.DueAt == nil {
			return post.ScheduleChange{}
		}
		due, _ := ShiftToDay(*p.DueAt, nil, targetDay)
		return post.ScheduleChange{DueAt: &due}
	}
	if p.StartAt == nil {
		return post.ScheduleChange{}
	}
	start, end := ShiftToDay(*p.StartAt, p.EndAt, targetDay)
	return post.ScheduleChange{StartAt: &start, EndAt: end}
}

// notifyMove emails the author when somebody else rescheduled their post.
// Fire and forget; the mail service sends concurrently.
func (svc *Service) notifyMove(mover actor.Actor, p post.Post) {
	if p.AuthorID == mover.ID || p.AuthorEmail == "" {
		return
	}
	when, _ := p.When()
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: p.AuthorName, Address: p.AuthorEmail}},
		Subject: fmt.Sprintf("%q was rescheduled", p.Title),
		BodyStr: fmt.Sprintf("%s moved %q to %s.", mover.Name, p.Title, when.Format("Mon, 02 Jan 2006 15:04 MST")),
	})
}
