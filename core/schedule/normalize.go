package schedule

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/teambition/rrule-go"

	"github.com/mwalimu/ratiba/core"
	"github.com/mwalimu/ratiba/core/actor"
	"github.com/mwalimu/ratiba/core/post"
)

// maxRecurrences caps recurrence expansion per record.
const maxRecurrences = 366

var (
	errMissingTitle   = errors.New("post has no title")
	errNotSchedulable = errors.New("post type does not belong on the calendar")
	errNotScheduled   = errors.New("post has no scheduling instant")
)

// Normalizer converts heterogeneous posts into CalendarItems.
type Normalizer struct {
	enableWeights bool
	logger        core.Logger
}

func NewNormalizer(conf *core.Config, logger core.Logger) *Normalizer {
	return &Normalizer{enableWeights: conf.EnableWeights, logger: logger}
}

// Normalize converts one post for the given viewer. It has no side effects;
// the returned item's Kind is immutable downstream.
func (n *Normalizer) Normalize(p post.Post, viewer actor.Actor) (CalendarItem, error) {
	if core.CleanString(p.Title) == "" {
		return CalendarItem{}, errors.Wrap(errMissingTitle, p.ID)
	}
	if !p.Type.IsSchedulable() {
		return CalendarItem{}, errors.Wrap(errNotSchedulable, p.ID)
	}
	when, ok := p.When()
	if !ok {
		return CalendarItem{}, errors.Wrap(errNotScheduled, p.ID)
	}

	it := CalendarItem{
		ID:           p.ID,
		RecordID:     p.ID,
		Kind:         p.Type,
		ClassIDs:     p.ClassIDs,
		StartAt:      when,
		AllDay:       p.AllDay,
		Title:        p.Title,
		AuthorName:   p.AuthorName,
		Location:     p.Location,
		Body:         p.Body,
		PublishState: p.PublishState,
		Clickable:    viewer.BypassesPublishGate() || p.PublishState == post.StatePublished,
	}
	if !p.Type.IsDeadline() {
		it.EndAt = p.EndAt
	}
	if n.enableWeights {
		it.Weight = p.Weight
	}

	if it.EndAt != nil && it.EndAt.Before(it.StartAt) {
		// bad upstream data; clamp rather than drop
		end := it.StartAt
		it.EndAt = &end
	}
	return it, nil
}

// NormalizeAll converts a post list for the given viewer, dropping malformed
// records with a logged diagnostic, and expands repeat rules into per-day
// instances within [from, to].
func (n *Normalizer) NormalizeAll(posts []post.Post, viewer actor.Actor, from, to time.Time) []CalendarItem {
	items := make([]CalendarItem, 0, len(posts))
	for _, p := range posts {
		it, err := n.Normalize(p, viewer)
		if err != nil {
			n.logger.Warn(fmt.Sprintf("dropping malformed post %q: %v", p.ID, err))
			continue
		}
		if p.RepeatRule == "" {
			items = append(items, it)
			continue
		}
		instances, err := n.expand(it, p.RepeatRule, from, to)
		if err != nil {
			n.logger.Warn(fmt.Sprintf("dropping repeat rule on post %q: %v", p.ID, err))
			items = append(items, it)
			continue
		}
		items = append(items, instances...)
	}
	return items
}

// expand materializes a repeat rule into concrete instances. Instances share
// the base item's RecordID; their IDs embed the occurrence day.
func (n *Normalizer) expand(base CalendarItem, rule string, from, to time.Time) ([]CalendarItem, error) {
	r, err := rrule.StrToRRule(rule)
	if err != nil {
		return nil, errors.Wrap(err, "parsing repeat rule")
	}
	r.DTStart(base.StartAt)

	occs := r.Between(from, to, true)
	if len(occs) > maxRecurrences {
		occs = occs[:maxRecurrences]
	}

	var span time.Duration
	if base.EndAt != nil {
		span = base.EndAt.Sub(base.StartAt)
	}

	instances := make([]CalendarItem, 0, len(occs))
	for _, occ := range occs {
		inst := base
		inst.ID = base.RecordID + "@" + DayKey(occ)
		inst.StartAt = occ
		if base.EndAt != nil {
			end := occ.Add(span)
			inst.EndAt = &end
		}
		instances = append(instances, inst)
	}
	return instances, nil
}
