package schedule

import (
	"testing"
	"time"

	"github.com/mwalimu/ratiba/core"
	"github.com/mwalimu/ratiba/core/actor"
	"github.com/mwalimu/ratiba/core/post"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

var (
	student   = actor.Actor{ID: "std1", Name: "Amani", Roles: []string{actor.RoleStudent}}
	teacher   = actor.Actor{ID: "tch1", Name: "Mw. Zawadi", Email: "zawadi@test.cd", Roles: []string{actor.RoleTeacher}}
	registrar = actor.Actor{ID: "reg1", Name: "Bi. Neema", Email: "neema@test.cd", Roles: []string{actor.RoleRegistrar}}
)

func newTestNormalizer(enableWeights bool) *Normalizer {
	return NewNormalizer(&core.Config{EnableWeights: enableWeights}, nopLogger{})
}

func eventPost(id string, start time.Time) post.Post {
	end := start.Add(time.Hour)
	return post.Post{
		ID: id, Type: post.TypeEvent, Title: "Event " + id,
		AuthorID: "tch1", AuthorName: "Mw. Zawadi",
		StartAt: &start, EndAt: &end,
		PublishState: post.StatePublished,
	}
}

func deadlinePost(id string, kind post.Type, due time.Time) post.Post {
	return post.Post{
		ID: id, Type: kind, Title: string(kind) + " " + id,
		AuthorID: "tch1", AuthorName: "Mw. Zawadi",
		DueAt:        &due,
		PublishState: post.StatePublished,
	}
}

func TestNormalizer_Normalize(t *testing.T) {
	n := newTestNormalizer(false)
	start := time.Date(2021, 3, 15, 9, 0, 0, 0, time.UTC)

	t.Run("event keeps its span", func(t *testing.T) {
		it, err := n.Normalize(eventPost("e1", start), student)
		if err != nil {
			t.Fatalf("Normalize() failed, %v", err)
		}
		if it.Kind != post.TypeEvent {
			t.Errorf("Kind = %s, want event", it.Kind)
		}
		if !it.StartAt.Equal(start) || it.EndAt == nil || !it.EndAt.Equal(start.Add(time.Hour)) {
			t.Errorf("span = %v..%v", it.StartAt, it.EndAt)
		}
	})

	t.Run("deadline kinds anchor on due date without end", func(t *testing.T) {
		for _, kind := range []post.Type{post.TypeActivity, post.TypeAssignment, post.TypeExam} {
			it, err := n.Normalize(deadlinePost("d1", kind, start), student)
			if err != nil {
				t.Fatalf("Normalize(%s) failed, %v", kind, err)
			}
			if !it.StartAt.Equal(start) {
				t.Errorf("%s StartAt = %v, want due date", kind, it.StartAt)
			}
			if it.EndAt != nil {
				t.Errorf("%s EndAt = %v, want nil", kind, it.EndAt)
			}
		}
	})

	t.Run("announcement is dropped", func(t *testing.T) {
		p := post.Post{ID: "a1", Type: post.TypeAnnouncement, Title: "News", StartAt: &start}
		if _, err := n.Normalize(p, student); err == nil {
			t.Error("Normalize() accepted a non-schedulable type")
		}
	})

	t.Run("empty title is dropped", func(t *testing.T) {
		p := eventPost("e2", start)
		p.Title = "   "
		if _, err := n.Normalize(p, student); err == nil {
			t.Error("Normalize() accepted an empty title")
		}
	})

	t.Run("unscheduled post is dropped", func(t *testing.T) {
		p := post.Post{ID: "e3", Type: post.TypeEvent, Title: "No date"}
		if _, err := n.Normalize(p, student); err == nil {
			t.Error("Normalize() accepted a post without dates")
		}
	})

	t.Run("end before start is clamped", func(t *testing.T) {
		p := eventPost("e4", start)
		bad := start.Add(-time.Hour)
		p.EndAt = &bad
		it, err := n.Normalize(p, student)
		if err != nil {
			t.Fatalf("Normalize() failed, %v", err)
		}
		if it.EndAt.Before(it.StartAt) {
			t.Errorf("EndAt %v still before StartAt %v", it.EndAt, it.StartAt)
		}
	})
}

func TestNormalizer_Normalize_clickability(t *testing.T) {
	n := newTestNormalizer(false)
	start := time.Date(2021, 3, 15, 9, 0, 0, 0, time.UTC)

	draft := eventPost("e1", start)
	draft.PublishState = post.StateDraft

	tests := []struct {
		name   string
		viewer actor.Actor
		p      post.Post
		want   bool
	}{
		{"student sees published as clickable", student, eventPost("e2", start), true},
		{"student cannot open a draft", student, draft, false},
		{"teacher bypasses publish gating", teacher, draft, true},
		{"registrar bypasses publish gating", registrar, draft, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it, err := n.Normalize(tt.p, tt.viewer)
			if err != nil {
				t.Fatalf("Normalize() failed, %v", err)
			}
			if it.Clickable != tt.want {
				t.Errorf("Clickable = %v, want %v", it.Clickable, tt.want)
			}
		})
	}
}

func TestNormalizer_weights(t *testing.T) {
	start := time.Date(2021, 3, 15, 9, 0, 0, 0, time.UTC)
	w := 0.3
	p := deadlinePost("d1", post.TypeExam, start)
	p.Weight = &w

	it, err := newTestNormalizer(true).Normalize(p, student)
	if err != nil {
		t.Fatalf("Normalize() failed, %v", err)
	}
	if it.Weight == nil || *it.Weight != w {
		t.Errorf("Weight = %v, want %v", it.Weight, w)
	}

	it, err = newTestNormalizer(false).Normalize(p, student)
	if err != nil {
		t.Fatalf("Normalize() failed, %v", err)
	}
	if it.Weight != nil {
		t.Errorf("Weight = %v, want nil when disabled", it.Weight)
	}
}

func TestNormalizer_NormalizeAll(t *testing.T) {
	n := newTestNormalizer(false)
	start := time.Date(2021, 3, 15, 9, 0, 0, 0, time.UTC)

	bad := eventPost("bad", start)
	bad.Title = ""

	posts := []post.Post{eventPost("e1", start), bad, deadlinePost("d1", post.TypeExam, start)}
	items := n.NormalizeAll(posts, student, start.AddDate(0, 0, -1), start.AddDate(0, 0, 7))
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2 (malformed post dropped)", len(items))
	}
}

func TestNormalizer_NormalizeAll_repeatRule(t *testing.T) {
	n := newTestNormalizer(false)
	start := time.Date(2021, 3, 1, 9, 0, 0, 0, time.UTC)

	p := eventPost("rec", start)
	p.RepeatRule = "FREQ=WEEKLY;COUNT=10"

	from := day(2021, 3, 1)
	to := day(2021, 3, 21)
	items := n.NormalizeAll([]post.Post{p}, student, from, to)

	if len(items) != 3 {
		t.Fatalf("len = %d, want 3 weekly instances in window", len(items))
	}
	seen := make(map[string]bool)
	for _, it := range items {
		if it.RecordID != "rec" {
			t.Errorf("RecordID = %q, want rec", it.RecordID)
		}
		if seen[it.ID] {
			t.Errorf("duplicate instance ID %q", it.ID)
		}
		seen[it.ID] = true
		if it.EndAt == nil || it.EndAt.Sub(it.StartAt) != time.Hour {
			t.Errorf("instance %q lost its duration", it.ID)
		}
	}

	t.Run("invalid rule falls back to the base item", func(t *testing.T) {
		p := eventPost("rec2", start)
		p.RepeatRule = "FREQ=NOPE"
		items := n.NormalizeAll([]post.Post{p}, student, from, to)
		if len(items) != 1 || items[0].ID != "rec2" {
			t.Errorf("items = %+v, want the single base item", items)
		}
	})
}
