package inmemdb

import (
	"testing"
	"time"

	"github.com/mwalimu/ratiba/core/post"
)

func newRepo(t *testing.T) post.Repository {
	t.Helper()
	db, err := Open()
	if err != nil {
		t.Fatalf("Open() failed, %v", err)
	}
	return NewPostRepository(db)
}

func seed(t *testing.T, repo post.Repository, p post.Post) post.Post {
	t.Helper()
	created, err := repo.CreatePost(p)
	if err != nil {
		t.Fatalf("CreatePost() failed, %v", err)
	}
	return created
}

func TestPostRepository_CRUD(t *testing.T) {
	repo := newRepo(t)

	start := time.Date(2021, 3, 15, 9, 0, 0, 0, time.UTC)
	p := seed(t, repo, post.Post{Type: post.TypeEvent, Title: "Sports day", StartAt: &start})
	if p.ID == "" {
		t.Fatal("CreatePost() did not assign an ID")
	}

	got, err := repo.GetPostByID(p.ID)
	if err != nil {
		t.Fatalf("GetPostByID() failed, %v", err)
	}
	if got.Title != "Sports day" {
		t.Errorf("Title = %q", got.Title)
	}

	got.Title = "Sports week"
	if _, err = repo.UpdatePost(got); err != nil {
		t.Fatalf("UpdatePost() failed, %v", err)
	}
	got, _ = repo.GetPostByID(p.ID)
	if got.Title != "Sports week" {
		t.Errorf("Title after update = %q", got.Title)
	}

	if err = repo.DeletePostsByID(p.ID); err != nil {
		t.Fatalf("DeletePostsByID() failed, %v", err)
	}
	if _, err = repo.GetPostByID(p.ID); err != post.ErrNotFound {
		t.Errorf("GetPostByID() err = %v, want ErrNotFound", err)
	}

	t.Run("missing records", func(t *testing.T) {
		if _, err := repo.GetPostByID("nope"); err != post.ErrNotFound {
			t.Errorf("GetPostByID() err = %v", err)
		}
		if _, err := repo.UpdatePost(post.Post{ID: "nope"}); err != post.ErrNotFound {
			t.Errorf("UpdatePost() err = %v", err)
		}
		if _, err := repo.UpdatePostSchedule("nope", post.ScheduleChange{}); err != post.ErrNotFound {
			t.Errorf("UpdatePostSchedule() err = %v", err)
		}
	})
}

func TestPostRepository_UpdatePostSchedule(t *testing.T) {
	repo := newRepo(t)

	start := time.Date(2021, 3, 15, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	p := seed(t, repo, post.Post{Type: post.TypeEvent, Title: "Sports day", StartAt: &start, EndAt: &end, Location: "Field"})

	newStart := start.AddDate(0, 0, 5)
	newEnd := newStart.Add(time.Hour)
	updated, err := repo.UpdatePostSchedule(p.ID, post.ScheduleChange{StartAt: &newStart, EndAt: &newEnd})
	if err != nil {
		t.Fatalf("UpdatePostSchedule() failed, %v", err)
	}
	if !updated.StartAt.Equal(newStart) || !updated.EndAt.Equal(newEnd) {
		t.Errorf("span = %v..%v", updated.StartAt, updated.EndAt)
	}
	// untouched fields survive a partial change
	if updated.Location != "Field" || updated.Title != "Sports day" {
		t.Errorf("partial update clobbered fields: %+v", updated)
	}

	t.Run("nil fields leave values alone", func(t *testing.T) {
		due := time.Date(2021, 4, 1, 16, 0, 0, 0, time.UTC)
		d := seed(t, repo, post.Post{Type: post.TypeExam, Title: "Math exam", DueAt: &due})

		newDue := due.AddDate(0, 0, 2)
		updated, err := repo.UpdatePostSchedule(d.ID, post.ScheduleChange{DueAt: &newDue})
		if err != nil {
			t.Fatalf("UpdatePostSchedule() failed, %v", err)
		}
		if updated.StartAt != nil || updated.EndAt != nil {
			t.Errorf("deadline gained a span: %+v", updated)
		}
		if !updated.DueAt.Equal(newDue) {
			t.Errorf("DueAt = %v", updated.DueAt)
		}
	})
}

func TestPostRepository_FilterPosts(t *testing.T) {
	repo := newRepo(t)

	start := time.Date(2021, 3, 15, 9, 0, 0, 0, time.UTC)
	due := start.AddDate(0, 0, 3)
	farFuture := start.AddDate(1, 0, 0)

	seed(t, repo, post.Post{ID: "p1", Type: post.TypeEvent, Title: "Sports day", StartAt: &start})
	seed(t, repo, post.Post{ID: "p2", Type: post.TypeExam, Title: "Math exam", DueAt: &due, ClassIDs: []string{"6A"}})
	seed(t, repo, post.Post{ID: "p3", Type: post.TypeEvent, Title: "Next year gala", StartAt: &farFuture})
	seed(t, repo, post.Post{ID: "p4", Type: post.TypeEvent, Title: "Weekly assembly", StartAt: &start, RepeatRule: "FREQ=WEEKLY"})
	seed(t, repo, post.Post{ID: "p5", Type: post.TypeAnnouncement, Title: "No dates here"})

	tests := []struct {
		name    string
		filter  post.QueryFilter
		wantIDs []string
	}{
		{"empty filter returns all", post.QueryFilter{}, []string{"p1", "p2", "p3", "p4", "p5"}},
		{"search is case-insensitive", post.QueryFilter{Search: "math"}, []string{"p2"}},
		{"type filter", post.QueryFilter{Types: []post.Type{post.TypeExam}}, []string{"p2"}},
		{
			"date range excludes out-of-window and undated posts",
			post.QueryFilter{From: start.AddDate(0, 0, -1), To: start.AddDate(0, 0, 7)},
			[]string{"p1", "p2", "p4"},
		},
		{
			"repeating post matches windows after its base instant",
			post.QueryFilter{From: start.AddDate(0, 1, 0), To: start.AddDate(0, 2, 0)},
			[]string{"p4"},
		},
		{
			"class filter keeps school-wide posts",
			post.QueryFilter{ClassIDs: []string{"6B"}},
			[]string{"p1", "p3", "p4", "p5"},
		},
		{
			"combined",
			post.QueryFilter{Search: "sports", Types: []post.Type{post.TypeEvent}},
			[]string{"p1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts, err := repo.FilterPosts(tt.filter)
			if err != nil {
				t.Fatalf("FilterPosts() failed, %v", err)
			}
			var ids []string
			for _, p := range posts {
				ids = append(ids, p.ID)
			}
			if len(ids) != len(tt.wantIDs) {
				t.Fatalf("ids = %v, want %v", ids, tt.wantIDs)
			}
			for i := range ids {
				if ids[i] != tt.wantIDs[i] {
					t.Fatalf("ids = %v, want %v", ids, tt.wantIDs)
				}
			}
		})
	}
}
