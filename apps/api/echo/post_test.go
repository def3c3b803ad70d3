package echoapi_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/mwalimu/ratiba/core/post"
)

func TestPostCreate(t *testing.T) {
	app, _ := setup(t)

	start := time.Date(2021, 9, 1, 9, 0, 0, 0, time.UTC)
	body := marshallObj(t, eventNP("Parents meeting", start))

	tests := []httpTest{
		{name: "requires auth", body: body, wantCode: http.StatusUnauthorized},
		{name: "student cannot author", body: body, token: getToken(t, student), wantCode: http.StatusForbidden},
		{name: "teacher creates", body: body, token: getToken(t, teacher), wantCode: http.StatusCreated},
		{name: "registrar creates", body: body, token: getToken(t, registrar), wantCode: http.StatusCreated},
		{
			name:     "missing title",
			body:     marshallObj(t, post.NewPost{Type: post.TypeEvent, StartAt: &start}),
			token:    getToken(t, teacher),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "deadline kind without due date",
			body:     marshallObj(t, post.NewPost{Type: post.TypeAssignment, Title: "Essay"}),
			token:    getToken(t, teacher),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unknown type",
			body:     marshallObj(t, map[string]string{"type": "party", "title": "Party"}),
			token:    getToken(t, teacher),
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/posts", tt.token, tt.body)
			app.ServeHTTP(rec, req)
			if rec.Code != tt.wantCode {
				t.Errorf("code = %d, want %d; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
		})
	}

	t.Run("created post carries its author", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/posts", getToken(t, teacher), body)
		app.ServeHTTP(rec, req)
		var p post.Post
		decodeBody(t, rec, &p)
		if p.AuthorID != teacher.ID || p.AuthorName != teacher.Name {
			t.Errorf("author = %s (%s)", p.AuthorName, p.AuthorID)
		}
		if p.PublishState != post.StatePublished {
			t.Errorf("publish state = %s", p.PublishState)
		}
	})
}

func TestPostRetrieve(t *testing.T) {
	app, repo := setup(t)

	start := time.Date(2021, 9, 1, 9, 0, 0, 0, time.UTC)
	published := createPost(t, repo, teacher, eventNP("Parents meeting", start))

	draftNP := eventNP("Draft plan", start)
	draftNP.Publish = false
	draft := createPost(t, repo, teacher, draftNP)

	tests := []httpTest{
		{name: "published visible to student", path: "/v1/posts/" + published.ID, token: getToken(t, student), wantCode: http.StatusOK},
		{name: "draft hidden from student", path: "/v1/posts/" + draft.ID, token: getToken(t, student), wantCode: http.StatusNotFound},
		{name: "draft visible to its author", path: "/v1/posts/" + draft.ID, token: getToken(t, teacher), wantCode: http.StatusOK},
		{name: "draft visible to registrar", path: "/v1/posts/" + draft.ID, token: getToken(t, registrar), wantCode: http.StatusOK},
		{name: "missing is 404", path: "/v1/posts/nope", token: getToken(t, teacher), wantCode: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			if rec.Code != tt.wantCode {
				t.Errorf("code = %d, want %d", rec.Code, tt.wantCode)
			}
		})
	}
}

func TestPostUpdate(t *testing.T) {
	app, repo := setup(t)

	start := time.Date(2021, 9, 1, 9, 0, 0, 0, time.UTC)
	p := createPost(t, repo, teacher, eventNP("Parents meeting", start))

	body := marshallObj(t, map[string]string{"title": "Parents meeting (rescheduled)"})

	t.Run("owner updates", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/v1/posts/"+p.ID, getToken(t, teacher), body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d, body %s", rec.Code, rec.Body.String())
		}
		var updated post.Post
		decodeBody(t, rec, &updated)
		if updated.Title != "Parents meeting (rescheduled)" {
			t.Errorf("title = %q", updated.Title)
		}
	})

	t.Run("student cannot update", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/v1/posts/"+p.ID, getToken(t, student), body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("code = %d, want 404", rec.Code)
		}
	})

	t.Run("end before start is rejected", func(t *testing.T) {
		end := start.Add(-2 * time.Hour)
		body := marshallObj(t, post.UpdatePost{EndAt: &end})
		req, rec := newAuthRequest(http.MethodPut, "/v1/posts/"+p.ID, getToken(t, teacher), body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("code = %d, want 400", rec.Code)
		}
	})
}

func TestPostDestroy(t *testing.T) {
	app, repo := setup(t)

	start := time.Date(2021, 9, 1, 9, 0, 0, 0, time.UTC)

	t.Run("owner deletes", func(t *testing.T) {
		p := createPost(t, repo, teacher, eventNP("Old event", start))
		req, rec := newAuthRequest(http.MethodDelete, "/v1/posts/"+p.ID, getToken(t, teacher))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("code = %d, want 204", rec.Code)
		}
		if _, err := repo.GetPostByID(p.ID); err != post.ErrNotFound {
			t.Errorf("GetPostByID() err = %v, want ErrNotFound", err)
		}
	})

	t.Run("bulk delete needs registrar", func(t *testing.T) {
		p1 := createPost(t, repo, teacher, eventNP("A", start))
		p2 := createPost(t, repo, teacher, eventNP("B", start))

		req, rec := newAuthRequest(http.MethodDelete, "/v1/posts?id="+p1.ID+"&id="+p2.ID, getToken(t, teacher))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("teacher bulk delete code = %d, want 403", rec.Code)
		}

		req, rec = newAuthRequest(http.MethodDelete, "/v1/posts?id="+p1.ID+"&id="+p2.ID, getToken(t, registrar))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("registrar bulk delete code = %d, want 204", rec.Code)
		}
	})
}

func TestPostQuery(t *testing.T) {
	app, repo := setup(t)

	start := time.Date(2021, 9, 1, 9, 0, 0, 0, time.UTC)
	createPost(t, repo, teacher, eventNP("Sports day", start))
	due := start.AddDate(0, 0, 3)
	createPost(t, repo, teacher, post.NewPost{Type: post.TypeExam, Title: "Math exam", DueAt: &due, ClassIDs: []string{"6A"}, Publish: true})

	t.Run("all", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/posts", getToken(t, student))
		app.ServeHTTP(rec, req)
		var posts []post.Post
		decodeBody(t, rec, &posts)
		if len(posts) != 2 {
			t.Errorf("len = %d, want 2", len(posts))
		}
	})

	t.Run("search", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/posts?search=math", getToken(t, student))
		app.ServeHTTP(rec, req)
		var posts []post.Post
		decodeBody(t, rec, &posts)
		if len(posts) != 1 || posts[0].Title != "Math exam" {
			t.Errorf("posts = %+v", posts)
		}
	})

	t.Run("type filter", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/posts?type=event", getToken(t, student))
		app.ServeHTTP(rec, req)
		var posts []post.Post
		decodeBody(t, rec, &posts)
		if len(posts) != 1 || posts[0].Type != post.TypeEvent {
			t.Errorf("posts = %+v", posts)
		}
	})

	t.Run("types endpoint", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/posts/types", getToken(t, student))
		app.ServeHTTP(rec, req)
		var types []post.Type
		decodeBody(t, rec, &types)
		if len(types) != len(post.AllTypes) {
			t.Errorf("types = %v", types)
		}
	})
}
