package inmemdb

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mwalimu/ratiba/core/post"
)

type postRepository struct {
	db *postTable
}

var _ post.Repository = (*postRepository)(nil) // interface compliance check

func NewPostRepository(db *DB) post.Repository {
	return &postRepository{db: db.post}
}

func (repo *postRepository) query() []post.Post {
	posts := make([]post.Post, 0, len(repo.db.table))
	for _, p := range repo.db.table {
		posts = append(posts, *p)
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID < posts[j].ID })
	return posts
}

func (repo *postRepository) CreatePost(p post.Post) (post.Post, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	repo.db.table[p.ID] = &p
	return p, nil
}

func (repo *postRepository) GetPostByID(id string) (post.Post, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if p, ok := repo.db.table[id]; ok {
		return *p, nil
	}
	return post.Post{}, post.ErrNotFound
}

func (repo *postRepository) QueryAllPosts() ([]post.Post, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *postRepository) FilterPosts(filter post.QueryFilter) ([]post.Post, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if filter.IsEmpty() {
		return repo.query(), nil
	}

	matched := make([]post.Post, 0)
	for _, p := range repo.query() {
		if matches(p, filter) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

func matches(p post.Post, filter post.QueryFilter) bool {
	if filter.Search != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(filter.Search)) {
		return false
	}
	if filter.Types != nil && !containsType(filter.Types, p.Type) {
		return false
	}
	if filter.ClassIDs != nil && !p.IsGlobal() && !intersects(filter.ClassIDs, p.ClassIDs) {
		return false
	}
	if !filter.From.IsZero() || !filter.To.IsZero() {
		when, ok := p.When()
		if !ok {
			return false
		}
		// a repeating post may produce occurrences after its base instant
		if !filter.From.IsZero() && when.Before(filter.From) && p.RepeatRule == "" {
			return false
		}
		if !filter.To.IsZero() && when.After(filter.To) {
			return false
		}
	}
	return true
}

func containsType(types []post.Type, t post.Type) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}

func intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

func (repo *postRepository) UpdatePost(p post.Post) (post.Post, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[p.ID]; !ok {
		return post.Post{}, post.ErrNotFound
	}
	p.UpdatedAt = time.Now().UTC()
	repo.db.table[p.ID] = &p
	return p, nil
}

func (repo *postRepository) UpdatePostSchedule(id string, change post.ScheduleChange) (post.Post, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	existing, ok := repo.db.table[id]
	if !ok {
		return post.Post{}, post.ErrNotFound
	}
	p := *existing
	if change.StartAt != nil {
		p.StartAt = change.StartAt
	}
	if change.EndAt != nil {
		p.EndAt = change.EndAt
	}
	if change.DueAt != nil {
		p.DueAt = change.DueAt
	}
	p.UpdatedAt = time.Now().UTC()
	repo.db.table[id] = &p
	return p, nil
}

func (repo *postRepository) DeletePostsByID(ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
