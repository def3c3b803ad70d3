// Package diskvrepos implements the post repository on a diskv key-value
// store, for single-node deployments that do not want to run postgres.
package diskvrepos

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/peterbourgon/diskv/v3"
	"github.com/pkg/errors"

	"github.com/mwalimu/ratiba/core/post"
)

type postRepository struct {
	d *diskv.Diskv
}

var _ post.Repository = (*postRepository)(nil) // interface compliance check

func NewPostRepository(basePath string) post.Repository {
	return &postRepository{d: diskv.New(diskv.Options{
		BasePath:     basePath,
		Transform:    func(s string) []string { return []string{} },
		CacheSizeMax: 1024 * 1024, // 1MB
	})}
}

func (repo *postRepository) read(key string) (post.Post, error) {
	val, err := repo.d.Read(key)
	if err != nil {
		return post.Post{}, post.ErrNotFound
	}
	var p post.Post
	if err := json.Unmarshal(val, &p); err != nil {
		return post.Post{}, errors.Wrap(err, "decoding post "+key)
	}
	return p, nil
}

func (repo *postRepository) write(p post.Post) error {
	val, err := json.Marshal(p)
	if err != nil {
		return errors.Wrap(err, "encoding post "+p.ID)
	}
	return repo.d.Write(p.ID, val)
}

func (repo *postRepository) CreatePost(p post.Post) (post.Post, error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if err := repo.write(p); err != nil {
		return post.Post{}, err
	}
	return p, nil
}

func (repo *postRepository) GetPostByID(id string) (post.Post, error) {
	return repo.read(id)
}

func (repo *postRepository) QueryAllPosts() ([]post.Post, error) {
	posts := make([]post.Post, 0)
	for key := range repo.d.Keys(nil) {
		p, err := repo.read(key)
		if err != nil {
			continue // skip unreadable entries
		}
		posts = append(posts, p)
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID < posts[j].ID })
	return posts, nil
}

func (repo *postRepository) FilterPosts(filter post.QueryFilter) ([]post.Post, error) {
	all, err := repo.QueryAllPosts()
	if err != nil {
		return nil, err
	}
	if filter.IsEmpty() {
		return all, nil
	}
	matched := make([]post.Post, 0)
	for _, p := range all {
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
	if filter.Types != nil {
		var found bool
		for _, t := range filter.Types {
			if p.Type == t {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.ClassIDs != nil && !p.IsGlobal() {
		var found bool
		for _, want := range filter.ClassIDs {
			for _, have := range p.ClassIDs {
				if want == have {
					found = true
				}
			}
		}
		if !found {
			return false
		}
	}
	if !filter.From.IsZero() || !filter.To.IsZero() {
		when, ok := p.When()
		if !ok {
			return false
		}
		if !filter.From.IsZero() && when.Before(filter.From) && p.RepeatRule == "" {
			return false
		}
		if !filter.To.IsZero() && when.After(filter.To) {
			return false
		}
	}
	return true
}

func (repo *postRepository) UpdatePost(p post.Post) (post.Post, error) {
	if !repo.d.Has(p.ID) {
		return post.Post{}, post.ErrNotFound
	}
	p.UpdatedAt = time.Now().UTC()
	if err := repo.write(p); err != nil {
		return post.Post{}, err
	}
	return p, nil
}

func (repo *postRepository) UpdatePostSchedule(id string, change post.ScheduleChange) (post.Post, error) {
	p, err := repo.read(id)
	if err != nil {
		return post.Post{}, err
	}
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
	if err := repo.write(p); err != nil {
		return post.Post{}, err
	}
	return p, nil
}

func (repo *postRepository) DeletePostsByID(ids ...string) error {
	for _, id := range ids {
		if err := repo.d.Erase(id); err != nil && repo.d.Has(id) {
			return errors.Wrap(err, "deleting post "+id)
		}
	}
	return nil
}
