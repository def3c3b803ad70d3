package post

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound signals a missing / stale record; callers surface it as
	// a user-facing failure, never a crash.
	ErrNotFound = errors.New("post not found")
)

type (
	Repository interface {
		CreatePost(post Post) (Post, error)
		GetPostByID(id string) (Post, error)
		QueryAllPosts() ([]Post, error)
		// FilterPosts applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on Post.Title.
		FilterPosts(filter QueryFilter) ([]Post, error)
		UpdatePost(post Post) (Post, error)
		// UpdatePostSchedule applies a partial schedule change;
		// returns ErrNotFound when the record is gone.
		UpdatePostSchedule(id string, change ScheduleChange) (Post, error)
		DeletePostsByID(ids ...string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type Author struct {
	ID    string
	Name  string
	Email string
	Roles []string
}

func (svc *Service) Create(np NewPost, author Author) (Post, error) {
	now := time.Now().UTC()
	state := StateDraft
	if np.Publish {
		state = StatePublished
	}
	p := Post{
		ID:           uuid.New().String(),
		Type:         np.Type,
		Title:        np.Title,
		Body:         np.Body,
		AuthorID:     author.ID,
		AuthorName:   author.Name,
		AuthorEmail:  author.Email,
		AuthorRoles:  author.Roles,
		ClassIDs:     np.ClassIDs,
		StartAt:      np.StartAt,
		EndAt:        np.EndAt,
		DueAt:        np.DueAt,
		AllDay:       np.AllDay,
		Location:     np.Location,
		Weight:       np.Weight,
		PublishState: state,
		RepeatRule:   np.RepeatRule,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return svc.repo.CreatePost(p)
}

func (svc *Service) GetByID(id string) (Post, error) {
	return svc.repo.GetPostByID(id)
}

func (svc *Service) QueryAll() ([]Post, error) {
	return svc.repo.QueryAllPosts()
}

func (svc *Service) Filter(filter QueryFilter) ([]Post, error) {
	filter.Clean()
	return svc.repo.FilterPosts(filter)
}

func (svc *Service) Update(id string, up UpdatePost) (Post, error) {
	orig, err := svc.repo.GetPostByID(id)
	if err != nil {
		return Post{}, err
	}

	orig.Title = up.Title
	if up.Body != "" {
		orig.Body = up.Body
	}
	if up.ClassIDs != nil {
		orig.ClassIDs = up.ClassIDs
	}
	if up.StartAt != nil {
		orig.StartAt = up.StartAt
	}
	if up.EndAt != nil {
		orig.EndAt = up.EndAt
	}
	if up.DueAt != nil {
		orig.DueAt = up.DueAt
	}
	if up.AllDay != nil {
		orig.AllDay = *up.AllDay
	}
	if up.Location != "" {
		orig.Location = up.Location
	}
	if up.Weight != nil {
		orig.Weight = up.Weight
	}
	if up.Publish != nil {
		if *up.Publish {
			orig.PublishState = StatePublished
		} else {
			orig.PublishState = StateDraft
		}
	}
	orig.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdatePost(orig)
}

func (svc *Service) UpdateSchedule(id string, change ScheduleChange) (Post, error) {
	return svc.repo.UpdatePostSchedule(id, change)
}

func (svc *Service) Delete(ids ...string) error {
	return svc.repo.DeletePostsByID(ids...)
}
