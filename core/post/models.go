package post

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/mwalimu/ratiba/core"
)

// Post types
type Type string

const (
	TypeEvent        Type = "event"
	TypeActivity     Type = "activity"
	TypeAssignment   Type = "assignment"
	TypeExam         Type = "exam"
	TypeAnnouncement Type = "announcement"
)

var (
	AllTypes = []Type{TypeEvent, TypeActivity, TypeAssignment, TypeExam, TypeAnnouncement}

	// SchedulableTypes are the types that appear on the calendar and may be
	// rescheduled by drag-and-drop.
	SchedulableTypes = []Type{TypeEvent, TypeActivity, TypeAssignment, TypeExam}
)

// IsDeadline reports whether the type's relevant instant is a due date
// rather than a start/end span.
func (t Type) IsDeadline() bool {
	switch t {
	case TypeActivity, TypeAssignment, TypeExam:
		return true
	}
	return false
}

func (t Type) IsSchedulable() bool {
	for _, st := range SchedulableTypes {
		if t == st {
			return true
		}
	}
	return false
}

// Publish states
type PublishState string

const (
	StateDraft     PublishState = "draft"
	StateScheduled PublishState = "scheduled"
	StatePublished PublishState = "published"
)

// Post is a schedulable record: an event, an activity, an assignment, an
// exam or a plain announcement. Events carry a start/end span; deadline
// types carry a due instant.
type Post struct {
	ID           string       `json:"id"`
	Type         Type         `json:"type"`
	Title        string       `json:"title"`
	Body         string       `json:"body,omitempty"`
	AuthorID     string       `json:"author_id"`
	AuthorName   string       `json:"author_name"`
	AuthorEmail  string       `json:"author_email,omitempty"`
	AuthorRoles  []string     `json:"author_roles,omitempty"`
	ClassIDs     []string     `json:"class_ids,omitempty"` // empty = school-wide
	StartAt      *time.Time   `json:"start_at,omitempty"`  // UTC
	EndAt        *time.Time   `json:"end_at,omitempty"`    // UTC
	DueAt        *time.Time   `json:"due_at,omitempty"`    // UTC
	AllDay       bool         `json:"all_day,omitempty"`
	Location     string       `json:"location,omitempty"`
	Weight       *float64     `json:"weight,omitempty"`
	PublishState PublishState `json:"publish_state"`
	RepeatRule   string       `json:"repeat_rule,omitempty"` // RFC 5545 RRULE
	CreatedAt    time.Time    `json:"created_at"`            // UTC
	UpdatedAt    time.Time    `json:"updated_at"`            // UTC
}

// IsGlobal reports whether the post is school-wide rather than class-scoped.
func (p Post) IsGlobal() bool { return len(p.ClassIDs) == 0 }

// When returns the post's scheduling instant: the due date for deadline
// types, the start otherwise. ok is false for unscheduled posts.
func (p Post) When() (time.Time, bool) {
	if p.Type.IsDeadline() {
		if p.DueAt != nil {
			return *p.DueAt, true
		}
		return time.Time{}, false
	}
	if p.StartAt != nil {
		return *p.StartAt, true
	}
	return time.Time{}, false
}

func (p Post) AuthoredBy(actorID string) bool { return p.AuthorID == actorID }

func (p Post) AuthorIsRegistrar() bool {
	for _, role := range p.AuthorRoles {
		if len(role) >= len("registrar:") && role[:len("registrar:")] == "registrar:" {
			return true
		}
	}
	return false
}

// ScheduleChange is the partial update applied when a post is moved.
// Nil fields are left untouched.
type ScheduleChange struct {
	StartAt *time.Time
	EndAt   *time.Time
	DueAt   *time.Time
}

// NewPost contains information needed to create a new Post.
type NewPost struct {
	Type       Type       `json:"type" validate:"required,posttype"`
	Title      string     `json:"title" validate:"required"`
	Body       string     `json:"body"`
	ClassIDs   []string   `json:"class_ids"`
	StartAt    *time.Time `json:"start_at"`
	EndAt      *time.Time `json:"end_at" validate:"omitempty"`
	DueAt      *time.Time `json:"due_at"`
	AllDay     bool       `json:"all_day"`
	Location   string     `json:"location"`
	Weight     *float64   `json:"weight"`
	Publish    bool       `json:"publish"`
	RepeatRule string     `json:"repeat_rule"`
}

func (np *NewPost) Validate(validate *validator.Validate, translator ut.Translator) error {
	np.Title = core.CleanString(np.Title)
	np.Location = core.CleanString(np.Location)

	if err := validate.Struct(np); err != nil {
		return err
	}
	if np.EndAt != nil && np.StartAt != nil && np.EndAt.Before(*np.StartAt) {
		return core.NewValidationError(nil, core.FieldError{Field: "end_at", Error: "end must not precede start"})
	}
	if np.Type.IsDeadline() && np.DueAt == nil {
		return core.NewValidationError(nil, core.FieldError{Field: "due_at", Error: "this field is required"})
	}
	if np.Type == TypeEvent && np.StartAt == nil {
		return core.NewValidationError(nil, core.FieldError{Field: "start_at", Error: "this field is required"})
	}
	return nil
}

// UpdatePost defines what information may be provided to modify an existing Post.
type UpdatePost struct {
	Title    string     `json:"title"`
	Body     string     `json:"body"`
	ClassIDs []string   `json:"class_ids"`
	StartAt  *time.Time `json:"start_at"`
	EndAt    *time.Time `json:"end_at"`
	DueAt    *time.Time `json:"due_at"`
	AllDay   *bool      `json:"all_day"`
	Location string     `json:"location"`
	Weight   *float64   `json:"weight"`
	Publish  *bool      `json:"publish"`
}

func (up *UpdatePost) Validate(validate *validator.Validate, translator ut.Translator, orig Post) error {
	title := core.CleanString(up.Title)
	if title != "" {
		up.Title = title
	} else {
		up.Title = orig.Title
	}
	up.Location = core.CleanString(up.Location)

	if err := validate.Struct(up); err != nil {
		return err
	}

	start, end := orig.StartAt, orig.EndAt
	if up.StartAt != nil {
		start = up.StartAt
	}
	if up.EndAt != nil {
		end = up.EndAt
	}
	if start != nil && end != nil && end.Before(*start) {
		return core.NewValidationError(nil, core.FieldError{Field: "end_at", Error: "end must not precede start"})
	}
	return nil
}

// QueryFilter narrows post queries. All set fields are AND-ed.
type QueryFilter struct {
	From     time.Time `query:"-"`
	To       time.Time `query:"-"`
	ClassIDs []string  `query:"class"`
	Types    []Type    `query:"type"`
	Search   string    `query:"search"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.ClassIDs == nil && qf.Types == nil && qf.From.IsZero() && qf.To.IsZero()
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}
