package schedule

import (
	"fmt"
	"time"

	"github.com/mwalimu/ratiba/core/post"
)

type ToastVariant string

const (
	ToastInfo    ToastVariant = "info"
	ToastWarning ToastVariant = "warning"
)

// Denial reasons
const (
	ReasonPermissionDenied = "only the author, or a registrar for school-wide items, may move this item"
	ReasonNotMovable       = "this kind of item cannot be rescheduled"
	ReasonStoreFailure     = "could not move item"
)

// Decision is the outcome of a single attempted move. It is a pure function
// of the MoveRequest; recomputing it with the same request always yields the
// same answer.
type Decision struct {
	Allowed      bool         `json:"allowed"`
	Reason       string       `json:"reason,omitempty"` // set when denied
	ToastVariant ToastVariant `json:"toast_variant,omitempty"`
	ToastMessage string       `json:"toast_message,omitempty"`
}

// MoveRequest carries everything ValidateMove needs. Now is injected so that
// the past-date check stays reproducible.
type MoveRequest struct {
	Kind post.Type
	From time.Time // current scheduling instant
	To   time.Time // target day; only the date component matters

	ActorIsOwner      bool
	ActorIsRegistrar  bool
	ScopeGlobal       bool
	AuthorIsRegistrar bool

	Now time.Time
}

// ValidateMove decides whether a drag-and-drop date change may proceed.
//
// Backdating is deliberately allowed with a warning for every movable kind,
// exams included: correcting a date after the fact is a legitimate workflow.
func ValidateMove(req MoveRequest) Decision {
	if !req.Kind.IsSchedulable() {
		return Decision{
			Allowed:      false,
			Reason:       ReasonNotMovable,
			ToastVariant: ToastWarning,
			ToastMessage: ReasonNotMovable,
		}
	}

	if !req.ActorIsOwner {
		registrarEligible := req.ActorIsRegistrar && (req.ScopeGlobal || req.AuthorIsRegistrar)
		if !registrarEligible {
			return Decision{
				Allowed:      false,
				Reason:       ReasonPermissionDenied,
				ToastVariant: ToastWarning,
				ToastMessage: ReasonPermissionDenied,
			}
		}
	}

	if dayStart(req.To).Before(dayStart(req.Now)) {
		return Decision{
			Allowed:      true,
			ToastVariant: ToastWarning,
			ToastMessage: fmt.Sprintf("moved to %s, which is in the past", DayKey(req.To)),
		}
	}
	return Decision{
		Allowed:      true,
		ToastVariant: ToastInfo,
		ToastMessage: fmt.Sprintf("moved to %s", DayKey(req.To)),
	}
}

// ShiftToDay recomputes a start/end pair for a move to targetDay, preserving
// the original time-of-day and, when end is present, the original duration.
func ShiftToDay(start time.Time, end *time.Time, targetDay time.Time) (time.Time, *time.Time) {
	y, m, d := targetDay.Date()
	h, min, s := start.Clock()
	newStart := time.Date(y, m, d, h, min, s, start.Nanosecond(), start.Location())

	if end == nil {
		return newStart, nil
	}
	newEnd := newStart.Add(end.Sub(start))
	return newStart, &newEnd
}

func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
