package session

import (
	"sync"
	"time"
)

// ModalID names a top-level overlay surface.
type ModalID string

const (
	ModalDayDrawer      ModalID = "day-drawer"
	ModalActivityDrawer ModalID = "activity-drawer"
	ModalDayFocus       ModalID = "day-focus"
	ModalPostComposer   ModalID = "post-composer"
)

// pendingOpen is the single in-flight deferred action. A newer OpenModal
// supersedes it; a superseded open is discarded, never executed late.
type pendingOpen struct {
	timer *time.Timer
	id    ModalID
	data  interface{}
}

// ModalCoordinator enforces "at most one modal open at a time". Opening a
// modal while another is up first closes the current one, then opens the
// requested one after a settle delay so two overlay transitions never run
// at once.
type ModalCoordinator struct {
	mu       sync.Mutex
	settle   time.Duration
	active   ModalID
	data     interface{}
	pending  *pendingOpen
	onChange func(ModalID)
}

// NewModalCoordinator builds a coordinator with the given settle delay.
// A zero delay opens replacements immediately.
func NewModalCoordinator(settle time.Duration) *ModalCoordinator {
	return &ModalCoordinator{settle: settle}
}

// OnChange registers a single observer called with the active modal id
// ("" when everything is closed) after each settled transition.
func (c *ModalCoordinator) OnChange(fn func(ModalID)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// OpenModal requests id to become the active modal. Last writer wins: any
// pending deferred open is cancelled first.
func (c *ModalCoordinator) OpenModal(id ModalID, data interface{}) {
	c.mu.Lock()
	c.cancelPendingLocked()

	if c.active == "" || c.settle <= 0 {
		c.active = id
		c.data = data
		c.notifyLocked()
		return
	}

	// close the current modal now, open the requested one once the exit
	// transition has settled
	c.active = ""
	c.data = nil

	p := &pendingOpen{id: id, data: data}
	p.timer = time.AfterFunc(c.settle, func() {
		c.mu.Lock()
		if c.pending != p {
			c.mu.Unlock()
			return
		}
		c.pending = nil
		c.active = p.id
		c.data = p.data
		c.notifyLocked()
	})
	c.pending = p
	c.notifyLocked()
}

// CloseModal closes id if it is the active modal. A stale id — e.g. an async
// close callback racing a newer open — is a no-op, so it can never dismiss a
// newer modal.
func (c *ModalCoordinator) CloseModal(id ModalID) {
	c.mu.Lock()
	if c.pending != nil && c.pending.id == id {
		c.cancelPendingLocked()
		c.mu.Unlock()
		return
	}
	if c.active != id {
		c.mu.Unlock()
		return
	}
	c.active = ""
	c.data = nil
	c.notifyLocked()
}

// CloseAll closes whatever is open or pending.
func (c *ModalCoordinator) CloseAll() {
	c.mu.Lock()
	c.cancelPendingLocked()
	c.active = ""
	c.data = nil
	c.notifyLocked()
}

// IsModalOpen reports whether id is the currently active modal.
func (c *ModalCoordinator) IsModalOpen(id ModalID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active == id
}

// ActiveModal returns the active modal id and its data ("" when closed or
// mid-transition).
func (c *ModalCoordinator) ActiveModal() (ModalID, interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active, c.data
}

func (c *ModalCoordinator) cancelPendingLocked() {
	if c.pending != nil {
		c.pending.timer.Stop()
		c.pending = nil
	}
}

// notifyLocked releases the mutex; the observer runs outside the lock.
func (c *ModalCoordinator) notifyLocked() {
	fn := c.onChange
	id := c.active
	c.mu.Unlock()
	if fn != nil {
		fn(id)
	}
}
