package session

import (
	"net/url"
	"sync"
)

// DrawerState is the shared state behind the activity detail drawer.
// Type/Subtype/Status are a denormalized display cache so the drawer can
// render a header without a re-fetch; they are not part of the URL contract.
type DrawerState struct {
	IsOpen  bool   `json:"is_open"`
	PostID  string `json:"post_id,omitempty"`
	ClassID string `json:"class_id,omitempty"`
	Mode    Mode   `json:"mode,omitempty"`

	Type    string `json:"type,omitempty"`
	Subtype string `json:"subtype,omitempty"`
	Status  string `json:"status,omitempty"`
}

// OpenParams is the payload of a DrawerStore.Open call.
type OpenParams struct {
	PostID  string
	ClassID string
	Mode    Mode

	Type    string
	Subtype string
	Status  string
}

// URLSink receives the drawer's query representation on every transition,
// with history.replace semantics: no history entry per drawer change.
type URLSink interface {
	Replace(q url.Values)
}

// DrawerStore holds the one piece of shared mutable drawer state. A single
// instance is created per process and handed to its consumers explicitly.
type DrawerStore struct {
	mu       sync.Mutex
	state    DrawerState
	sink     URLSink
	subs     map[int]func(DrawerState)
	nextSub  int
	restored bool
}

// NewDrawerStore returns a closed store. sink may be nil.
func NewDrawerStore(sink URLSink) *DrawerStore {
	return &DrawerStore{sink: sink, subs: make(map[int]func(DrawerState))}
}

// Open opens or re-targets the drawer. OPEN -> OPEN retargeting does not
// pass through CLOSED, so observers never see a flicker.
func (s *DrawerStore) Open(p OpenParams) {
	s.mu.Lock()
	s.state = DrawerState{
		IsOpen:  true,
		PostID:  p.PostID,
		ClassID: p.ClassID,
		Mode:    p.Mode,
		Type:    p.Type,
		Subtype: p.Subtype,
		Status:  p.Status,
	}
	if s.state.Mode == "" {
		s.state.Mode = ModeCalendar
	}
	s.afterTransitionLocked()
}

// Close returns the store to the closed state.
func (s *DrawerStore) Close() {
	s.mu.Lock()
	s.state = DrawerState{}
	s.afterTransitionLocked()
}

// State returns a snapshot of the current state.
func (s *DrawerStore) State() DrawerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers an observer called after every transition; it returns
// an unsubscribe func.
func (s *DrawerStore) Subscribe(fn func(DrawerState)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// RestoreFromURL re-hydrates the store from a deep link. It is one-shot:
// only the first call may restore, later calls are no-ops. A malformed or
// partial query resolves to CLOSED and reports false.
func (s *DrawerStore) RestoreFromURL(q url.Values) bool {
	s.mu.Lock()
	if s.restored {
		s.mu.Unlock()
		return false
	}
	s.restored = true
	params, ok := DecodeDrawer(q)
	if !ok {
		s.mu.Unlock()
		return false
	}
	s.state = DrawerState{
		IsOpen:  true,
		PostID:  params.PostID,
		ClassID: params.ClassID,
		Mode:    params.Mode,
	}
	s.afterTransitionLocked()
	return true
}

// afterTransitionLocked mirrors state to the URL and notifies observers.
// It releases the mutex; observers run outside the lock.
func (s *DrawerStore) afterTransitionLocked() {
	st := s.state
	sink := s.sink
	subs := make([]func(DrawerState), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	if sink != nil {
		sink.Replace(EncodeDrawer(st))
	}
	for _, fn := range subs {
		fn(st)
	}
}
