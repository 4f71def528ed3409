package server

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/poiesic/booksearch/core"
	"github.com/poiesic/booksearch/session"
	"github.com/poiesic/booksearch/view"
)

// hostedSession is a search session driven over HTTP.
type hostedSession struct {
	id         string
	controller *session.Controller
	address    *view.Address

	mu       sync.Mutex
	recorder *view.Recorder
	location core.Location
}

func (h *hostedSession) snapshot() SessionResponse {
	h.mu.Lock()
	recorder, location := h.recorder, h.location
	h.mu.Unlock()

	return SessionResponse{
		ID:       h.id,
		State:    h.controller.State().String(),
		Query:    h.controller.Query(),
		URL:      h.address.URL(),
		Level:    location.Path,
		BasePath: location.BasePath,
		View:     recorder.Snapshot(),
	}
}

// moveTo points the session at a new page with a fresh view.
func (h *hostedSession) moveTo(url string, location core.Location) *view.Page {
	recorder := view.NewRecorder()
	h.mu.Lock()
	h.recorder = recorder
	h.location = location
	h.mu.Unlock()

	h.address.Navigate(url)
	return view.NewPage(location, recorder)
}

// sessionStore tracks the sessions of a server.
type sessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*hostedSession
	next     atomic.Uint64
}

func newSessionStore() *sessionStore {
	return &sessionStore{
		sessions: map[string]*hostedSession{},
	}
}

func (s *sessionStore) nextID() string {
	return "s" + strconv.FormatUint(s.next.Add(1), 10)
}

func (s *sessionStore) add(h *hostedSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[h.id] = h
}

func (s *sessionStore) get(id string) (*hostedSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return h, nil
}

func (s *sessionStore) remove(id string) (*hostedSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	delete(s.sessions, id)
	return h, nil
}

func (s *sessionStore) all() []*hostedSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]*hostedSession, 0, len(s.sessions))
	for _, h := range s.sessions {
		all = append(all, h)
	}
	return all
}

func (s *sessionStore) removeAll() []*hostedSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]*hostedSession, 0, len(s.sessions))
	for id, h := range s.sessions {
		all = append(all, h)
		delete(s.sessions, id)
	}
	return all
}
