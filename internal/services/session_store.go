package services

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"alfredoptarigan/ai-interviewer/internal/models"
)

// Turn is one message of a live interview.
type Turn struct {
	Role      string
	Content   string
	Timestamp time.Time
	// Score is the score an interviewer turn gave the preceding answer.
	Score *int
}

// Session is the in-memory state of an interview between start and end.
// All fields are guarded by mu, which also serialises turns.
type Session struct {
	mu sync.Mutex

	ID           string
	UserID       string
	UserName     string
	Status       models.InterviewStatus
	SystemPrompt string
	History      []Turn
	Scores       []int
	StartTime    time.Time

	closed bool
}

// SessionStore keeps live interviews. Sessions untouched for longer than the
// TTL are evicted by a background sweep.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	lastSeen map[string]time.Time
	ttl      time.Duration
	now      func() time.Time
	done     chan struct{}
	once     sync.Once
	log      *zap.Logger
	onChange func(active int)
}

func NewSessionStore(ttl time.Duration, log *zap.Logger) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		lastSeen: make(map[string]time.Time),
		ttl:      ttl,
		now:      time.Now,
		done:     make(chan struct{}),
		log:      log,
	}
}

// StartSweeper runs the eviction loop until Close is called.
func (s *SessionStore) StartSweeper(interval time.Duration) {
	if s.ttl <= 0 || interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.Sweep()
			case <-s.done:
				return
			}
		}
	}()
}

// OnChange registers a callback invoked with the session count after every
// insert or removal.
func (s *SessionStore) OnChange(fn func(active int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

func (s *SessionStore) Put(session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.ID] = session
	s.lastSeen[session.ID] = s.now()
	s.notifyLocked()
}

// Get returns the session and refreshes its idle timer.
func (s *SessionStore) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if ok {
		s.lastSeen[id] = s.now()
	}
	return session, ok
}

// Remove drops the session. The caller should hold session.mu so that turns
// already waiting on the lock observe the closed flag.
func (s *SessionStore) Remove(session *Session) {
	session.closed = true

	s.mu.Lock()
	defer s.mu.Unlock()

	if current, ok := s.sessions[session.ID]; ok && current == session {
		delete(s.sessions, session.ID)
		delete(s.lastSeen, session.ID)
		s.notifyLocked()
	}
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep evicts sessions idle for longer than the TTL and returns how many
// were removed.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, lastSeen := range s.lastSeen {
		if now.Sub(lastSeen) <= s.ttl {
			continue
		}
		// Skip sessions with a turn in flight; the next sweep gets them.
		session := s.sessions[id]
		if !session.mu.TryLock() {
			continue
		}
		session.closed = true
		session.mu.Unlock()

		delete(s.sessions, id)
		delete(s.lastSeen, id)
		removed++
	}

	if removed > 0 {
		s.notifyLocked()
		if s.log != nil {
			s.log.Info("Evicted idle interview sessions",
				zap.Int("removed", removed),
				zap.Int("remaining", len(s.sessions)))
		}
	}

	return removed
}

// Close stops the sweeper.
func (s *SessionStore) Close() {
	s.once.Do(func() { close(s.done) })
}

func (s *SessionStore) notifyLocked() {
	if s.onChange != nil {
		s.onChange(len(s.sessions))
	}
}
