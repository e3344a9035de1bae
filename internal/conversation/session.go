package conversation

import (
	"sync"

	"telegram-weather-stylist/internal/models"
)

// Session is the in-memory progress of one chat through the dialog. It only
// lives until the profile is persisted or the chat is reset.
type Session struct {
	ChatID            int64
	Stage             models.Stage
	AgreementAccepted bool
	Gender            string
	Style             string
	Insight           string
	City              string
	Frequency         models.Frequency
	TimeOfDay         string
}

// SessionStore holds active sessions. The engine only talks to this
// interface, so the in-memory map can be swapped for a durable store.
type SessionStore interface {
	Get(chatID int64) (*Session, bool)
	Put(s *Session)
	Delete(chatID int64)
}

type memorySessions struct {
	mu sync.RWMutex
	m  map[int64]*Session
}

func NewMemorySessions() SessionStore {
	return &memorySessions{m: make(map[int64]*Session)}
}

func (ms *memorySessions) Get(chatID int64) (*Session, bool) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	s, ok := ms.m[chatID]
	return s, ok
}

func (ms *memorySessions) Put(s *Session) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.m[s.ChatID] = s
}

func (ms *memorySessions) Delete(chatID int64) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.m, chatID)
}
