package memory

import (
	"time"

	"github.com/patrickmn/go-cache"

	"commerce-assistant-be/pkg/store"
)

// SessionRepository keeps the remote side's short-lived conversation
// context. Entries expire after the configured TTL and nothing is
// persisted; history does not survive a reload.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	c := cache.New(ttl, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(session *store.ServerSession) {
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(sessionID string) (*store.ServerSession, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.ServerSession), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}

func (r *SessionRepository) Count() int {
	return r.cache.ItemCount()
}
