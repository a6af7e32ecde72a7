package gateway

import (
	"net/http"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache generation. Bumping the version retires every previous partition
// on the next Activate.
const CacheVersion = "v1"

// Pinned partition names. Exactly one generation of each is kept; any
// other name discovered in the store is stale and purged on activation.
var (
	StaticPartition    = "assistant-static-" + CacheVersion
	KnowledgePartition = "assistant-knowledge-" + CacheVersion
	UmbrellaPartition  = "assistant-cache-" + CacheVersion
)

// PinnedPartitions returns the names the current generation retains.
func PinnedPartitions() []string {
	return []string{StaticPartition, KnowledgePartition, UmbrellaPartition}
}

// Entry is one cached response snapshot.
type Entry struct {
	Status   int         `json:"status"`
	Header   http.Header `json:"header"`
	Body     []byte      `json:"body"`
	CachedAt time.Time   `json:"cached_at"`
}

// Partition is a named key-value store of request-key → Entry.
type Partition interface {
	Get(key string) (*Entry, bool)
	Put(key string, entry *Entry) error
	Delete(key string) error
	Count() (int, error)
}

// Store manages named partitions. Implementations must keep Open
// idempotent and Names must list every partition ever opened and not yet
// dropped, including stale generations.
type Store interface {
	Open(name string) (Partition, error)
	Drop(name string) error
	Names() ([]string, error)
}

// --- In-memory implementation (go-cache) ---

type memoryStore struct {
	mu         sync.Mutex
	partitions map[string]*memoryPartition
}

// NewMemoryStore returns a Store backed by in-process go-cache instances,
// one per partition. Entries never expire; partitions live until dropped.
func NewMemoryStore() Store {
	return &memoryStore{partitions: make(map[string]*memoryPartition)}
}

func (s *memoryStore) Open(name string) (Partition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.partitions[name]; ok {
		return p, nil
	}
	p := &memoryPartition{cache: gocache.New(gocache.NoExpiration, 0)}
	s.partitions[name] = p
	return p, nil
}

func (s *memoryStore) Drop(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.partitions[name]; ok {
		p.cache.Flush()
		delete(s.partitions, name)
	}
	return nil
}

func (s *memoryStore) Names() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.partitions))
	for name := range s.partitions {
		names = append(names, name)
	}
	return names, nil
}

type memoryPartition struct {
	cache *gocache.Cache
}

func (p *memoryPartition) Get(key string) (*Entry, bool) {
	if x, found := p.cache.Get(key); found {
		return x.(*Entry), true
	}
	return nil, false
}

func (p *memoryPartition) Put(key string, entry *Entry) error {
	p.cache.Set(key, entry, gocache.DefaultExpiration)
	return nil
}

func (p *memoryPartition) Delete(key string) error {
	p.cache.Delete(key)
	return nil
}

func (p *memoryPartition) Count() (int, error) {
	return p.cache.ItemCount(), nil
}
