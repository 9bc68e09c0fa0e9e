package session

import "sync"

const shardCount = 16

// Store holds ephemeral per-user conversation state for the lifetime of the
// process. State is sharded by user id so users never contend on a global
// lock; WithLock additionally serializes whole message-handling spans for a
// single user.
type Store struct {
	shards [shardCount]shard
}

type shard struct {
	mu     sync.Mutex
	states map[int64]State
	locks  map[int64]*sync.Mutex
}

func NewStore() *Store {
	s := &Store{}
	for i := range s.shards {
		s.shards[i].states = make(map[int64]State)
		s.shards[i].locks = make(map[int64]*sync.Mutex)
	}
	return s
}

func (s *Store) shard(userID int64) *shard {
	return &s.shards[uint64(userID)%shardCount]
}

// Get returns the user's open session, if any.
func (s *Store) Get(userID int64) (State, bool) {
	sh := s.shard(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	st, ok := sh.states[userID]
	return st, ok
}

func (s *Store) Set(userID int64, st State) {
	sh := s.shard(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.states[userID] = st
}

func (s *Store) Clear(userID int64) {
	sh := s.shard(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	delete(sh.states, userID)
}

// WithLock runs fn while holding the user's own mutex, so two messages from
// the same user can never interleave their get-check-set transitions.
// Messages from different users proceed independently. The shard mutex is
// held only long enough to look up the per-user lock, never across fn.
func (s *Store) WithLock(userID int64, fn func()) {
	sh := s.shard(userID)
	sh.mu.Lock()
	mu, ok := sh.locks[userID]
	if !ok {
		mu = &sync.Mutex{}
		sh.locks[userID] = mu
	}
	sh.mu.Unlock()

	mu.Lock()
	defer mu.Unlock()
	fn()
}
