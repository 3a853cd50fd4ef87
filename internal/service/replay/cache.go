// Package replay enforces at-most-once consumption of (seed, nonce) pairs.
//
// Entries never expire one by one. Each seed owns a partition that is opened
// when the seed is issued and dropped in one step when the seed is retired,
// so memory is bounded by the requests seen during one seed lifetime.
package replay

import (
	"sync"

	"github.com/dayanaadylkhanova/intro-pow/internal/entity"
)

type Result uint8

const (
	Inserted Result = iota
	AlreadyPresent
	// NoPartition means the seed was never opened or has already been dropped.
	NoPartition
)

func (r Result) String() string {
	switch r {
	case Inserted:
		return "inserted"
	case AlreadyPresent:
		return "already_present"
	default:
		return "no_partition"
	}
}

const shardCount = 32

type shard struct {
	mu     sync.Mutex
	nonces map[entity.Nonce]struct{}
}

// partition spreads one seed's nonces over independently locked shards so
// concurrent verifiers rarely contend.
type partition struct {
	shards [shardCount]shard
}

func newPartition() *partition {
	p := &partition{}
	for i := range p.shards {
		p.shards[i].nonces = make(map[entity.Nonce]struct{})
	}
	return p
}

func (p *partition) shardFor(n entity.Nonce) *shard {
	// client nonces are uniformly distributed, any byte will do
	return &p.shards[int(n[entity.NonceLen-1])%shardCount]
}

func (p *partition) len() int {
	total := 0
	for i := range p.shards {
		s := &p.shards[i]
		s.mu.Lock()
		total += len(s.nonces)
		s.mu.Unlock()
	}
	return total
}

type Cache struct {
	mu    sync.RWMutex
	parts map[entity.SeedID]*partition
}

func New() *Cache {
	return &Cache{parts: make(map[entity.SeedID]*partition)}
}

// OpenSeed creates the partition for a freshly issued seed. Opening an
// existing partition is a no-op.
func (c *Cache) OpenSeed(id entity.SeedID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.parts[id]; !ok {
		c.parts[id] = newPartition()
	}
}

// DropSeed discards every nonce recorded for the seed.
func (c *Cache) DropSeed(id entity.SeedID) {
	c.mu.Lock()
	delete(c.parts, id)
	c.mu.Unlock()
}

// CheckAndInsert atomically records the pair. Of any number of concurrent
// callers with the same pair exactly one observes Inserted.
func (c *Cache) CheckAndInsert(id entity.SeedID, n entity.Nonce) Result {
	c.mu.RLock()
	p, ok := c.parts[id]
	c.mu.RUnlock()
	if !ok {
		return NoPartition
	}

	s := p.shardFor(n)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, seen := s.nonces[n]; seen {
		return AlreadyPresent
	}
	s.nonces[n] = struct{}{}
	return Inserted
}

// Len reports how many nonces the seed's partition holds, -1 if there is none.
func (c *Cache) Len(id entity.SeedID) int {
	c.mu.RLock()
	p, ok := c.parts[id]
	c.mu.RUnlock()
	if !ok {
		return -1
	}
	return p.len()
}

func (c *Cache) Seeds() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.parts)
}
