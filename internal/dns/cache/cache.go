// Package cache is the resolver's in-process, TTL-aware response cache.
package cache

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/poyrazK/stubresolve/internal/dns/packet"
	"github.com/poyrazK/stubresolve/internal/dns/transport"
)

// cleanupInterval is how often the background sweep evicts expired
// entries, matching the teacher's DNSCache.cleanupLoop cadence.
const cleanupInterval = 5 * time.Minute

type entry struct {
	response   *transport.Response
	capturedAt time.Time
}

// Cache is a TTL-aware store keyed by (qclass, qtype, qname). Unlike
// the teacher's DNSCache, which shards its map across 256 FNV-hashed
// buckets each with its own RWMutex for authoritative-server
// throughput, this cache uses a single sync.Mutex over one map, so
// every Get, Set, Flush and Cleanup runs under the same lock. The
// resolver's lookup and its later insert are two separate critical
// sections with the transport I/O between them: two concurrent misses
// on one key both query upstream, and the later Set wins.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry

	stopCleanup chan struct{}
	closeOnce   sync.Once
}

// New returns a running Cache with its background cleanup sweep started.
func New() *Cache {
	c := &Cache{
		entries:     make(map[string]entry),
		stopCleanup: make(chan struct{}),
	}
	go c.cleanupLoop()
	return c
}

// Key canonicalizes (qclass, qtype, qname) into a cache key. Name
// comparison is case-insensitive per RFC 1035, so the key lowercases it.
func Key(class packet.Class, qtype packet.RRType, name string) string {
	return fmt.Sprintf("%d/%d/%s", class, qtype, strings.ToLower(name))
}

// Get returns the cached response for key, or (nil, false) on a miss.
// A hit whose remaining TTL (the smallest across every RR in the
// answer, authority and additional sections) has
// dropped to zero or below is evicted and reported as a miss.
func (c *Cache) Get(key string) (*transport.Response, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}

	if minRemainingTTL(&e) <= 0 {
		delete(c.entries, key)
		return nil, false
	}
	return e.response, true
}

// Set inserts resp under key, overwriting any prior entry. Only
// responses with rcode NoError and at least one question are expected
// to be passed in; callers enforce that before calling Set.
func (c *Cache) Set(key string, resp *transport.Response) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{response: resp, capturedAt: time.Now()}
}

// Flush removes every entry.
func (c *Cache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

// Cleanup removes every entry whose remaining TTL has elapsed.
func (c *Cache) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		if minRemainingTTL(&e) <= 0 {
			delete(c.entries, key)
		}
	}
}

// Close stops the background cleanup goroutine.
func (c *Cache) Close() {
	c.closeOnce.Do(func() { close(c.stopCleanup) })
}

func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.Cleanup()
		case <-c.stopCleanup:
			return
		}
	}
}

// minRemainingTTL returns the smallest remaining TTL, in seconds,
// across every RR in e's response sections. A response with no RRs at
// all (such as a NOERROR reply with empty sections, which the resolver
// does pass to Set) is treated as already expired, so it never hits.
func minRemainingTTL(e *entry) int64 {
	if e.response == nil {
		return 0
	}
	elapsed := int64(time.Since(e.capturedAt).Seconds())

	min := int64(-1)
	consider := func(ttl uint32) {
		remaining := int64(ttl) - elapsed
		if min == -1 || remaining < min {
			min = remaining
		}
	}
	for _, rr := range e.response.Message.Answers {
		consider(rr.TTL)
	}
	for _, rr := range e.response.Message.Authorities {
		consider(rr.TTL)
	}
	for _, rr := range e.response.Message.Additionals {
		consider(rr.TTL)
	}
	if min == -1 {
		return 0
	}
	return min
}
