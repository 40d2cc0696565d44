package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poyrazK/stubresolve/internal/dns/packet"
	"github.com/poyrazK/stubresolve/internal/dns/transport"
)

func respWithTTL(ttl uint32) *transport.Response {
	return &transport.Response{
		Message: packet.Message{
			Answers: []packet.Record{{Name: "example.com.", Type: packet.TypeA, Class: packet.ClassIN, TTL: ttl}},
		},
		CapturedAt: time.Now(),
	}
}

func TestKeyIsCaseInsensitive(t *testing.T) {
	a := Key(packet.ClassIN, packet.TypeA, "Example.COM.")
	b := Key(packet.ClassIN, packet.TypeA, "example.com.")
	assert.Equal(t, a, b)
}

func TestKeyDistinguishesTypeAndClass(t *testing.T) {
	a := Key(packet.ClassIN, packet.TypeA, "example.com.")
	b := Key(packet.ClassIN, packet.TypeAAAA, "example.com.")
	assert.NotEqual(t, a, b)
}

func TestSetThenGetHits(t *testing.T) {
	c := New()
	defer c.Close()

	key := Key(packet.ClassIN, packet.TypeA, "example.com.")
	c.Set(key, respWithTTL(300))

	got, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, uint32(300), got.Message.Answers[0].TTL)
}

func TestGetMissReturnsFalse(t *testing.T) {
	c := New()
	defer c.Close()

	_, ok := c.Get(Key(packet.ClassIN, packet.TypeA, "nowhere.example."))
	assert.False(t, ok)
}

func TestGetEvictsExpiredEntry(t *testing.T) {
	c := New()
	defer c.Close()

	key := Key(packet.ClassIN, packet.TypeA, "example.com.")
	e := entry{response: respWithTTL(1), capturedAt: time.Now().Add(-2 * time.Second)}
	c.entries[key] = e

	_, ok := c.Get(key)
	assert.False(t, ok, "entry whose TTL has elapsed should be evicted as a miss")

	c.mu.Lock()
	_, stillPresent := c.entries[key]
	c.mu.Unlock()
	assert.False(t, stillPresent)
}

func TestFlushRemovesEverything(t *testing.T) {
	c := New()
	defer c.Close()

	c.Set(Key(packet.ClassIN, packet.TypeA, "a.example."), respWithTTL(60))
	c.Set(Key(packet.ClassIN, packet.TypeA, "b.example."), respWithTTL(60))
	c.Flush()

	_, ok := c.Get(Key(packet.ClassIN, packet.TypeA, "a.example."))
	assert.False(t, ok)
}

func TestCleanupSweepsExpiredButKeepsFresh(t *testing.T) {
	c := New()
	defer c.Close()

	staleKey := Key(packet.ClassIN, packet.TypeA, "stale.example.")
	freshKey := Key(packet.ClassIN, packet.TypeA, "fresh.example.")

	c.mu.Lock()
	c.entries[staleKey] = entry{response: respWithTTL(1), capturedAt: time.Now().Add(-5 * time.Second)}
	c.entries[freshKey] = entry{response: respWithTTL(300), capturedAt: time.Now()}
	c.mu.Unlock()

	c.Cleanup()

	c.mu.Lock()
	_, staleStillThere := c.entries[staleKey]
	_, freshStillThere := c.entries[freshKey]
	c.mu.Unlock()

	assert.False(t, staleStillThere)
	assert.True(t, freshStillThere)
}

func TestMinRemainingTTLConsidersAllSections(t *testing.T) {
	resp := &transport.Response{
		Message: packet.Message{
			Answers:     []packet.Record{{TTL: 300}},
			Authorities: []packet.Record{{TTL: 60}},
			Additionals: []packet.Record{{TTL: 3600}},
		},
		CapturedAt: time.Now(),
	}
	e := entry{response: resp, capturedAt: time.Now()}
	assert.Equal(t, int64(60), minRemainingTTL(&e))
}
