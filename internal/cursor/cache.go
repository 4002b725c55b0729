// Package cursor remembers the opaque upstream continuation token that leads
// to page N+1 of a given query, so page-number navigation works against
// cursor-only APIs.
package cursor

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/customeros/mailbridge/dto"
)

type key struct {
	fingerprint string
	page        int
}

type entry struct {
	cursor   string
	storedAt time.Time
}

type Cache struct {
	mu      sync.Mutex
	entries map[key]entry
	now     func() time.Time
}

func NewCache() *Cache {
	return &Cache{
		entries: make(map[key]entry),
		now:     time.Now,
	}
}

// Lookup returns the cursor stored for (fingerprint, page).
func (c *Cache) Lookup(fingerprint string, page int) (string, bool) {
	c.mu.Lock()
	e, ok := c.entries[key{fingerprint, page}]
	c.mu.Unlock()
	return e.cursor, ok
}

// Store records the cursor for (fingerprint, page). Last write wins.
func (c *Cache) Store(fingerprint string, page int, cursor string) {
	now := c.now()
	c.mu.Lock()
	c.entries[key{fingerprint, page}] = entry{cursor: cursor, storedAt: now}
	c.mu.Unlock()
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// EvictOlderThan drops entries stored more than ttl ago and reports how many
// were removed. A non-positive ttl evicts nothing.
func (c *Cache) EvictOlderThan(ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}
	cutoff := c.now().Add(-ttl)

	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for k, e := range c.entries {
		if e.storedAt.Before(cutoff) {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

// Fingerprint identifies a (credential, query shape) pair. The credential is
// hashed on its own first so the raw token never sits in a map key. Page
// token and page number are deliberately excluded.
func Fingerprint(credential string, q dto.ListQuery) string {
	credHash := sha256.Sum256([]byte(credential))

	h := sha256.New()
	h.Write(credHash[:])
	writeField(h, q.Q)
	writeField(h, q.LabelIDs)
	writeField(h, strconv.FormatInt(q.PageSize(), 10))
	return hex.EncodeToString(h.Sum(nil))
}

// length prefix keeps ("ab","c") and ("a","bc") apart
func writeField(w io.Writer, s string) {
	_, _ = w.Write([]byte(strconv.Itoa(len(s))))
	_, _ = w.Write([]byte{':'})
	_, _ = w.Write([]byte(s))
}
