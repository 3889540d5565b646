// ═══════════════════════════════════════════════════════════════════════════════
// ANALYZER CACHE
// ═══════════════════════════════════════════════════════════════════════════════
// Building a text analyzer configuration is expensive: the locale must be
// resolved and stopword files may have to be read from disk. The cache
// amortizes that work across every analyzer built from the same canonical
// configuration key (the serialized configuration string).
//
// GUARANTEES:
// -----------
//  1. For any key, the build function runs at most once across all concurrent
//     callers; everyone observes the same *ResolvedConfig.
//  2. The map only grows. Entries live for the lifetime of the cache
//     (build once, reuse forever).
//  3. A failed build releases its key, so a later caller may retry after the
//     underlying problem (say, a missing stopword directory) is fixed.
//
// The cache is an explicit service object: construct one at process start and
// hand it to every analyzer factory. Each key has its own build guard, so a
// slow stopword load for one configuration never blocks lookups of others.
// ═══════════════════════════════════════════════════════════════════════════════

package sift

import (
	"sync"

	"golang.org/x/text/language"
)

// ResolvedConfig is the fully computed text analyzer configuration: the parsed
// options, the resolved locale and the final stopword set. It is immutable
// once published into a Cache and is shared by reference across every
// analyzer instance built from the same key.
type ResolvedConfig struct {
	Options   TextOptions
	Tag       language.Tag
	Stopwords map[string]struct{}
}

// Cache maps canonical configuration keys to resolved configurations.
// Safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
}

type cacheEntry struct {
	done chan struct{} // closed when cfg/err are settled
	cfg  *ResolvedConfig
	err  error
}

// NewCache creates an empty analyzer cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*cacheEntry)}
}

// Len reports the number of resolved configurations currently cached.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// resolve returns the configuration for key, running build at most once per
// key. Concurrent callers for the same key wait on the first caller's build;
// builds for distinct keys proceed independently.
func (c *Cache) resolve(key string, build func() (*ResolvedConfig, error)) (*ResolvedConfig, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		c.mu.Unlock()
		<-e.done
		return e.cfg, e.err
	}

	e := &cacheEntry{done: make(chan struct{})}
	c.entries[key] = e
	c.mu.Unlock()

	e.cfg, e.err = build()
	close(e.done)

	if e.err != nil {
		// Do not cache failures: release the key so the next caller retries.
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, e.err
	}

	return e.cfg, nil
}
