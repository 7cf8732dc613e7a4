/*
 * HyperGraphDB
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Package txcache implements the per-query transaction cache (spec.md §4.C):
a mapping from feed_hex[@version] to an already-open logstore.Transaction,
so a traversal that revisits the same feed does not re-open it on every
hop.

A Cache is owned by exactly one query (or one crawl) for its whole
lifetime; Close releases every transaction it opened, successful or not -
matching spec §5's "the engine must release all cached transactions on
exit paths".
*/
package txcache

import (
	"fmt"
	"sync"

	"github.com/krotik/hypergraphdb/feedkey"
	"github.com/krotik/hypergraphdb/logstore"
)

/*
Cache maps feed_hex[@version] to an open Transaction. The zero value is
not usable; use New.
*/
type Cache struct {
	corestore logstore.Corestore

	mutex   sync.Mutex
	entries map[string]*cacheEntry
}

/*
cacheEntry coalesces concurrent opens of the same key: the first caller
opens the transaction under `once` while later callers for the same key
block on the same `once` call and then share its result.
*/
type cacheEntry struct {
	once sync.Once
	tx   logstore.Transaction
	err  error
}

/*
New creates a transaction cache backed by corestore.
*/
func New(corestore logstore.Corestore) *Cache {
	return &Cache{corestore: corestore, entries: make(map[string]*cacheEntry)}
}

/*
key renders the cache key for a feed/version pair, as spec.md §4.C
describes it: "feed_hex[@version]".
*/
func key(feed []byte, version uint64) string {
	if version == 0 {
		return feedkey.Hex(feed)
	}
	return fmt.Sprintf("%v@%v", feedkey.Hex(feed), version)
}

/*
GetOrOpen returns the cached transaction for (feed, version), opening one
via the corestore if this is the first request for that key in this
query. Concurrent callers asking for the same key coalesce onto a single
open.
*/
func (c *Cache) GetOrOpen(feed []byte, version uint64) (logstore.Transaction, error) {
	k := key(feed, version)

	c.mutex.Lock()
	entry, ok := c.entries[k]
	if !ok {
		entry = &cacheEntry{}
		c.entries[k] = entry
	}
	c.mutex.Unlock()

	entry.once.Do(func() {
		f, err := c.corestore.Get(feed)
		if err != nil {
			entry.err = err
			return
		}

		tx, err := f.Transaction(version)
		if err != nil {
			entry.err = err
			return
		}

		entry.tx = tx
	})

	return entry.tx, entry.err
}

/*
Close releases every transaction this cache has opened so far. Safe to
call more than once; safe to call even if some opens failed.
*/
func (c *Cache) Close() error {
	c.mutex.Lock()
	entries := make([]*cacheEntry, 0, len(c.entries))
	for _, e := range c.entries {
		entries = append(entries, e)
	}
	c.mutex.Unlock()

	var firstErr error
	for _, e := range entries {
		if e.tx == nil {
			continue
		}
		if err := e.tx.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
