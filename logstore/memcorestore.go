/*
 * HyperGraphDB
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package logstore

import (
	"sync"

	"github.com/google/uuid"
)

/*
MemoryCorestore is an in-memory stand-in for a real corestore. It exists
for tests and local demos only - the real thing is an external
collaborator (spec.md §1) that replicates feeds over the network. It
mirrors EliasDB's MemoryGraphStorage: a name, an in-memory map, nothing
persisted to disk.
*/
type MemoryCorestore struct {
	mutex   sync.Mutex
	feeds   map[string]*memoryFeed
	default_ *memoryFeed
}

/*
NewMemoryCorestore creates an empty in-memory corestore with its own
freshly minted default writable feed.
*/
func NewMemoryCorestore() *MemoryCorestore {
	cs := &MemoryCorestore{feeds: make(map[string]*memoryFeed)}
	cs.default_ = newMemoryFeed(newFeedKey(), true)
	cs.feeds[string(cs.default_.key)] = cs.default_
	return cs
}

/*
Get opens or creates the feed for key. A nil or empty key returns the
local default writable feed, per the corestore contract.
*/
func (cs *MemoryCorestore) Get(key []byte) (Feed, error) {
	cs.mutex.Lock()
	defer cs.mutex.Unlock()

	if len(key) == 0 {
		return cs.default_, nil
	}

	if f, ok := cs.feeds[string(key)]; ok {
		return f, nil
	}

	// A key that was never created locally is treated as a remote, read-only
	// feed - this is how a federation member learns of another writer's feed.

	f := newMemoryFeed(append([]byte(nil), key...), false)
	cs.feeds[string(key)] = f
	return f, nil
}

/*
DefaultFeed returns the corestore's local writable feed directly, without
going through Get(nil) - convenient for tests that need the key up front.
*/
func (cs *MemoryCorestore) DefaultFeed() Feed {
	return cs.default_
}

/*
CreateFeed registers and returns a new local writable feed with a freshly
minted key - used by tests that exercise cross-feed edges.
*/
func (cs *MemoryCorestore) CreateFeed() Feed {
	cs.mutex.Lock()
	defer cs.mutex.Unlock()

	f := newMemoryFeed(newFeedKey(), true)
	cs.feeds[string(f.key)] = f
	return f
}

/*
newFeedKey mints an opaque 16-byte feed identifier. A real corestore uses
an Ed25519 public key; a random UUID is a sufficient stand-in for tests.
*/
func newFeedKey() []byte {
	id := uuid.New()
	return id[:]
}

/*
memoryFeed is an in-memory append-only log.
*/
type memoryFeed struct {
	mutex    sync.RWMutex
	key      []byte
	writable bool
	records  [][]byte
}

func newMemoryFeed(key []byte, writable bool) *memoryFeed {
	return &memoryFeed{key: key, writable: writable}
}

func (f *memoryFeed) Key() []byte {
	return f.key
}

func (f *memoryFeed) Writable() bool {
	return f.writable
}

func (f *memoryFeed) Transaction(version uint64) (Transaction, error) {
	f.mutex.RLock()
	defer f.mutex.RUnlock()

	length := uint64(len(f.records))
	if version == 0 || version > length {
		version = length
	}

	return &memoryTransaction{feed: f, length: version}, nil
}

/*
memoryTransaction is a snapshot at a fixed feed length. Reads never see
records appended after the snapshot was taken, even if the same process
later appends more through a different transaction - matching "reads from
a single transaction observe a fixed feed length for the duration of the
query" (spec §5).
*/
type memoryTransaction struct {
	feed   *memoryFeed
	length uint64
	closed bool
}

func (t *memoryTransaction) Get(id uint64) ([]byte, error) {
	if id == 0 || id > t.length {
		return nil, &NotFoundError{Feed: string(t.feed.key), ID: id}
	}

	t.feed.mutex.RLock()
	defer t.feed.mutex.RUnlock()

	body := t.feed.records[id-1]
	out := make([]byte, len(body))
	copy(out, body)
	return out, nil
}

func (t *memoryTransaction) Put(body []byte) (uint64, error) {
	if !t.feed.writable {
		return 0, &NotFoundError{Feed: string(t.feed.key), ID: 0}
	}

	t.feed.mutex.Lock()
	defer t.feed.mutex.Unlock()

	stored := make([]byte, len(body))
	copy(stored, body)
	t.feed.records = append(t.feed.records, stored)
	id := uint64(len(t.feed.records))

	// A write extends the live length of this snapshot too - callers that
	// put several records in one transaction must see their own writes.

	if id > t.length {
		t.length = id
	}

	return id, nil
}

func (t *memoryTransaction) FeedKey() []byte {
	return t.feed.key
}

func (t *memoryTransaction) Length() uint64 {
	return t.length
}

func (t *memoryTransaction) Close() error {
	t.closed = true
	return nil
}
