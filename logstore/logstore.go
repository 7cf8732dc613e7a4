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
Package logstore defines the boundary HyperGraphDB crosses into the
append-only log layer it is built on. Everything in this file is an
external collaborator per spec.md §1 - corestore, feed and transaction are
supplied by a real hypercore-style log implementation in production. This
package only states the contract the rest of HyperGraphDB programs
against, the same way EliasDB's graphstorage package states a Storage
contract that DiskGraphStorage and MemoryGraphStorage both satisfy.

A Memory-backed implementation (MemoryCorestore) lives in memcorestore.go;
it exists purely so the rest of this module - and its tests - have
something concrete to run against, the same role EliasDB's
MemoryGraphStorage plays for graph tests.
*/
package logstore

import "strconv"

/*
Transaction is a read snapshot over one feed at a fixed length - or, for
a feed opened locally, a read/write snapshot. Transactions are cheap to
hold open for the life of a query; closing one is a no-op for log
implementations that have nothing to flush on read, but is still required
so write-capable feeds can release resources deterministically.
*/
type Transaction interface {

	/*
		Get returns the bytes stored at the given 1-based id. Returns a
		*NotFoundError if id is out of range for this snapshot's length.
	*/
	Get(id uint64) ([]byte, error)

	/*
		Put appends body to the feed and returns its new 1-based id.
		Only valid on a transaction opened against a writable feed.
	*/
	Put(body []byte) (uint64, error)

	/*
		FeedKey returns the owning feed's key - equivalent to the
		external contract's transaction.store.key.
	*/
	FeedKey() []byte

	/*
		Length returns the feed length this snapshot is pinned to.
	*/
	Length() uint64

	/*
		Close releases the transaction. Safe to call more than once.
	*/
	Close() error
}

/*
Feed is an append-only log identified by a Key.
*/
type Feed interface {

	/*
		Key returns this feed's key.
	*/
	Key() []byte

	/*
		Writable reports whether this feed can be appended to locally.
	*/
	Writable() bool

	/*
		Transaction opens a snapshot at the given feed length. version
		== 0 means "the current length" (the latest revision of every
		vertex).
	*/
	Transaction(version uint64) (Transaction, error)
}

/*
Corestore resolves feed keys to Feed handles, creating or loading them as
needed - the registry a real corestore implementation provides.
*/
type Corestore interface {

	/*
		Get opens or creates the feed for key. A nil or empty key
		returns the local default writable feed.
	*/
	Get(key []byte) (Feed, error)
}

/*
NotFoundError is returned by Transaction.Get when id is not present in
the snapshot.
*/
type NotFoundError struct {
	Feed string
	ID   uint64
}

func (e *NotFoundError) Error() string {
	return "logstore: no record " + strconv.FormatUint(e.ID, 10) + " in feed " + e.Feed
}
