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
Package core implements the core store (spec.md §4.D): the component that
turns vertex.Vertex values into binary envelopes and back, and drives the
logstore transactions that persist them.

This is the only package that knows about the wire envelope - everything
above it (view, query, crawler) deals exclusively in *vertex.Vertex.
*/
package core

import (
	"fmt"
	"time"

	"github.com/krotik/common/errorutil"

	"github.com/krotik/hypergraphdb/codec"
	"github.com/krotik/hypergraphdb/feedkey"
	"github.com/krotik/hypergraphdb/hgconfig"
	"github.com/krotik/hypergraphdb/hgerr"
	"github.com/krotik/hypergraphdb/internal/hglog"
	"github.com/krotik/hypergraphdb/logstore"
	"github.com/krotik/hypergraphdb/vertex"
)

var log = hglog.Get("core")

/*
Manager is the core store. It owns no state of its own beyond the
corestore and codec registry it was constructed with - all durable state
lives in the feeds behind corestore.
*/
type Manager struct {
	corestore logstore.Corestore
	codecs    *codec.Registry
}

/*
New creates a core store Manager backed by corestore, encoding/decoding
vertex content with codecs.
*/
func New(corestore logstore.Corestore, codecs *codec.Registry) *Manager {
	return &Manager{corestore: corestore, codecs: codecs}
}

/*
GetDefaultFeedID returns the key of the local default writable feed, as
corestore.Get(nil) would resolve it.
*/
func (m *Manager) GetDefaultFeedID() ([]byte, error) {
	f, err := m.corestore.Get(nil)
	if err != nil {
		return nil, err
	}
	return f.Key(), nil
}

/*
Transaction opens a snapshot transaction against feed at the given
version (0 meaning "current length"). Exposed so callers that want to
pin several reads to one snapshot - the query and crawler packages - can
share a single logstore.Transaction via txcache.
*/
func (m *Manager) Transaction(feed []byte, version uint64) (logstore.Transaction, error) {
	f, err := m.corestore.Get(feed)
	if err != nil {
		return nil, err
	}
	return f.Transaction(version)
}

/*
Put persists v to feed, assigning it a new id. v's prior id (if bound) is
recorded as the new record's prevID, satisfying spec.md §3's revision
chain invariant; the vertex is then rebound to (feed, newID).

Put requires a writable feed and refuses to persist otherwise, per
spec.md §3's "a vertex can only be written through its own feed".
*/
func (m *Manager) Put(feed []byte, v *vertex.Vertex) error {
	f, err := m.corestore.Get(feed)
	if err != nil {
		return err
	}
	if !f.Writable() {
		return &hgerr.WritePermissionError{Feed: feedkey.Hex(feed), Op: "put"}
	}

	tx, err := f.Transaction(0)
	if err != nil {
		return err
	}
	defer tx.Close()

	return m.putInTransaction(tx, v)
}

/*
PutAll persists every vertex in vs to feed within a single transaction, in
order. If any vertex fails to encode or persist, PutAll stops and returns
that error immediately - unlike traversal, a write failure is never
isolated to one item (spec.md §7: "only write failures abort the
enclosing operation").
*/
func (m *Manager) PutAll(feed []byte, vs []*vertex.Vertex) error {
	f, err := m.corestore.Get(feed)
	if err != nil {
		return err
	}
	if !f.Writable() {
		return &hgerr.WritePermissionError{Feed: feedkey.Hex(feed), Op: "putAll"}
	}

	tx, err := f.Transaction(0)
	if err != nil {
		return err
	}
	defer tx.Close()

	for _, v := range vs {
		if err := m.putInTransaction(tx, v); err != nil {
			return err
		}
	}

	return nil
}

func (m *Manager) putInTransaction(tx logstore.Transaction, v *vertex.Vertex) error {
	errorutil.AssertTrue(tx != nil && v != nil, "core: putInTransaction requires a non-nil transaction and vertex")

	tag := v.GetContentTag()
	if tag == "" {
		tag = hgconfig.DefaultCodecTag
	}

	body, err := m.codecs.Encode(tag, v.GetContent())
	if err != nil {
		return fmt.Errorf("core: encode content: %w", err)
	}

	env := envelope{
		timestamp: uint64(time.Now().UnixMilli()),
		prevID:    v.GetID(),
		codecTag:  tag,
		content:   body,
		edges:     v.GetEdges(""),
	}

	id, err := tx.Put(encodeEnvelope(env))
	if err != nil {
		return err
	}

	log.Debug("put vertex ", feedkey.Hex(tx.FeedKey()), "@", id)

	v.Bind(feedkey.Hex(tx.FeedKey()), id, env.timestamp, true)
	v.BindContentTag(tag)

	return nil
}

/*
Get loads vertex id from feed at version (0 meaning "current length") and
decodes it into a *vertex.Vertex. Read failures are wrapped in
hgerr.VertexLoadingError, decode failures in hgerr.VertexDecodingError -
both are attached to the specific result they occurred on rather than
aborting a broader operation (spec.md §7).
*/
func (m *Manager) Get(feed []byte, id uint64, version uint64) (*vertex.Vertex, error) {
	f, err := m.corestore.Get(feed)
	if err != nil {
		return nil, &hgerr.VertexLoadingError{Feed: feedkey.Hex(feed), ID: id, Version: version, Cause: err}
	}

	tx, err := f.Transaction(version)
	if err != nil {
		return nil, &hgerr.VertexLoadingError{Feed: feedkey.Hex(feed), ID: id, Version: version, Cause: err}
	}
	defer tx.Close()

	v, err := m.GetInTransaction(tx, id)
	if err != nil {
		return nil, err
	}

	if f.Writable() {
		v.Bind(v.GetFeed(), v.GetID(), v.GetTimestamp(), true)
	}

	return v, nil
}

/*
GetInTransaction loads and decodes vertex id using an already-open
transaction, e.g. one shared across several hops via txcache.Cache. The
returned vertex is always bound as read-only (writeable=false); callers
that know the owning feed is locally writable - Get does, via
logstore.Feed.Writable - rebind accordingly.
*/
func (m *Manager) GetInTransaction(tx logstore.Transaction, id uint64) (*vertex.Vertex, error) {
	hexFeed := feedkey.Hex(tx.FeedKey())

	body, err := tx.Get(id)
	if err != nil {
		return nil, &hgerr.VertexLoadingError{Feed: hexFeed, ID: id, Version: tx.Length(), Cause: err}
	}

	env, err := decodeEnvelope(body)
	if err != nil {
		return nil, &hgerr.VertexDecodingError{Feed: hexFeed, ID: id, Cause: err}
	}

	content, err := m.codecs.Decode(env.codecTag, env.content)
	if err != nil {
		return nil, &hgerr.VertexDecodingError{Feed: hexFeed, ID: id, Cause: err}
	}

	v := vertex.New()
	v.SetContentWithTag(env.codecTag, content)
	v.SetEdges(env.edges)
	v.Bind(hexFeed, id, env.timestamp, false)

	return v, nil
}
