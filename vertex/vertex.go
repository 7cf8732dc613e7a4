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
Package vertex contains the in-memory vertex/edge model.

Vertex is the minimal implementation of a graph node: created transiently
with New(), it has no id or feed until the core store persists it. After
the first persist, (feed, id) is bound. A vertex can still be mutated in
memory (content, edges) and re-persisted, which appends a new record with
a new id and rebinds the vertex to it; the record stored under the
earlier id is left unchanged.

This mirrors EliasDB's graphNode/graphEdge split (a minimal struct backed
by a plain attribute map) but the identity model is different: EliasDB
nodes carry a caller-assigned Key()/Kind() pair from the moment they are
created, while a HyperGraphDB vertex's identity is assigned by the store
on first write.
*/
package vertex

import (
	"fmt"
	"sync"
)

/*
Edge is a directed, labeled reference from a vertex to another (feed, id).
Edge is a plain data value - no code reference, per spec's restriction
design note - so it can be copied, compared and persisted without special
handling.
*/
type Edge struct {
	Label        string            // Edge label, may repeat (multi-edge)
	Ref          uint64            // Target vertex id
	Feed         string            // Target feed key (hex); empty means same feed as source
	View         string            // Name of the view that should interpret this edge, if any
	Metadata     map[string][]byte // Opaque per-edge metadata, e.g. decryption hints
	Restrictions []Restriction     // Restriction rules that attach to state when this edge is followed
	Version      uint64            // Pinned feed length for reproducible reads; 0 means unpinned
}

/*
Restriction is a single path rule carried by query state: a glob-style
pattern plus whether matching paths are included or excluded from further
traversal. Restriction is pure data, never a code reference - see
spec §9 and package restrict for the matcher.
*/
type Restriction struct {
	Pattern string // Slash-separated glob; "*" matches one segment, "**" matches any number
	Exclude bool   // If true, a match excludes rather than includes
}

/*
equalKey returns the tuple EliasDB-style equality of two edges is defined
over: (label, ref, feed, view). Metadata, restrictions and version do not
participate - they are never compared when deciding whether two edges are
"the same" hop.
*/
func (e Edge) equalKey() [4]string {
	return [4]string{e.Label, fmt.Sprint(e.Ref), e.Feed, e.View}
}

/*
Equal reports whether two edges are equal under the (label, ref, feed,
view) tuple.
*/
func (e Edge) Equal(o Edge) bool {
	return e.equalKey() == o.equalKey()
}

/*
Vertex is the unit of storage. Fields below the mutex are guarded by it so
a vertex can safely be read from one goroutine while persisted from
another query's transaction - e.g. the same in-memory vertex handed to two
concurrent put() calls.
*/
type Vertex struct {
	mutex sync.RWMutex

	bound     bool   // true once (feed, id) has been assigned
	feed      string // Owning feed key (hex); empty until bound
	id        uint64 // 1-based position within the feed; 0 until bound
	timestamp uint64 // Milliseconds since epoch, set at persist time
	writeable bool   // True iff the owning feed is locally writable

	contentTag string // Codec tag the content should be encoded with
	content    interface{}
	edges      []Edge
}

/*
New creates a transient vertex - no id or feed until it is persisted.
*/
func New() *Vertex {
	return &Vertex{}
}

/*
GetID returns the vertex's id. Zero before the first persist.
*/
func (v *Vertex) GetID() uint64 {
	v.mutex.RLock()
	defer v.mutex.RUnlock()
	return v.id
}

/*
GetFeed returns the vertex's owning feed key (hex). Empty before the
first persist.
*/
func (v *Vertex) GetFeed() string {
	v.mutex.RLock()
	defer v.mutex.RUnlock()
	return v.feed
}

/*
GetTimestamp returns the vertex's timestamp in milliseconds since epoch.
Zero before the first persist.
*/
func (v *Vertex) GetTimestamp() uint64 {
	v.mutex.RLock()
	defer v.mutex.RUnlock()
	return v.timestamp
}

/*
GetWriteable returns true iff the owning feed is locally writable. Always
false before the first persist (a transient vertex has no owning feed
yet).
*/
func (v *Vertex) GetWriteable() bool {
	v.mutex.RLock()
	defer v.mutex.RUnlock()
	return v.bound && v.writeable
}

/*
IsBound returns true once (feed, id) has been assigned by a persist.
*/
func (v *Vertex) IsBound() bool {
	v.mutex.RLock()
	defer v.mutex.RUnlock()
	return v.bound
}

/*
GetContent returns the vertex's decoded content, or nil if absent.
*/
func (v *Vertex) GetContent() interface{} {
	v.mutex.RLock()
	defer v.mutex.RUnlock()
	return v.content
}

/*
SetContent replaces the vertex's content, keeping whatever codec tag was
previously set (or the store's default if none was). Does not take effect
on the feed until the vertex is (re-)persisted.
*/
func (v *Vertex) SetContent(content interface{}) {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	v.content = content
}

/*
SetContentWithTag replaces the vertex's content and the codec tag it
should be encoded with - use this when the content is not the registry's
default map payload.
*/
func (v *Vertex) SetContentWithTag(tag string, content interface{}) {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	v.contentTag = tag
	v.content = content
}

/*
GetContentTag returns the codec tag the content should be encoded with,
or "" if none was set explicitly (the store falls back to its default).
*/
func (v *Vertex) GetContentTag() string {
	v.mutex.RLock()
	defer v.mutex.RUnlock()
	return v.contentTag
}

/*
BindContentTag records the codec tag a vertex's content was decoded with.
Called by the core store after a put, so a vertex which is re-persisted
without calling SetContentWithTag keeps encoding under the tag it was
last written with. (A vertex loaded by the core store gets its tag
through SetContentWithTag.)
*/
func (v *Vertex) BindContentTag(tag string) {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	v.contentTag = tag
}

/*
GetEdges returns the edges with the given label, in insertion order. An
empty label returns every edge regardless of label.
*/
func (v *Vertex) GetEdges(label string) []Edge {
	v.mutex.RLock()
	defer v.mutex.RUnlock()

	if label == "" {
		out := make([]Edge, len(v.edges))
		copy(out, v.edges)
		return out
	}

	var out []Edge
	for _, e := range v.edges {
		if e.Label == label {
			out = append(out, e)
		}
	}
	return out
}

/*
SetEdges replaces the vertex's edge list wholesale. Used by the core store
when reconstructing a vertex from a decoded envelope, whose edges already
carry resolved (feed, ref) pairs rather than live *Vertex targets.
*/
func (v *Vertex) SetEdges(edges []Edge) {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	v.edges = edges
}

/*
EdgeOption customizes an edge appended by AddEdgeTo.
*/
type EdgeOption func(*Edge)

/*
WithMetadata attaches metadata to the edge being created.
*/
func WithMetadata(md map[string][]byte) EdgeOption {
	return func(e *Edge) { e.Metadata = md }
}

/*
WithRestrictions attaches restriction rules to the edge being created -
they are added to query state when the edge is followed.
*/
func WithRestrictions(r ...Restriction) EdgeOption {
	return func(e *Edge) { e.Restrictions = r }
}

/*
WithView names the view that should interpret traversal through this
edge.
*/
func WithView(name string) EdgeOption {
	return func(e *Edge) { e.View = name }
}

/*
WithVersion pins the edge to a specific feed length for reproducible
reads.
*/
func WithVersion(version uint64) EdgeOption {
	return func(e *Edge) { e.Version = version }
}

/*
AddEdgeTo appends an edge to target. If target belongs to a different
feed than v, edge.Feed is set; otherwise it is left empty, per convention
(absent feed means same feed as source).
*/
func (v *Vertex) AddEdgeTo(target *Vertex, label string, opts ...EdgeOption) {
	target.mutex.RLock()
	targetID := target.id
	targetFeed := target.feed
	target.mutex.RUnlock()

	v.mutex.Lock()
	defer v.mutex.Unlock()

	e := Edge{Label: label, Ref: targetID}
	if targetFeed != v.feed {
		e.Feed = targetFeed
	}

	for _, opt := range opts {
		opt(&e)
	}

	v.edges = append(v.edges, e)
}

/*
ReplaceEdgeTo applies transform to every edge referencing target's
(feed, id), in place, preserving order.
*/
func (v *Vertex) ReplaceEdgeTo(target *Vertex, transform func(Edge) Edge) {
	target.mutex.RLock()
	targetID := target.id
	targetFeed := target.feed
	target.mutex.RUnlock()

	v.mutex.Lock()
	defer v.mutex.Unlock()

	for i, e := range v.edges {
		if e.Ref == targetID && sameFeed(e.Feed, targetFeed, v.feed) {
			v.edges[i] = transform(e)
		}
	}
}

/*
RemoveEdge removes every edge for which match returns true, preserving
the relative order of the remaining edges.
*/
func (v *Vertex) RemoveEdge(match func(Edge) bool) {
	v.mutex.Lock()
	defer v.mutex.Unlock()

	kept := v.edges[:0:0]
	for _, e := range v.edges {
		if !match(e) {
			kept = append(kept, e)
		}
	}
	v.edges = kept
}

/*
sameFeed compares an edge's recorded feed (possibly empty, meaning "same
as source") against a target feed, given the source vertex's own feed.
*/
func sameFeed(edgeFeed, targetFeed, sourceFeed string) bool {
	if edgeFeed == "" {
		return targetFeed == sourceFeed
	}
	return edgeFeed == targetFeed
}

/*
Bind assigns (feed, id, timestamp, writeable) to a vertex. It is called
exactly once per persist by the core store; calling it again rebinds the
vertex to a new revision (new id, same feed) as happens on re-persist.
*/
func (v *Vertex) Bind(feed string, id uint64, timestamp uint64, writeable bool) {
	v.mutex.Lock()
	defer v.mutex.Unlock()

	v.feed = feed
	v.id = id
	v.timestamp = timestamp
	v.writeable = writeable
	v.bound = true
}

/*
String returns a human-readable representation of this vertex, in
EliasDB's dataToString style: a compact header followed by its edges.
*/
func (v *Vertex) String() string {
	v.mutex.RLock()
	defer v.mutex.RUnlock()

	s := fmt.Sprintf("Vertex %v@%v (ts=%v writeable=%v)\n", v.feed, v.id, v.timestamp, v.writeable)
	for _, e := range v.edges {
		feed := e.Feed
		if feed == "" {
			feed = v.feed
		}
		s += fmt.Sprintf("    -%v-> %v@%v\n", e.Label, feed, e.Ref)
	}
	return s
}
