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
Package path implements path materialization (spec.md §4.H):
CreateEdgesToPath walks a slash-separated path from a writable root,
creating whichever segments don't already resolve to an existing
same-feed vertex, and persists the result as one batch of new vertices
followed by one new revision of each parent, deepest parent first.
*/
package path

import (
	"strings"

	"github.com/krotik/hypergraphdb/core"
	"github.com/krotik/hypergraphdb/feedkey"
	"github.com/krotik/hypergraphdb/hgerr"
	"github.com/krotik/hypergraphdb/logstore"
	"github.com/krotik/hypergraphdb/vertex"
)

/*
route records one segment this call had to create: parent is the vertex
it hung off of, child is the newly created vertex, label is the segment
name used as the edge label.
*/
type route struct {
	parent *vertex.Vertex
	child  *vertex.Vertex
	label  string
}

/*
CreateEdgesToPath walks path from root, creating any segment that does
not already resolve to an existing same-feed vertex reachable by that
edge label, and returns every vertex this call created (empty if path was
already fully materialized - spec.md §4.H's idempotence property).

root must be writeable; CreateEdgesToPath never follows a path onto a
different feed; an edge whose feed differs from root's is never treated
as a candidate for a segment.
*/
func CreateEdgesToPath(m *core.Manager, rawPath string, root *vertex.Vertex) ([]*vertex.Vertex, error) {
	parts := normalize(rawPath)

	if !root.GetWriteable() {
		return nil, &hgerr.InputError{Detail: "passed root vertex has to be writeable"}
	}

	feedHex := root.GetFeed()
	feedBytes, err := feedkey.Bytes(feedHex)
	if err != nil {
		return nil, &hgerr.InputError{Detail: "root vertex has an invalid feed key: " + err.Error()}
	}

	tx, err := m.Transaction(feedBytes, 0)
	if err != nil {
		return nil, err
	}
	defer tx.Close()

	var created []*vertex.Vertex
	var routes []route

	current := root
	for _, seg := range parts {
		candidates, err := resolveCandidates(m, tx, current, seg, feedHex)
		if err != nil {
			return nil, err
		}

		var next *vertex.Vertex

		switch len(candidates) {
		case 0:
			next = vertex.New()
			routes = append(routes, route{parent: current, child: next, label: seg})
			created = append(created, next)
		case 1:
			next = candidates[0]
		default:
			next = pickLatest(candidates)
		}

		current = next
	}

	if len(created) == 0 {
		return nil, nil
	}

	if err := m.PutAll(feedBytes, created); err != nil {
		return nil, err
	}

	// Re-persisting a parent gives it a new id, so parents are handled
	// deepest first: each one gets its edge only after its child already
	// carries the id of its final revision.
	for i := len(routes) - 1; i >= 0; i-- {
		r := routes[i]
		r.parent.AddEdgeTo(r.child, r.label)
		if err := m.Put(feedBytes, r.parent); err != nil {
			return nil, err
		}
	}

	return created, nil
}

/*
normalize replaces "\" with "/", splits on "/" and drops empty segments,
per spec.md §4.H step 1.
*/
func normalize(p string) []string {
	p = strings.ReplaceAll(p, "\\", "/")
	raw := strings.Split(p, "/")

	parts := make([]string, 0, len(raw))
	for _, s := range raw {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return parts
}

/*
resolveCandidates loads the vertices referenced by current's seg-labeled,
same-feed edges within tx.
*/
func resolveCandidates(m *core.Manager, tx logstore.Transaction, current *vertex.Vertex, seg string, feedHex string) ([]*vertex.Vertex, error) {
	var out []*vertex.Vertex

	for _, e := range current.GetEdges(seg) {
		if e.Feed != "" && e.Feed != feedHex {
			continue
		}

		v, err := m.GetInTransaction(tx, e.Ref)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}

	return out, nil
}

/*
pickLatest returns the candidate with the highest timestamp; ties are
broken by the higher id (spec.md §4.H step 4.e).
*/
func pickLatest(candidates []*vertex.Vertex) *vertex.Vertex {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.GetTimestamp() > best.GetTimestamp() ||
			(c.GetTimestamp() == best.GetTimestamp() && c.GetID() > best.GetID()) {
			best = c
		}
	}
	return best
}

/*
distinctParents returns every route's parent, once each, in first-seen
order.
*/
func distinctParents(routes []route) []*vertex.Vertex {
	seen := make(map[*vertex.Vertex]bool)
	var out []*vertex.Vertex
	for _, r := range routes {
		if !seen[r.parent] {
			seen[r.parent] = true
			out = append(out, r.parent)
		}
	}
	return out
}
