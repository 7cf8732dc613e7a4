/*
 * HyperGraphDB
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package view

import (
	"github.com/krotik/hypergraphdb/core"
	"github.com/krotik/hypergraphdb/feedkey"
	"github.com/krotik/hypergraphdb/hgerr"
	"github.com/krotik/hypergraphdb/txcache"
	"github.com/krotik/hypergraphdb/vertex"
)

/*
StaticView enumerates the same edges as GraphView but ignores edge.view
entirely - every hop, regardless of what view (if any) the edge names, is
interpreted by StaticView itself. This yields deterministic,
metadata-free traversal: useful for indexing and for callers that must
not depend on a third party's view implementation (spec.md §4.E).
*/
type StaticView struct {
	core  *core.Manager
	cache *txcache.Cache
}

/*
Name returns "static".
*/
func (v *StaticView) Name() string { return "static" }

/*
Get loads the vertex at (feed, id, version). viewDesc is accepted for
interface conformance but never consulted - that is the point of this
view.
*/
func (v *StaticView) Get(feed []byte, id uint64, version uint64, viewDesc string, metadata map[string][]byte) (*vertex.Vertex, error) {
	tx, err := v.cache.GetOrOpen(feed, version)
	if err != nil {
		return nil, &hgerr.VertexLoadingError{Feed: feedkey.Hex(feed), ID: id, Version: version, Cause: err}
	}
	return v.core.GetInTransaction(tx, id)
}

/*
Out returns one lazy Hop per edge in state.Value.GetEdges(label) not
excluded by state.Restrictions, always resolving through StaticView
itself regardless of edge.View.
*/
func (v *StaticView) Out(state QueryState, label string) []Hop {
	edges := state.Value.GetEdges(label)
	hops := make([]Hop, 0, len(edges))

	sourceFeed := state.Value.GetFeed()
	sourceID := state.Value.GetID()

	for _, e := range edges {
		e := e

		if !allowed(state, e.Label) {
			continue
		}

		hops = append(hops, func() Result {
			targetFeedHex := e.Feed
			if targetFeedHex == "" {
				targetFeedHex = sourceFeed
			}

			targetFeed, err := feedkey.Bytes(targetFeedHex)
			if err != nil {
				return v.failed(sourceFeed, sourceID, e, err)
			}

			target, err := v.Get(targetFeed, e.Ref, e.Version, "", nil)
			if err != nil {
				return v.failed(sourceFeed, sourceID, e, err)
			}

			nextState := state.withHop(e.Label).AddRestrictions(e.Restrictions)
			nextState.Value = target

			return Result{
				Vertex: target,
				Label:  e.Label,
				State:  nextState,
			}
		})
	}

	return hops
}

func (v *StaticView) failed(sourceFeed string, sourceID uint64, e vertex.Edge, err error) Result {
	hint := hgerr.HexHint(e.Feed)
	return Result{
		Err: &hgerr.EdgeTraversingError{
			Source:   hgerr.EdgeRef{Feed: sourceFeed, ID: sourceID},
			Label:    e.Label,
			ViewHint: hint,
			Cause:    err,
		},
	}
}
