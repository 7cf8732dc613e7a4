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
	"github.com/krotik/hypergraphdb/hgconfig"
	"github.com/krotik/hypergraphdb/hgerr"
	"github.com/krotik/hypergraphdb/txcache"
	"github.com/krotik/hypergraphdb/vertex"
)

/*
GraphView is the default view (spec.md §4.E): for each outgoing edge it
resolves (edge.feed ?? vertex.feed, edge.ref) through Get with edge.view
and edge.metadata, so an edge can hand interpretation off to a different
view entirely. Restrictions propagate to every hop.
*/
type GraphView struct {
	core     *core.Manager
	cache    *txcache.Cache
	registry *Registry
}

/*
Name returns "graph", the name hgconfig.DefaultViewName resolves to.
*/
func (v *GraphView) Name() string { return hgconfig.DefaultViewName }

/*
Get loads the vertex at (feed, id, version). If viewDesc names a
different registered view, loading is delegated to it - mandatory
delegation per spec.md §4.E. An unknown view name falls back to this
view rather than failing (spec.md §7).
*/
func (v *GraphView) Get(feed []byte, id uint64, version uint64, viewDesc string, metadata map[string][]byte) (*vertex.Vertex, error) {
	name := resolveViewName(viewDesc)
	if name != v.Name() {
		if target, err := v.registry.Resolve(name); err == nil {
			return target.Get(feed, id, version, "", metadata)
		}
	}

	return v.load(feed, id, version)
}

func (v *GraphView) load(feed []byte, id uint64, version uint64) (*vertex.Vertex, error) {
	tx, err := v.cache.GetOrOpen(feed, version)
	if err != nil {
		return nil, &hgerr.VertexLoadingError{Feed: feedkey.Hex(feed), ID: id, Version: version, Cause: err}
	}
	return v.core.GetInTransaction(tx, id)
}

/*
Out returns one lazy Hop per edge in state.Value.GetEdges(label) whose
path is not excluded by state.Restrictions. Resolving a Hop performs the
delegated Get and, if edge.restrictions is non-empty, folds them into the
resulting state per toResult (spec.md §4.E).
*/
func (v *GraphView) Out(state QueryState, label string) []Hop {
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

			target, err := v.Get(targetFeed, e.Ref, e.Version, e.View, e.Metadata)
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

func (v *GraphView) failed(sourceFeed string, sourceID uint64, e vertex.Edge, err error) Result {
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
