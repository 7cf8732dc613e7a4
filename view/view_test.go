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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/krotik/hypergraphdb/codec"
	"github.com/krotik/hypergraphdb/core"
	"github.com/krotik/hypergraphdb/logstore"
	"github.com/krotik/hypergraphdb/txcache"
	"github.com/krotik/hypergraphdb/vertex"
)

func newFixture() (*core.Manager, []byte, *Registry) {
	cs := logstore.NewMemoryCorestore()
	coreMgr := core.New(cs, codec.NewRegistry())
	cache := txcache.New(cs)
	reg := NewRegistry(coreMgr, cache)
	return coreMgr, cs.DefaultFeed().Key(), reg
}

func TestGraphViewOutFollowsEdges(t *testing.T) {
	coreMgr, feed, reg := newFixture()

	a := vertex.New()
	b := vertex.New()
	b.SetContent("b-content")
	require.NoError(t, coreMgr.Put(feed, b))

	a.AddEdgeTo(b, "knows")
	require.NoError(t, coreMgr.Put(feed, a))

	gv, err := reg.Resolve("graph")
	require.NoError(t, err)

	state := QueryState{Value: a}
	hops := gv.Out(state, "knows")
	require.Len(t, hops, 1)

	res := hops[0]()
	require.NoError(t, res.Err)
	require.Equal(t, "b-content", res.Vertex.GetContent())
	require.Equal(t, "knows", res.Label)
}

func TestGraphViewOutUnknownLabelEmpty(t *testing.T) {
	coreMgr, feed, reg := newFixture()

	a := vertex.New()
	require.NoError(t, coreMgr.Put(feed, a))

	gv, _ := reg.Resolve("graph")
	hops := gv.Out(QueryState{Value: a}, "nope")
	require.Empty(t, hops)
}

func TestGraphViewDelegatesToNamedView(t *testing.T) {
	coreMgr, feed, reg := newFixture()

	a := vertex.New()
	b := vertex.New()
	b.SetContent("target")
	require.NoError(t, coreMgr.Put(feed, b))

	a.AddEdgeTo(b, "ref", vertex.WithView("static"))
	require.NoError(t, coreMgr.Put(feed, a))

	gv, _ := reg.Resolve("graph")
	hops := gv.Out(QueryState{Value: a}, "ref")
	require.Len(t, hops, 1)

	res := hops[0]()
	require.NoError(t, res.Err)
	require.Equal(t, "target", res.Vertex.GetContent())
}

func TestStaticViewIgnoresEdgeView(t *testing.T) {
	coreMgr, feed, reg := newFixture()

	a := vertex.New()
	b := vertex.New()
	b.SetContent("target")
	require.NoError(t, coreMgr.Put(feed, b))

	// Even though the edge names a (nonexistent) view, StaticView never
	// looks at it.
	a.AddEdgeTo(b, "ref", vertex.WithView("does-not-exist"))
	require.NoError(t, coreMgr.Put(feed, a))

	sv, err := reg.Resolve("static")
	require.NoError(t, err)

	hops := sv.Out(QueryState{Value: a}, "ref")
	require.Len(t, hops, 1)

	res := hops[0]()
	require.NoError(t, res.Err)
	require.Equal(t, "target", res.Vertex.GetContent())
}

func TestOutRespectsExcludeRestriction(t *testing.T) {
	coreMgr, feed, reg := newFixture()

	a := vertex.New()
	b := vertex.New()
	require.NoError(t, coreMgr.Put(feed, b))

	a.AddEdgeTo(b, "secret")
	require.NoError(t, coreMgr.Put(feed, a))

	gv, _ := reg.Resolve("graph")

	state := QueryState{Value: a, Restrictions: []vertex.Restriction{
		{Pattern: "secret", Exclude: true},
	}}

	hops := gv.Out(state, "secret")
	require.Empty(t, hops)
}

func TestOutHonorsPinnedEdgeVersion(t *testing.T) {
	coreMgr, feed, reg := newFixture()

	b := vertex.New()
	b.SetContent("v1")
	require.NoError(t, coreMgr.Put(feed, b))
	pinnedVersion := uint64(1)

	a := vertex.New()
	// Captures b's id as of its first revision, pinned to feed length 1.
	a.AddEdgeTo(b, "ref", vertex.WithVersion(pinnedVersion))
	require.NoError(t, coreMgr.Put(feed, a))

	// Re-persist b under the same feed; the feed is now at length 3 and an
	// unpinned read of its latest id would see "v2".
	b.SetContent("v2")
	require.NoError(t, coreMgr.Put(feed, b))

	gv, _ := reg.Resolve("graph")
	hops := gv.Out(QueryState{Value: a}, "ref")
	require.Len(t, hops, 1)

	res := hops[0]()
	require.NoError(t, res.Err)
	require.Equal(t, "v1", res.Vertex.GetContent(), "edge.Version must pin the read to that feed length")
}

func TestGraphViewGetFallsBackToCurrentViewOnUnregisteredName(t *testing.T) {
	coreMgr, feed, reg := newFixture()

	a := vertex.New()
	b := vertex.New()
	b.SetContent("target")
	require.NoError(t, coreMgr.Put(feed, b))

	// The edge names a view that was never registered; GraphView.Get must
	// fall back to itself rather than propagate the resolve error.
	a.AddEdgeTo(b, "ref", vertex.WithView("does-not-exist"))
	require.NoError(t, coreMgr.Put(feed, a))

	gv, _ := reg.Resolve("graph")
	hops := gv.Out(QueryState{Value: a}, "ref")
	require.Len(t, hops, 1)

	res := hops[0]()
	require.NoError(t, res.Err)
	require.Equal(t, "target", res.Vertex.GetContent())
}

func TestOutFailedHopYieldsEdgeTraversingError(t *testing.T) {
	coreMgr, feed, reg := newFixture()

	a := vertex.New()
	// Edge refers to an id that was never persisted.
	a.SetEdges([]vertex.Edge{{Label: "ghost", Ref: 999}})
	require.NoError(t, coreMgr.Put(feed, a))

	gv, _ := reg.Resolve("graph")
	hops := gv.Out(QueryState{Value: a}, "ghost")
	require.Len(t, hops, 1)

	res := hops[0]()
	require.Error(t, res.Err)
}
