/*
 * HyperGraphDB
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package crawler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/krotik/hypergraphdb/codec"
	"github.com/krotik/hypergraphdb/core"
	"github.com/krotik/hypergraphdb/logstore"
	"github.com/krotik/hypergraphdb/txcache"
	"github.com/krotik/hypergraphdb/vertex"
	"github.com/krotik/hypergraphdb/view"
)

func newCrawlFixture(t *testing.T) (*Crawler, *core.Manager, []byte) {
	cs := logstore.NewMemoryCorestore()
	coreMgr := core.New(cs, codec.NewRegistry())
	cache := txcache.New(cs)
	reg := view.NewRegistry(coreMgr, cache)
	sv, err := reg.Resolve("static")
	require.NoError(t, err)

	c := New(sv, 10)
	return c, coreMgr, cs.DefaultFeed().Key()
}

func TestCrawlVisitsEveryReachableVertexOnce(t *testing.T) {
	c, coreMgr, feed := newCrawlFixture(t)

	leaf := vertex.New()
	leaf.SetContent(map[string]interface{}{"name": "leaf"})
	require.NoError(t, coreMgr.Put(feed, leaf))

	mid := vertex.New()
	mid.SetContent(map[string]interface{}{"name": "mid"})
	mid.AddEdgeTo(leaf, "child")
	require.NoError(t, coreMgr.Put(feed, mid))

	root := vertex.New()
	root.SetContent(map[string]interface{}{"name": "root"})
	root.AddEdgeTo(mid, "child")
	root.AddEdgeTo(leaf, "child") // diamond: leaf reachable twice
	require.NoError(t, coreMgr.Put(feed, root))

	c.RegisterRule(IndexRule{
		Name: "byName",
		Extract: func(v *vertex.Vertex) []IndexEntry {
			m, ok := v.GetContent().(map[string]interface{})
			if !ok {
				return nil
			}
			return []IndexEntry{{Key: m["name"].(string)}}
		},
		Traverse: func(v *vertex.Vertex) []string { return []string{"child"} },
	})

	require.NoError(t, c.Crawl(root))
	require.Equal(t, 3, c.LastReport().Visited)

	ix, err := c.Index("byName")
	require.NoError(t, err)

	hits := ix.Get("leaf")
	require.Len(t, hits, 1)
}

func TestQueryUnknownIndexErrors(t *testing.T) {
	c, _, _ := newCrawlFixture(t)
	_, err := c.Index("nope")
	require.Error(t, err)
}

func TestCrawlRespectsMaxDepth(t *testing.T) {
	cs := logstore.NewMemoryCorestore()
	coreMgr := core.New(cs, codec.NewRegistry())
	cache := txcache.New(cs)
	reg := view.NewRegistry(coreMgr, cache)
	sv, err := reg.Resolve("static")
	require.NoError(t, err)

	feed := cs.DefaultFeed().Key()

	tail := vertex.New()
	require.NoError(t, coreMgr.Put(feed, tail))

	mid := vertex.New()
	mid.AddEdgeTo(tail, "next")
	require.NoError(t, coreMgr.Put(feed, mid))

	head := vertex.New()
	head.AddEdgeTo(mid, "next")
	require.NoError(t, coreMgr.Put(feed, head))

	c := New(sv, 1)
	c.RegisterRule(IndexRule{
		Name:     "all",
		Extract:  func(v *vertex.Vertex) []IndexEntry { return []IndexEntry{{Key: "x"}} },
		Traverse: func(v *vertex.Vertex) []string { return []string{"next"} },
	})

	require.NoError(t, c.Crawl(head))
	// depth 0 (head) + depth 1 (mid) are within budget; tail at depth 2 is not.
	require.LessOrEqual(t, c.LastReport().Visited, 2)
}

func TestFoldKeyLowercasesWordKeys(t *testing.T) {
	require.Equal(t, "hello", FoldKey("Hello"))
	require.Equal(t, "2026-08-06", FoldKey("2026-08-06"))
}
