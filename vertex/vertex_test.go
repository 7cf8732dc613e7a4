/*
 * HyperGraphDB
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package vertex

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewVertexIsUnbound(t *testing.T) {
	v := New()

	require.False(t, v.IsBound())
	require.Equal(t, uint64(0), v.GetID())
	require.Equal(t, "", v.GetFeed())
	require.False(t, v.GetWriteable())
}

func TestBindThenRebind(t *testing.T) {
	v := New()
	v.Bind("abcd", 1, 100, true)

	require.True(t, v.IsBound())
	require.Equal(t, uint64(1), v.GetID())
	require.Equal(t, "abcd", v.GetFeed())
	require.True(t, v.GetWriteable())

	v.Bind("abcd", 2, 200, true)
	require.Equal(t, uint64(2), v.GetID())
	require.Equal(t, uint64(200), v.GetTimestamp())
}

func TestContentTagDefaultsEmpty(t *testing.T) {
	v := New()
	require.Equal(t, "", v.GetContentTag())

	v.SetContentWithTag("json", map[string]interface{}{"a": 1})
	require.Equal(t, "json", v.GetContentTag())

	v.SetContent("replaced")
	require.Equal(t, "json", v.GetContentTag(), "SetContent must not clear a previously set tag")
	require.Equal(t, "replaced", v.GetContent())
}

func TestAddEdgeToSameFeedLeavesFeedEmpty(t *testing.T) {
	a := New()
	a.Bind("feed1", 1, 1, true)
	b := New()
	b.Bind("feed1", 2, 1, true)

	a.AddEdgeTo(b, "knows")

	edges := a.GetEdges("knows")
	require.Len(t, edges, 1)
	require.Equal(t, "", edges[0].Feed)
	require.Equal(t, uint64(2), edges[0].Ref)
}

func TestAddEdgeToDifferentFeedRecordsFeed(t *testing.T) {
	a := New()
	a.Bind("feed1", 1, 1, true)
	b := New()
	b.Bind("feed2", 7, 1, true)

	a.AddEdgeTo(b, "knows")

	edges := a.GetEdges("knows")
	require.Len(t, edges, 1)
	require.Equal(t, "feed2", edges[0].Feed)
}

func TestAddEdgeToWithOptions(t *testing.T) {
	a := New()
	a.Bind("feed1", 1, 1, true)
	b := New()
	b.Bind("feed1", 2, 1, true)

	a.AddEdgeTo(b, "knows",
		WithView("static"),
		WithVersion(5),
		WithRestrictions(Restriction{Pattern: "private/**", Exclude: true}),
		WithMetadata(map[string][]byte{"hint": []byte("x")}))

	edges := a.GetEdges("")
	require.Len(t, edges, 1)
	require.Equal(t, "static", edges[0].View)
	require.Equal(t, uint64(5), edges[0].Version)
	require.Len(t, edges[0].Restrictions, 1)
	require.Equal(t, []byte("x"), edges[0].Metadata["hint"])
}

func TestRemoveEdge(t *testing.T) {
	a := New()
	a.Bind("feed1", 1, 1, true)
	b := New()
	b.Bind("feed1", 2, 1, true)
	c := New()
	c.Bind("feed1", 3, 1, true)

	a.AddEdgeTo(b, "knows")
	a.AddEdgeTo(c, "knows")

	a.RemoveEdge(func(e Edge) bool { return e.Ref == 2 })

	edges := a.GetEdges("knows")
	require.Len(t, edges, 1)
	require.Equal(t, uint64(3), edges[0].Ref)
}

func TestEdgeEqualIgnoresMetadataAndRestrictions(t *testing.T) {
	e1 := Edge{Label: "l", Ref: 1, Metadata: map[string][]byte{"a": []byte("1")}}
	e2 := Edge{Label: "l", Ref: 1, Restrictions: []Restriction{{Pattern: "x"}}}

	require.True(t, e1.Equal(e2))
}

func TestSetEdgesReplacesWholesale(t *testing.T) {
	v := New()
	v.SetEdges([]Edge{{Label: "a", Ref: 1}, {Label: "b", Ref: 2}})

	require.Len(t, v.GetEdges(""), 2)
	require.Len(t, v.GetEdges("a"), 1)
}
