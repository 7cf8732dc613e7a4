/*
 * HyperGraphDB
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package core

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/krotik/hypergraphdb/codec"
	"github.com/krotik/hypergraphdb/hgerr"
	"github.com/krotik/hypergraphdb/logstore"
	"github.com/krotik/hypergraphdb/vertex"
)

func newManager() (*Manager, *logstore.MemoryCorestore) {
	cs := logstore.NewMemoryCorestore()
	return New(cs, codec.NewRegistry()), cs
}

func TestPutAssignsIDAndBindsVertex(t *testing.T) {
	m, cs := newManager()
	feed := cs.DefaultFeed().Key()

	v := vertex.New()
	v.SetContent(map[string]interface{}{"name": "alice"})

	require.NoError(t, m.Put(feed, v))
	require.True(t, v.IsBound())
	require.Equal(t, uint64(1), v.GetID())
	require.True(t, v.GetWriteable())
}

func TestPutThenGetRoundTrips(t *testing.T) {
	m, cs := newManager()
	feed := cs.DefaultFeed().Key()

	v := vertex.New()
	v.SetContent(map[string]interface{}{"name": "alice"})
	require.NoError(t, m.Put(feed, v))

	got, err := m.Get(feed, v.GetID(), 0)
	require.NoError(t, err)
	require.Equal(t, map[string]interface{}{"name": "alice"}, got.GetContent())
}

func TestPutTwiceRebindsToNewRevision(t *testing.T) {
	m, cs := newManager()
	feed := cs.DefaultFeed().Key()

	v := vertex.New()
	v.SetContent("v1")
	require.NoError(t, m.Put(feed, v))
	firstID := v.GetID()

	v.SetContent("v2")
	require.NoError(t, m.Put(feed, v))

	require.NotEqual(t, firstID, v.GetID())

	got, err := m.Get(feed, v.GetID(), 0)
	require.NoError(t, err)
	require.Equal(t, "v2", got.GetContent())
}

func TestGetNonExistentIDWrapsLoadingError(t *testing.T) {
	m, cs := newManager()
	feed := cs.DefaultFeed().Key()

	_, err := m.Get(feed, 99, 0)
	require.Error(t, err)
	var le *hgerr.VertexLoadingError
	require.ErrorAs(t, err, &le)
}

func TestPutOnReadOnlyFeedFailsWithPermissionError(t *testing.T) {
	m, cs := newManager()
	remote, err := cs.Get([]byte("remote-feed-key-0000000"))
	require.NoError(t, err)

	v := vertex.New()
	v.SetContent("x")

	err = m.Put(remote.Key(), v)
	require.Error(t, err)
	var we *hgerr.WritePermissionError
	require.ErrorAs(t, err, &we)
}

func TestPutAllPersistsInOrderWithinOneTransaction(t *testing.T) {
	m, cs := newManager()
	feed := cs.DefaultFeed().Key()

	v1 := vertex.New()
	v1.SetContent("a")
	v2 := vertex.New()
	v2.SetContent("b")

	require.NoError(t, m.PutAll(feed, []*vertex.Vertex{v1, v2}))
	require.Equal(t, uint64(1), v1.GetID())
	require.Equal(t, uint64(2), v2.GetID())
}

func TestContentTagIsPreservedAcrossGet(t *testing.T) {
	m, cs := newManager()
	feed := cs.DefaultFeed().Key()

	m.codecs.Register("upper", func(v interface{}) ([]byte, error) {
		return []byte(v.(string)), nil
	}, func(body []byte) (interface{}, error) {
		return string(body), nil
	})

	v := vertex.New()
	v.SetContentWithTag("upper", "HELLO")
	require.NoError(t, m.Put(feed, v))

	got, err := m.Get(feed, v.GetID(), 0)
	require.NoError(t, err)
	require.Equal(t, "upper", got.GetContentTag())
	require.Equal(t, "HELLO", got.GetContent())
}
