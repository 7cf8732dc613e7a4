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
Package hypergraphdb contains the main API to the graph datastore.

A Store wires together every module spec.md §4 describes - the codec
registry (A), the vertex model (B), a per-query transaction cache (C),
the core store (D), the two built-in views (E), the query engine (F),
the crawler and its indexes (G), and path materialization (H) - behind
the single entry point an application program uses.

Mirroring EliasDB's graph.Manager, a Store is deliberately thin: nearly
every method here opens its own txcache.Cache, runs one operation, and
releases it. Callers that need several operations to share one snapshot
should build on the component packages directly.
*/
package hypergraphdb

import (
	"github.com/krotik/hypergraphdb/codec"
	"github.com/krotik/hypergraphdb/core"
	"github.com/krotik/hypergraphdb/crawler"
	"github.com/krotik/hypergraphdb/feedkey"
	"github.com/krotik/hypergraphdb/hgerr"
	"github.com/krotik/hypergraphdb/logstore"
	"github.com/krotik/hypergraphdb/path"
	"github.com/krotik/hypergraphdb/query"
	"github.com/krotik/hypergraphdb/txcache"
	"github.com/krotik/hypergraphdb/vertex"
	"github.com/krotik/hypergraphdb/view"
)

/*
Store is the top-level handle to a HyperGraphDB instance.
*/
type Store struct {
	corestore logstore.Corestore
	codecs    *codec.Registry
	core      *core.Manager
	crawler   *crawler.Crawler
}

/*
Option customizes a Store at construction time.
*/
type Option func(*Store)

/*
WithCodecs overrides the default codec registry - use this to register
application-specific content types before the first Put.
*/
func WithCodecs(codecs *codec.Registry) Option {
	return func(s *Store) { s.codecs = codecs }
}

/*
WithIndexRule registers a crawler index rule at construction time.
*/
func WithIndexRule(rule crawler.IndexRule) Option {
	return func(s *Store) { s.crawler.RegisterRule(rule) }
}

/*
New creates a Store backed by corestore - the out-of-scope external
append-only log collaborator (spec.md §1). Crawls and index lookups
interpret edges through StaticView, so they never depend on a third
party's view metadata.
*/
func New(corestore logstore.Corestore, opts ...Option) *Store {
	// The options run once against a probe Store first, so a registry
	// given through WithCodecs is the one the core store is built with.
	probe := &Store{codecs: codec.NewRegistry(), crawler: crawler.New(nil, 0)}
	for _, opt := range opts {
		opt(probe)
	}
	codecs := probe.codecs
	coreMgr := core.New(corestore, codecs)

	crawlCache := txcache.New(corestore)
	crawlRegistry := view.NewRegistry(coreMgr, crawlCache)
	staticView, err := crawlRegistry.Resolve("static")
	if err != nil {
		panic(err)
	}

	s := &Store{
		corestore: corestore,
		codecs:    codecs,
		core:      coreMgr,
		crawler:   crawler.New(staticView, 0),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

/*
DefaultFeed returns the key of the local default writable feed.
*/
func (s *Store) DefaultFeed() ([]byte, error) {
	return s.core.GetDefaultFeedID()
}

/*
Put persists v to feed, assigning it a new id and binding v to it.
*/
func (s *Store) Put(feed []byte, v *vertex.Vertex) error {
	return s.core.Put(feed, v)
}

/*
Create is a convenience wrapper around Put for a brand-new, transient
vertex: it persists v (a freshly-constructed vertex.New()) to feed and
returns it, now bound.
*/
func (s *Store) Create(feed []byte, v *vertex.Vertex) (*vertex.Vertex, error) {
	if err := s.core.Put(feed, v); err != nil {
		return nil, err
	}
	return v, nil
}

/*
Get loads vertex id from feed at version (0 meaning current length).
*/
func (s *Store) Get(feed []byte, id uint64, version uint64) (*vertex.Vertex, error) {
	return s.core.Get(feed, id, version)
}

/*
QueryAtVertex starts a traversal rooted at v, interpreted through the
named view ("" resolves to the default GraphView). The caller must call
the returned close function once it is done pulling from the query.
*/
func (s *Store) QueryAtVertex(v *vertex.Vertex, viewName string) (*query.Query, func() error, error) {
	cache := txcache.New(s.corestore)
	reg := view.NewRegistry(s.core, cache)

	vw, err := resolveView(reg, viewName)
	if err != nil {
		cache.Close()
		return nil, nil, err
	}

	seed := []view.Result{{Vertex: v, State: view.QueryState{Value: v}}}
	return query.New(vw, seed), cache.Close, nil
}

/*
QueryAtID loads the vertex at (feed, id, version) and starts a traversal
rooted there, interpreted through the named view. The caller must call
the returned close function once done.
*/
func (s *Store) QueryAtID(feed []byte, id uint64, version uint64, viewName string) (*query.Query, func() error, error) {
	cache := txcache.New(s.corestore)
	reg := view.NewRegistry(s.core, cache)

	vw, err := resolveView(reg, viewName)
	if err != nil {
		cache.Close()
		return nil, nil, err
	}

	v, err := vw.Get(feed, id, version, "", nil)
	if err != nil {
		cache.Close()
		return nil, nil, err
	}

	seed := []view.Result{{Vertex: v, State: view.QueryState{Value: v}}}
	return query.New(vw, seed), cache.Close, nil
}

/*
QueryPathAtVertex is QueryAtVertex followed by Out(label) for every entry
of labels, in order - a convenience for walking a known label path from a
root. The labels are used as given: no slash-separated path string is
split or normalized here, and no labels yields the same query as
QueryAtVertex.
*/
func (s *Store) QueryPathAtVertex(v *vertex.Vertex, viewName string, labels ...string) (*query.Query, func() error, error) {
	q, closeFn, err := s.QueryAtVertex(v, viewName)
	if err != nil {
		return nil, nil, err
	}

	for _, label := range labels {
		q = q.Out(label)
	}

	return q, closeFn, nil
}

/*
QueryIndex resolves name to a registered crawler index, looks up key, and
hands the resulting hits to the query engine as a seed - per spec.md §6's
queryIndex(name, key) -> Query contract and §4.G's "hand the resulting
stream to the query engine". Every hit is loaded through a single shared
transaction cache, coalescing opens for hits on the same feed. The caller
must call the returned close function when done pulling from the query.
*/
func (s *Store) QueryIndex(name string, key string) (*query.Query, func() error, error) {
	ix, err := s.crawler.Index(name)
	if err != nil {
		return nil, nil, err
	}

	cache := txcache.New(s.corestore)
	reg := view.NewRegistry(s.core, cache)

	vw, err := reg.Resolve("static")
	if err != nil {
		cache.Close()
		return nil, nil, err
	}

	var seed []view.Result
	for _, hit := range ix.Get(key) {
		feedBytes, err := feedkey.Bytes(hit.Feed)
		if err != nil {
			cache.Close()
			return nil, nil, &hgerr.InputError{Detail: "index hit has an invalid feed key: " + err.Error()}
		}

		tx, err := cache.GetOrOpen(feedBytes, 0)
		if err != nil {
			cache.Close()
			return nil, nil, err
		}

		v, err := s.core.GetInTransaction(tx, hit.ID)
		if err != nil {
			cache.Close()
			return nil, nil, err
		}

		seed = append(seed, view.Result{Vertex: v, State: view.QueryState{Value: v}})
	}

	return query.New(vw, seed), cache.Close, nil
}

/*
Crawl walks the graph breadth-first from root, feeding every registered
index rule (configured via WithIndexRule at construction time).
*/
func (s *Store) Crawl(root *vertex.Vertex) error {
	return s.crawler.Crawl(root)
}

/*
Indexes returns every registered Index object, per spec.md §6's facade
`indexes` property.
*/
func (s *Store) Indexes() []*crawler.Index {
	return s.crawler.Indexes()
}

/*
LastCrawlReport returns stats from the most recently completed Crawl.
*/
func (s *Store) LastCrawlReport() crawler.Report {
	return s.crawler.LastReport()
}

/*
CreateEdgesToPath materializes rawPath from root, creating whichever
segments don't already exist (spec.md §4.H).
*/
func (s *Store) CreateEdgesToPath(rawPath string, root *vertex.Vertex) ([]*vertex.Vertex, error) {
	return path.CreateEdgesToPath(s.core, rawPath, root)
}

func resolveView(reg *view.Registry, name string) (view.View, error) {
	if name == "" {
		name = "graph"
	}
	return reg.Resolve(name)
}
