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
Package crawler implements the graph walk and named indexes spec.md §4.G
describes: a BFS crawl rooted at a vertex, applying every registered
IndexRule's extract/traverse as it goes.

The frontier is a github.com/krotik/common/sortutil.PriorityQueue keyed by
depth - priority 0 is highest, so popping always returns the
lowest-depth, earliest-enqueued entry first, giving true BFS order with
ties broken by insertion order. MinPriority enforces the recursion budget
(spec.md §4.G: "a recursion limit prevents unbounded growth") by making
the queue report empty once the current depth exceeds the cap.
*/
package crawler

import (
	"strconv"
	"sync"

	"github.com/krotik/common/sortutil"

	"github.com/krotik/hypergraphdb/hgconfig"
	"github.com/krotik/hypergraphdb/hgerr"
	"github.com/krotik/hypergraphdb/internal/hglog"
	"github.com/krotik/hypergraphdb/vertex"
	"github.com/krotik/hypergraphdb/view"
)

var log = hglog.Get("crawler")

/*
IndexEntry is one key a vertex contributes to a rule's index, with an
optional relevance weight.
*/
type IndexEntry struct {
	Key    string
	Weight float64
}

/*
IndexRule is a named extraction + traversal policy (spec.md §4.G).
Extract is a pure function from vertex to zero-or-more index entries.
Traverse selects which outgoing labels the crawl should follow from this
vertex; a nil Traverse follows every label.
*/
type IndexRule struct {
	Name     string
	Extract  func(v *vertex.Vertex) []IndexEntry
	Traverse func(v *vertex.Vertex) []string
}

/*
Crawler performs the walk and owns the resulting indexes, one per
registered rule. v determines how edges are interpreted - StaticView is
the usual choice, since a crawl should not depend on a third party's view
metadata (spec.md §4.E).
*/
type Crawler struct {
	v        view.View
	maxDepth int

	mutex   sync.Mutex
	rules   []IndexRule
	indexes map[string]*Index

	lastReport Report
}

/*
Report summarizes the most recently completed Crawl - a supplemented
feature (not in spec.md's literal text) useful for diagnosing why a crawl
stopped short.
*/
type Report struct {
	Visited      int
	MaxDepthHit  bool
	DeepestLevel int
}

/*
New creates a Crawler that interprets edges via v, capped at maxDepth
levels below the root. maxDepth <= 0 uses hgconfig.MaxRecursionDepth.
*/
func New(v view.View, maxDepth int) *Crawler {
	if maxDepth <= 0 {
		maxDepth = hgconfig.MaxRecursionDepth
	}
	return &Crawler{v: v, maxDepth: maxDepth, indexes: make(map[string]*Index)}
}

/*
RegisterRule adds rule and creates its (initially empty) index. Calling
this after a Crawl has already populated other rules is fine; the new
rule simply has nothing indexed until the next Crawl.
*/
func (c *Crawler) RegisterRule(rule IndexRule) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.rules = append(c.rules, rule)
	c.indexes[rule.Name] = newIndex()
}

/*
Index returns the named rule's index, or IndexNotFoundError if no such
rule was registered.
*/
func (c *Crawler) Index(name string) (*Index, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	ix, ok := c.indexes[name]
	if !ok {
		return nil, &hgerr.IndexNotFoundError{Name: name}
	}
	return ix, nil
}

/*
LastReport returns stats from the most recently completed Crawl call.
*/
func (c *Crawler) LastReport() Report {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.lastReport
}

/*
Indexes returns every registered rule's Index, in registration order -
the list spec.md §6's facade `indexes` property names.
*/
func (c *Crawler) Indexes() []*Index {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	out := make([]*Index, 0, len(c.rules))
	for _, rule := range c.rules {
		out = append(out, c.indexes[rule.Name])
	}
	return out
}

type queueItem struct {
	v     *vertex.Vertex
	depth int
}

/*
Crawl walks the graph breadth-first from root, applying every registered
rule's extract at each unseen vertex and enqueuing unseen targets per the
union of every rule's traverse selection (spec.md §4.G steps 1-4). A
vertex already visited in this crawl (keyed by (feed, id)) is never
processed twice.
*/
func (c *Crawler) Crawl(root *vertex.Vertex) error {
	c.mutex.Lock()
	rules := append([]IndexRule(nil), c.rules...)
	c.mutex.Unlock()

	pq := sortutil.NewPriorityQueue()
	deepest := 0
	pq.MinPriority = func() int { return c.maxDepth }

	pq.Push(queueItem{v: root, depth: 0}, 0)

	visited := make(map[string]bool)
	count := 0
	maxDepthHit := false

	for pq.Size() > 0 {
		raw := pq.Pop()
		if raw == nil {
			maxDepthHit = true
			break
		}
		item := raw.(queueItem)

		k := key(item.v)
		if visited[k] {
			continue
		}
		visited[k] = true
		count++
		if item.depth > deepest {
			deepest = item.depth
		}

		for _, rule := range rules {
			for _, entry := range rule.Extract(item.v) {
				ix := c.indexes[rule.Name]
				ix.insert(entry.Key, Hit{Feed: item.v.GetFeed(), ID: item.v.GetID()})
			}
		}

		labels := selectLabels(rules, item.v)
		state := view.QueryState{Value: item.v}

		for _, label := range labels {
			for _, hop := range c.v.Out(state, label) {
				res := hop()
				if res.Err != nil {
					log.Warning("crawl: ", res.Err)
					continue
				}
				if visited[key(res.Vertex)] {
					continue
				}
				if item.depth+1 > c.maxDepth {
					maxDepthHit = true
				}
				pq.Push(queueItem{v: res.Vertex, depth: item.depth + 1}, item.depth+1)
			}
		}
	}

	c.mutex.Lock()
	c.lastReport = Report{Visited: count, MaxDepthHit: maxDepthHit, DeepestLevel: deepest}
	c.mutex.Unlock()

	return nil
}

/*
key renders the (feed, id) visited-set key for a vertex.
*/
func key(v *vertex.Vertex) string {
	return v.GetFeed() + "@" + strconv.FormatUint(v.GetID(), 10)
}

/*
selectLabels returns the union, de-duplicated, of every rule's
traverse(vertex) selection. A rule with a nil Traverse contributes "" -
the sentinel view.View.Out treats as "every label" - so registering even
one such rule makes the crawl follow everything.
*/
func selectLabels(rules []IndexRule, v *vertex.Vertex) []string {
	if len(rules) == 0 {
		return []string{""}
	}

	seen := make(map[string]bool)
	var labels []string

	for _, rule := range rules {
		if rule.Traverse == nil {
			if !seen[""] {
				seen[""] = true
				labels = append(labels, "")
			}
			continue
		}
		for _, l := range rule.Traverse(v) {
			if !seen[l] {
				seen[l] = true
				labels = append(labels, l)
			}
		}
	}

	return labels
}
