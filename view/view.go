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
Package view implements the strategies for interpreting a vertex and its
edges under a codec (spec.md §4.E): GraphView, the default, and
StaticView, which ignores per-edge view delegation.

Every view shares one txcache.Cache per query so that hops across the
same feed/version reuse one open transaction, and one Registry so that
GraphView can resolve edge.view delegation by name.
*/
package view

import (
	"github.com/krotik/hypergraphdb/hgconfig"
	"github.com/krotik/hypergraphdb/restrict"
	"github.com/krotik/hypergraphdb/vertex"
)

/*
QueryState travels with every streamed value (spec.md §4.F): the vertex
reached so far, the restrictions accumulated along the path, and the
label path itself (needed to evaluate restrict.Match against future
hops).
*/
type QueryState struct {
	Value        *vertex.Vertex
	Restrictions []vertex.Restriction
	Path         []string
}

/*
AddRestrictions returns a new state with r appended to Restrictions. If r
is empty, the receiver is returned unchanged - this is toResult's
`if edge.restrictions is non-empty` branch (spec.md §4.E).
*/
func (s QueryState) AddRestrictions(r []vertex.Restriction) QueryState {
	if len(r) == 0 {
		return s
	}

	merged := make([]vertex.Restriction, 0, len(s.Restrictions)+len(r))
	merged = append(merged, s.Restrictions...)
	merged = append(merged, r...)

	return QueryState{Value: s.Value, Restrictions: merged, Path: s.Path}
}

/*
withHop returns a new state with label appended to Path - used so
restrict.Match sees the full path-so-far including the hop currently
being considered.
*/
func (s QueryState) withHop(label string) QueryState {
	path := make([]string, 0, len(s.Path)+1)
	path = append(path, s.Path...)
	path = append(path, label)
	return QueryState{Value: s.Value, Restrictions: s.Restrictions, Path: path}
}

/*
Result is one hop's outcome: either a loaded vertex plus the label
followed and the resulting state, or Err if the hop failed. A failed hop
never aborts traversal of its siblings (spec.md §7) - the query package
surfaces Err to the caller's matches()/values() pipeline instead.
*/
type Result struct {
	Vertex *vertex.Vertex
	Label  string
	State  QueryState
	Err    error
}

/*
Hop is one lazily-resolved outgoing edge: resolving it (opening a
transaction, reading, decoding) only happens when the hop is pulled by
the query engine, and one hop's failure never blocks another's
resolution.
*/
type Hop func() Result

/*
View is the strategy contract spec.md §4.E describes. Every view has a
unique Name.
*/
type View interface {
	Name() string

	/*
		Get loads a vertex for display/entry purposes, resolving
		viewDesc by delegation if it names a different registered
		view.
	*/
	Get(feed []byte, id uint64, version uint64, viewDesc string, metadata map[string][]byte) (*vertex.Vertex, error)

	/*
		Out returns one lazy Hop per outgoing edge of state.Value
		matching label (all labels if label == "").
	*/
	Out(state QueryState, label string) []Hop
}

/*
resolveViewName returns viewDesc, or hgconfig.DefaultViewName if viewDesc
is empty - the edge carries no explicit view.
*/
func resolveViewName(viewDesc string) string {
	if viewDesc == "" {
		return hgconfig.DefaultViewName
	}
	return viewDesc
}

/*
allowed reports whether hopping to label from state is permitted by
state's accumulated restrictions, per package restrict's glob matcher.
*/
func allowed(state QueryState, label string) bool {
	return restrict.Match(pathLabels(state.withHop(label)), state.Restrictions)
}

func pathLabels(s QueryState) []string {
	return s.Path
}
