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
Package query implements the lazy traversal engine (spec.md §4.F): a
stream of view.Result values with combinators (Out, Repeat, Matches) that
are not evaluated until a terminal (Values, Vertices, Generator) pulls on
them.

The pull model mirrors EliasDB's NodeKeyIterator: every Query exposes a
Next that returns (result, ok) rather than a materialized slice, so a
long traversal never buffers more than the current frontier in memory.
*/
package query

import (
	"github.com/krotik/hypergraphdb/vertex"
	"github.com/krotik/hypergraphdb/view"
)

/*
Query is a lazy stream of view.Result, bound to the view used to resolve
Out(). The zero value is not usable; use New or a combinator's return
value.
*/
type Query struct {
	v    view.View
	next func() (view.Result, bool)
}

/*
New creates a Query streaming the given starting results, in order,
interpreted through v. Seed results typically come from a single root
vertex wrapped in a view.Result with an empty path.
*/
func New(v view.View, seed []view.Result) *Query {
	i := 0
	return &Query{
		v: v,
		next: func() (view.Result, bool) {
			if i >= len(seed) {
				return view.Result{}, false
			}
			r := seed[i]
			i++
			return r, true
		},
	}
}

/*
Next pulls the next result from the stream. ok is false once the stream
is exhausted; Next returns (zero, false) on every subsequent call.
*/
func (q *Query) Next() (view.Result, bool) {
	if q.next == nil {
		return view.Result{}, false
	}
	r, ok := q.next()
	if !ok {
		q.next = nil
	}
	return r, ok
}

/*
Out applies q's view's Out(state, label) to every input result in turn
and flattens the hops into one output stream: within one input result's
hops, order equals the source vertex's edge insertion order; across input
results, order equals the input stream's order (spec.md §4.F). A result
whose own Err is already set passes through unexpanded - a vertex that
failed to load has no edges to follow.
*/
func (q *Query) Out(label string) *Query {
	v := q.v
	var pending []view.Hop

	nq := &Query{v: v}
	nq.next = func() (view.Result, bool) {
		for {
			if len(pending) > 0 {
				hop := pending[0]
				pending = pending[1:]
				return hop(), true
			}

			r, ok := q.Next()
			if !ok {
				return view.Result{}, false
			}
			if r.Err != nil {
				return r, true
			}

			pending = v.Out(r.State, label)
		}
	}

	return nq
}

/*
Matches filters the stream by pred. A result whose Err is set always
passes through regardless of pred, so failures surface to the caller
rather than being silently dropped.
*/
func (q *Query) Matches(pred func(view.Result) bool) *Query {
	nq := &Query{v: q.v}
	nq.next = func() (view.Result, bool) {
		for {
			r, ok := q.Next()
			if !ok {
				return view.Result{}, false
			}
			if r.Err != nil || pred(r) {
				return r, true
			}
		}
	}
	return nq
}

/*
Values is a terminal: it drains the stream and applies selector to every
result, in stream order, including results whose Err is set - selector
decides what to do with a failed hop.
*/
func (q *Query) Values(selector func(view.Result) interface{}) []interface{} {
	var out []interface{}
	for {
		r, ok := q.Next()
		if !ok {
			break
		}
		out = append(out, selector(r))
	}
	return out
}

/*
Vertices is a terminal: it drains the stream, splitting it into the
successfully loaded vertices and the errors encountered along the way.
*/
func (q *Query) Vertices() ([]*vertex.Vertex, []error) {
	var vs []*vertex.Vertex
	var errs []error
	for {
		r, ok := q.Next()
		if !ok {
			break
		}
		if r.Err != nil {
			errs = append(errs, r.Err)
			continue
		}
		vs = append(vs, r.Vertex)
	}
	return vs, errs
}

/*
Generator is a terminal: it returns the stream's pull function directly,
for a caller that wants to drive iteration itself instead of materializing
everything up front.
*/
func (q *Query) Generator() func() (view.Result, bool) {
	return q.Next
}
