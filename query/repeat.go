/*
 * HyperGraphDB
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package query

import (
	"strconv"

	"github.com/krotik/hypergraphdb/hgconfig"
	"github.com/krotik/hypergraphdb/view"
)

/*
UntilFunc decides whether repetition should stop expanding a given
result further. depth is 0 for the seed results passed into Repeat.
*/
type UntilFunc func(r view.Result, depth int) bool

/*
RepeatOption customizes a Repeat call.
*/
type RepeatOption func(*repeatConfig)

type repeatConfig struct {
	until UntilFunc
	max   int
	dedup bool
}

/*
Until stops expanding a result once until returns true for it. The result
itself is still yielded; only its children are not explored.
*/
func Until(until UntilFunc) RepeatOption {
	return func(c *repeatConfig) { c.until = until }
}

/*
MaxDepth caps expansion at depth levels below the seed. Without it,
Repeat uses hgconfig.MaxRepeatDepth.
*/
func MaxDepth(max int) RepeatOption {
	return func(c *repeatConfig) { c.max = max }
}

/*
Dedup turns on the explicit "seen" set keyed by (feed, id) spec.md §4.F
offers: a result of action whose (feed, id) this Repeat has already
yielded or queued is dropped, so a vertex reached again - e.g. around a
cycle - is neither yielded nor expanded a second time.
*/
func Dedup() RepeatOption {
	return func(c *repeatConfig) { c.dedup = true }
}

/*
Repeat applies action repeatedly to the stream, BFS-like: every result is
yielded as soon as it is popped from the frontier, and - unless Until
says to stop or MaxDepth is reached - action's output is enqueued as the
next level. Within one level, order follows each parent's action output
order; across levels, order is breadth-first (spec.md §4.F).
*/
func (q *Query) Repeat(action func(*Query) *Query, opts ...RepeatOption) *Query {
	cfg := repeatConfig{max: hgconfig.MaxRepeatDepth}
	for _, opt := range opts {
		opt(&cfg)
	}

	type item struct {
		r     view.Result
		depth int
	}

	var queue []item
	seen := make(map[string]bool)
	seeded := false

	key := func(r view.Result) (string, bool) {
		if r.Vertex == nil {
			return "", false
		}
		return r.Vertex.GetFeed() + "@" + strconv.FormatUint(r.Vertex.GetID(), 10), true
	}

	v := q.v
	nq := &Query{v: v}
	nq.next = func() (view.Result, bool) {
		if !seeded {
			for {
				r, ok := q.Next()
				if !ok {
					break
				}
				queue = append(queue, item{r, 0})
			}
			seeded = true
		}

		for len(queue) > 0 {
			it := queue[0]
			queue = queue[1:]

			if it.r.Err != nil {
				return it.r, true
			}

			if cfg.dedup {
				if k, ok := key(it.r); ok {
					seen[k] = true
				}
			}

			stop := cfg.until != nil && cfg.until(it.r, it.depth)
			atMax := cfg.max >= 0 && it.depth >= cfg.max

			if !stop && !atMax {
				sub := New(v, []view.Result{it.r})
				children := action(sub)
				for {
					cr, ok := children.Next()
					if !ok {
						break
					}
					if cfg.dedup && cr.Err == nil {
						if k, ok := key(cr); ok {
							if seen[k] {
								continue
							}
							seen[k] = true
						}
					}
					queue = append(queue, item{cr, it.depth + 1})
				}
			}

			return it.r, true
		}

		return view.Result{}, false
	}

	return nq
}
