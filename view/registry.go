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
	"fmt"
	"sort"
	"sync"

	"github.com/krotik/hypergraphdb/core"
	"github.com/krotik/hypergraphdb/txcache"
)

/*
Registry maps view names to the Views registered for one query, sharing a
single txcache.Cache across all of them - the "view factory" spec.md §4.E
describes, modeled on EliasDB's graph rule registry (one map, one mutex,
register-then-read).
*/
type Registry struct {
	mutex sync.RWMutex
	views map[string]View
}

/*
NewRegistry creates a Registry with the two built-in views registered
under their default names, both sharing core and cache.
*/
func NewRegistry(core *core.Manager, cache *txcache.Cache) *Registry {
	r := &Registry{views: make(map[string]View)}

	gv := &GraphView{core: core, cache: cache, registry: r}
	sv := &StaticView{core: core, cache: cache}

	r.Register(gv)
	r.Register(sv)

	return r
}

/*
Register adds or replaces a view under its own Name().
*/
func (r *Registry) Register(v View) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.views[v.Name()] = v
}

/*
Resolve returns the view registered under name, or an error if none is.
*/
func (r *Registry) Resolve(name string) (View, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	v, ok := r.views[name]
	if !ok {
		return nil, fmt.Errorf("view: unknown view %q", name)
	}
	return v, nil
}

/*
Names returns every registered view name, sorted.
*/
func (r *Registry) Names() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	names := make([]string, 0, len(r.views))
	for n := range r.views {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
