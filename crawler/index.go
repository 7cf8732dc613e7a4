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
	"strings"
	"sync"

	"github.com/krotik/common/stringutil"
)

/*
FoldKey case-folds a string index key the way EliasDB's word index folds
lookup terms, so an IndexRule.Extract built on free-text content does not
need to roll its own normalization. Keys that are not plain
alphanumeric/underscore text (e.g. already-structured keys like
"2026-08-06") are returned unchanged - folding only applies to the kind
of word key stringutil.IsAlphaNumeric recognizes.
*/
func FoldKey(key string) string {
	if !stringutil.IsAlphaNumeric(strings.ReplaceAll(key, " ", "_")) {
		return key
	}
	return strings.ToLower(key)
}

/*
Hit identifies one vertex an index entry points at.
*/
type Hit struct {
	Feed string
	ID   uint64
}

/*
Index is one rule's in-memory inverted index: key -> ordered list of
hits, insertion order preserved within a key (spec.md §4.G). Mutation is
serialized with lookup under the same mutex - the crawler is the single
writer, queries are concurrent readers.
*/
type Index struct {
	mutex   sync.Mutex
	entries map[string][]Hit
}

func newIndex() *Index {
	return &Index{entries: make(map[string][]Hit)}
}

func (ix *Index) insert(key string, hit Hit) {
	ix.mutex.Lock()
	defer ix.mutex.Unlock()
	ix.entries[key] = append(ix.entries[key], hit)
}

/*
Get returns the hits recorded under key, in insertion order. A copy is
returned so a caller cannot mutate the index through it.
*/
func (ix *Index) Get(key string) []Hit {
	ix.mutex.Lock()
	defer ix.mutex.Unlock()

	hits := ix.entries[key]
	out := make([]Hit, len(hits))
	copy(out, hits)
	return out
}

/*
Keys returns every key currently present in the index. Order is
unspecified.
*/
func (ix *Index) Keys() []string {
	ix.mutex.Lock()
	defer ix.mutex.Unlock()

	keys := make([]string, 0, len(ix.entries))
	for k := range ix.entries {
		keys = append(keys, k)
	}
	return keys
}
