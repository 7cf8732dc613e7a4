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
Package hgerr contains the error taxonomy used throughout HyperGraphDB.

Read and traversal failures reach the caller as one of the typed structs
in this package, with the low-level failure from the underlying
corestore/log kept as Cause. The write path (the core store's put/putAll)
returns errors from the corestore and codecs as they are, and a view
lookup by an unknown name returns a plain error.

Per-hop failures

EdgeTraversingError and VertexLoadingError are attached to the specific
query result they occurred on; a failure on one edge of a vertex never
aborts traversal of its siblings (see the query package). Only write
failures (WritePermissionError and errors from the core store's put/putAll)
abort the enclosing operation.
*/
package hgerr

import (
	"fmt"
)

/*
VertexLoadingError is returned when a vertex could not be read from its
feed - the underlying transaction.get failed or returned nothing for the
given id.
*/
type VertexLoadingError struct {
	Feed    string // Hex-encoded feed key
	ID      uint64 // Vertex id which could not be loaded
	Version uint64 // Feed length the read was pinned to (0 if unpinned); a read through an open transaction reports that transaction's length
	Cause   error  // Underlying error, if any
}

/*
Error returns a human-readable string representation of this error.
*/
func (e *VertexLoadingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("hgerr: could not load vertex %v@%v (version=%v): %v",
			e.Feed, e.ID, e.Version, e.Cause)
	}
	return fmt.Sprintf("hgerr: could not load vertex %v@%v (version=%v)",
		e.Feed, e.ID, e.Version)
}

/*
Unwrap returns the underlying cause so errors.Is/As keep working across
the wrap.
*/
func (e *VertexLoadingError) Unwrap() error {
	return e.Cause
}

/*
VertexDecodingError is returned when a vertex's binary envelope could not
be parsed or its codec rejected the decoded bytes.
*/
type VertexDecodingError struct {
	Feed  string // Hex-encoded feed key
	ID    uint64 // Vertex id whose envelope failed to decode
	Cause error  // Underlying decode error
}

/*
Error returns a human-readable string representation of this error.
*/
func (e *VertexDecodingError) Error() string {
	return fmt.Sprintf("hgerr: could not decode vertex %v@%v: %v", e.Feed, e.ID, e.Cause)
}

/*
Unwrap returns the underlying cause.
*/
func (e *VertexDecodingError) Unwrap() error {
	return e.Cause
}

/*
EdgeRef identifies the source endpoint of a failed hop for
EdgeTraversingError - kept separate from vertex.Edge so this package does
not need to import vertex.
*/
type EdgeRef struct {
	Feed string // Hex-encoded feed key of the source vertex
	ID   uint64 // Id of the source vertex
}

/*
EdgeTraversingError is returned when a single hop of a traversal failed -
an unresolvable edge, a failed view lookup, or a decode error downstream.
Its ViewHint carries only the first two hex characters of the target
feed key; Source names the full source feed key, and Cause (included in
Error()) may name the full target feed key.
*/
type EdgeTraversingError struct {
	Source   EdgeRef // Vertex the failed edge originated from
	Label    string  // Label of the failed edge
	ViewHint string  // First two hex characters of the target feed key, if any
	Cause    error   // Underlying error
}

/*
Error returns a human-readable string representation of this error.
*/
func (e *EdgeTraversingError) Error() string {
	return fmt.Sprintf("hgerr: edge %q from %v@%v failed (feed hint %q): %v",
		e.Label, e.Source.Feed, e.Source.ID, e.ViewHint, e.Cause)
}

/*
Unwrap returns the underlying cause.
*/
func (e *EdgeTraversingError) Unwrap() error {
	return e.Cause
}

/*
WritePermissionError is returned when a mutation is attempted against a
feed which is not locally writable.
*/
type WritePermissionError struct {
	Feed string // Hex-encoded feed key
	Op   string // Operation which was attempted, e.g. "put" or "putAll"
}

/*
Error returns a human-readable string representation of this error.
*/
func (e *WritePermissionError) Error() string {
	return fmt.Sprintf("hgerr: %v: feed %v is not writeable", e.Op, e.Feed)
}

/*
IndexNotFoundError is returned when a query or lookup names an index rule
which was never registered with the crawler.
*/
type IndexNotFoundError struct {
	Name string // Requested index name
}

/*
Error returns a human-readable string representation of this error.
*/
func (e *IndexNotFoundError) Error() string {
	return fmt.Sprintf("hgerr: unknown index %q", e.Name)
}

/*
InputError is returned for malformed arguments - a path materialization
root that is not writeable, or a feed key that is not valid hex.
*/
type InputError struct {
	Detail string // Human-readable detail
}

/*
Error returns a human-readable string representation of this error.
*/
func (e *InputError) Error() string {
	return fmt.Sprintf("hgerr: invalid input: %v", e.Detail)
}

/*
HexHint returns the first two hex characters of a feed key, or "" if the
key is empty. Used to build sanitized ViewHint values without leaking the
full key into logs or errors.
*/
func HexHint(hexFeed string) string {
	if len(hexFeed) < 2 {
		return hexFeed
	}
	return hexFeed[:2]
}
