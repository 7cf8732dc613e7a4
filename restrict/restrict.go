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
Package restrict implements the path-glob matcher views consult before
emitting an edge whose source state carries restrictions (spec.md §4.F,
§9). A restriction is purely data - a slash-separated glob pattern plus
an include/exclude flag - this package is the only place that interprets
it.

Pattern syntax is deliberately small: "*" matches exactly one path
segment, "**" matches any number of segments (including zero), and any
other segment must match literally. There is no escaping and no
mid-segment wildcard, matching the "keep purely data" design note in
spec.md §9.
*/
package restrict

import "github.com/krotik/hypergraphdb/vertex"

/*
Match reports whether pathSoFar - the sequence of edge labels followed to
reach the current state, in order - is allowed by rules.

Rules are evaluated in order; the last rule whose pattern matches decides
the outcome (an exclude rule can be overridden by a later, more specific
include rule, and vice versa), mirroring how include/exclude filter lists
are usually layered. A path with no matching rule at all is allowed by
default - restrictions only narrow traversal when they actually match.
*/
func Match(pathSoFar []string, rules []vertex.Restriction) bool {
	allowed := true

	for _, rule := range rules {
		if matchPattern(rule.Pattern, pathSoFar) {
			allowed = !rule.Exclude
		}
	}

	return allowed
}

/*
matchPattern reports whether a single slash-separated glob pattern
matches path, a sequence of segments.
*/
func matchPattern(pattern string, path []string) bool {
	return matchSegments(splitPattern(pattern), path)
}

func matchSegments(pattern, path []string) bool {
	if len(pattern) == 0 {
		return len(path) == 0
	}

	head := pattern[0]

	if head == "**" {
		if matchSegments(pattern[1:], path) {
			return true
		}
		if len(path) == 0 {
			return false
		}
		return matchSegments(pattern, path[1:])
	}

	if len(path) == 0 {
		return false
	}
	if head != "*" && head != path[0] {
		return false
	}

	return matchSegments(pattern[1:], path[1:])
}

/*
splitPattern splits a glob pattern on "/", dropping empty segments
produced by leading/trailing/doubled slashes - the same normalization
the path materialization operation applies to its input (spec.md §4.H).
*/
func splitPattern(pattern string) []string {
	var parts []string
	start := 0
	for i := 0; i <= len(pattern); i++ {
		if i == len(pattern) || pattern[i] == '/' {
			if i > start {
				parts = append(parts, pattern[start:i])
			}
			start = i + 1
		}
	}
	return parts
}
