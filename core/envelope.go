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
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"sort"

	"github.com/krotik/hypergraphdb/vertex"
)

/*
envelope is the decoded form of one record appended to a feed, per
spec.md §6. Two fields extend the literal wire table there:

  - prevID links a revision to the id it supersedes, which spec.md §3's
    invariants require ("the binary preamble links to the prior id") but
    the §6 table does not spell out. 0 means "no prior revision".
  - each edge carries its own version field (pinned feed length), since
    spec.md's data model gives edges a Version but the example table
    omits it from the encoded edge sub-envelope. This implementation
    honors edge.version (see spec.md §9's open question), so it must be
    able to round-trip it.

Both extensions are purely additive: a reader that only needs the fields
spec.md's table lists can skip them without difficulty, and
encode(decode(b)) == b holds for every envelope this package produces.
*/
type envelope struct {
	timestamp uint64
	prevID    uint64
	codecTag  string
	content   []byte
	edges     []vertex.Edge
}

func encodeEnvelope(e envelope) []byte {
	var buf bytes.Buffer

	putUvarint(&buf, e.timestamp)
	putUvarint(&buf, e.prevID)
	putString(&buf, e.codecTag)
	putBytes(&buf, e.content)

	putUvarint(&buf, uint64(len(e.edges)))
	for _, edge := range e.edges {
		putString(&buf, edge.Label)
		putUvarint(&buf, edge.Ref)
		putBytes(&buf, []byte(edge.Feed))
		putString(&buf, edge.View)
		putUvarint(&buf, edge.Version)

		putUvarint(&buf, uint64(len(edge.Metadata)))
		mdKeys := make([]string, 0, len(edge.Metadata))
		for k := range edge.Metadata {
			mdKeys = append(mdKeys, k)
		}
		sort.Strings(mdKeys)
		for _, k := range mdKeys {
			putString(&buf, k)
			putBytes(&buf, edge.Metadata[k])
		}

		putUvarint(&buf, uint64(len(edge.Restrictions)))
		for _, r := range edge.Restrictions {
			putString(&buf, r.Pattern)
			if r.Exclude {
				buf.WriteByte(1)
			} else {
				buf.WriteByte(0)
			}
		}
	}

	return buf.Bytes()
}

func decodeEnvelope(body []byte) (envelope, error) {
	r := bytes.NewReader(body)
	var e envelope
	var err error

	if e.timestamp, err = getUvarint(r); err != nil {
		return e, fmt.Errorf("core: truncated envelope (timestamp): %w", err)
	}
	if e.prevID, err = getUvarint(r); err != nil {
		return e, fmt.Errorf("core: truncated envelope (prevID): %w", err)
	}
	if e.codecTag, err = getString(r); err != nil {
		return e, fmt.Errorf("core: truncated envelope (codecTag): %w", err)
	}
	if e.content, err = getBytes(r); err != nil {
		return e, fmt.Errorf("core: truncated envelope (content): %w", err)
	}

	edgeCount, err := getUvarint(r)
	if err != nil {
		return e, fmt.Errorf("core: truncated envelope (edgeCount): %w", err)
	}

	e.edges = make([]vertex.Edge, 0, edgeCount)
	for i := uint64(0); i < edgeCount; i++ {
		var edge vertex.Edge

		if edge.Label, err = getString(r); err != nil {
			return e, fmt.Errorf("core: truncated envelope (edge label): %w", err)
		}
		if edge.Ref, err = getUvarint(r); err != nil {
			return e, fmt.Errorf("core: truncated envelope (edge ref): %w", err)
		}

		feedBytes, err := getBytes(r)
		if err != nil {
			return e, fmt.Errorf("core: truncated envelope (edge feed): %w", err)
		}
		edge.Feed = string(feedBytes)

		if edge.View, err = getString(r); err != nil {
			return e, fmt.Errorf("core: truncated envelope (edge view): %w", err)
		}
		if edge.Version, err = getUvarint(r); err != nil {
			return e, fmt.Errorf("core: truncated envelope (edge version): %w", err)
		}

		mdCount, err := getUvarint(r)
		if err != nil {
			return e, fmt.Errorf("core: truncated envelope (edge metadata count): %w", err)
		}
		if mdCount > 0 {
			edge.Metadata = make(map[string][]byte, mdCount)
			for j := uint64(0); j < mdCount; j++ {
				k, err := getString(r)
				if err != nil {
					return e, fmt.Errorf("core: truncated envelope (edge metadata key): %w", err)
				}
				v, err := getBytes(r)
				if err != nil {
					return e, fmt.Errorf("core: truncated envelope (edge metadata val): %w", err)
				}
				edge.Metadata[k] = v
			}
		}

		restrCount, err := getUvarint(r)
		if err != nil {
			return e, fmt.Errorf("core: truncated envelope (edge restriction count): %w", err)
		}
		if restrCount > 0 {
			edge.Restrictions = make([]vertex.Restriction, 0, restrCount)
			for j := uint64(0); j < restrCount; j++ {
				pattern, err := getString(r)
				if err != nil {
					return e, fmt.Errorf("core: truncated envelope (restriction pattern): %w", err)
				}
				excl, err := r.ReadByte()
				if err != nil {
					return e, fmt.Errorf("core: truncated envelope (restriction exclude): %w", err)
				}
				edge.Restrictions = append(edge.Restrictions, vertex.Restriction{
					Pattern: pattern,
					Exclude: excl != 0,
				})
			}
		}

		e.edges = append(e.edges, edge)
	}

	return e, nil
}

func putUvarint(buf *bytes.Buffer, v uint64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	buf.Write(tmp[:n])
}

func putBytes(buf *bytes.Buffer, b []byte) {
	putUvarint(buf, uint64(len(b)))
	buf.Write(b)
}

func putString(buf *bytes.Buffer, s string) {
	putBytes(buf, []byte(s))
}

func getUvarint(r *bytes.Reader) (uint64, error) {
	return binary.ReadUvarint(r)
}

func getBytes(r *bytes.Reader) ([]byte, error) {
	n, err := getUvarint(r)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}

	out := make([]byte, n)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, err
	}
	return out, nil
}

func getString(r *bytes.Reader) (string, error) {
	b, err := getBytes(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
