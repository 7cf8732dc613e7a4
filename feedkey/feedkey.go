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
Package feedkey renders feed keys as the lowercase hex strings used in
every cross-feed identifier (spec.md §3), and parses them back.
*/
package feedkey

import "encoding/hex"

/*
Hex renders a feed key as lowercase hex.
*/
func Hex(key []byte) string {
	return hex.EncodeToString(key)
}

/*
Bytes parses a lowercase hex feed key back into bytes.
*/
func Bytes(h string) ([]byte, error) {
	return hex.DecodeString(h)
}
