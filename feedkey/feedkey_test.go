/*
 * HyperGraphDB
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package feedkey

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHexBytesRoundTrip(t *testing.T) {
	key := []byte{0x01, 0xab, 0xff, 0x00}

	h := Hex(key)
	require.Equal(t, "01abff00", h)

	back, err := Bytes(h)
	require.NoError(t, err)
	require.Equal(t, key, back)
}

func TestBytesRejectsInvalidHex(t *testing.T) {
	_, err := Bytes("not-hex")
	require.Error(t, err)
}
