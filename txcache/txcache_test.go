/*
 * HyperGraphDB
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package txcache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/krotik/hypergraphdb/logstore"
)

func TestGetOrOpenCoalescesSameKey(t *testing.T) {
	cs := logstore.NewMemoryCorestore()
	key := cs.DefaultFeed().Key()

	c := New(cs)

	var wg sync.WaitGroup
	txs := make([]logstore.Transaction, 8)
	for i := 0; i < 8; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			tx, err := c.GetOrOpen(key, 0)
			require.NoError(t, err)
			txs[i] = tx
		}()
	}
	wg.Wait()

	for i := 1; i < len(txs); i++ {
		require.Same(t, txs[0], txs[i])
	}
}

func TestGetOrOpenDistinctFeedsDistinctTransactions(t *testing.T) {
	cs := logstore.NewMemoryCorestore()
	otherKey := cs.CreateFeed().Key()

	c := New(cs)

	tx1, err := c.GetOrOpen(cs.DefaultFeed().Key(), 0)
	require.NoError(t, err)
	tx2, err := c.GetOrOpen(otherKey, 0)
	require.NoError(t, err)

	require.NotSame(t, tx1, tx2)
}

func TestCloseReleasesAllOpenedTransactions(t *testing.T) {
	cs := logstore.NewMemoryCorestore()
	c := New(cs)

	_, err := c.GetOrOpen(cs.DefaultFeed().Key(), 0)
	require.NoError(t, err)

	require.NoError(t, c.Close())
	require.NoError(t, c.Close(), "Close must be safe to call twice")
}
