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
Package hglog provides scoped loggers for the HyperGraphDB components,
built on top of github.com/krotik/common/logutil.

Each component fetches its own scoped logger once at construction time:

	log := hglog.Get("core")
	log.Debug("put vertex ", feed, "@", id)
*/
package hglog

import "github.com/krotik/common/logutil"

/*
Get returns the logger for a given component scope, e.g. "core", "crawler",
"view".
*/
func Get(scope string) logutil.Logger {
	return logutil.GetLogger("hypergraphdb." + scope)
}
