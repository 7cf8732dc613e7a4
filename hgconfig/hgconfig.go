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
Package hgconfig names the tunables shared by the core store, the views
and the crawler. It is deliberately a bag of constants/vars rather than a
loader - parsing these from a config file or environment is the job of
the (out of scope) public factory wrapper.
*/
package hgconfig

/*
DefaultCodecTag is the codec tag used for vertex content when a vertex is
created without an explicit codec.
*/
var DefaultCodecTag = "map"

/*
MaxRecursionDepth is the default recursion budget for a crawl when the
caller does not specify one explicitly.
*/
var MaxRecursionDepth = 10000

/*
MaxRepeatDepth is the default depth cap for the query engine's repeat()
operator when the caller passes no explicit max.
*/
var MaxRepeatDepth = 1000

/*
DefaultViewName is the name every vertex/edge resolves to when no
edge.view is set.
*/
var DefaultViewName = "graph"
