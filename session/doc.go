// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package session drives the search panel of a book reader.
//
// A Controller owns the Query State for one reader. Input events move it
// between the Closed, Loading, OpenWithResults, OpenNoResults and OpenFailed
// states; queries are throttled, run against a SearchService on a worker
// pool, ranked by proximity to the reader's location and handed to the
// page's View as render instructions. The query is mirrored to the "q"
// parameter of the page address so a reload or shared link replays it.
//
// Basic usage:
//
//	ctrl, err := session.NewController(searcher, address, page,
//	    session.WithConfig(session.DefaultConfig()),
//	)
//	if err != nil {
//	    return err
//	}
//	defer ctrl.Release()
//
//	bus := session.NewBus()
//	ctrl.Attach(bus)
//
//	ctrl.Input("install")
//	ctrl.Blur()
//
// Responses that arrive after the query was superseded, the panel was closed
// or the controller was rebound to another page are discarded.
package session
