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


// Package search provides a reference implementation of the search service
// the session controller queries.
//
// The Searcher answers queries from the pages of a pre-built index held in a
// storage.PageRepository. A page matches when its title or body contains every
// query word after stop-word filtering. Pages whose title matches come first;
// otherwise the order of the index file is kept. Each result set carries the
// level titles of the whole index so the ranker can label its groups.
//
// Relevance scoring, stemming and index construction are out of scope: the
// index is loaded as-is by the ingestion package.
package search
