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


// Package rank orders search results by how close they are to the reader.
//
// Closeness is measured against the hierarchy chain of the reader's current
// location: the location path itself, then each ancestor, then the root.
// A result's weight is the index of the first chain entry its level contains,
// so results inside the current page weigh 0 and results elsewhere in the
// book weigh the chain length minus one.
//
// The ranker groups equally weighted results under a header titled after the
// chain entry they matched and emits plain render entries; it never touches
// a rendering surface.
package rank
