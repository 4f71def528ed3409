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


package storage

import (
	"fmt"

	"github.com/poiesic/booksearch/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := core.IDMUS.Unmarshal(data)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return id, nil
}

// MarshalPage serializes a Page to bytes.
func MarshalPage(page *core.Page) []byte {
	buf := make([]byte, core.PageMUS.Size(*page))
	core.PageMUS.Marshal(*page, buf)
	return buf
}

// UnmarshalPage deserializes a Page from bytes.
func UnmarshalPage(data []byte) (*core.Page, error) {
	page, _, err := core.PageMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &page, nil
}

// MarshalLevelTitle serializes a LevelTitle to bytes.
func MarshalLevelTitle(level core.LevelTitle) []byte {
	buf := make([]byte, core.LevelTitleMUS.Size(level))
	core.LevelTitleMUS.Marshal(level, buf)
	return buf
}

// UnmarshalLevelTitle deserializes a LevelTitle from bytes.
func UnmarshalLevelTitle(data []byte) (core.LevelTitle, error) {
	level, _, err := core.LevelTitleMUS.Unmarshal(data)
	if err != nil {
		return core.LevelTitle{}, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return level, nil
}
