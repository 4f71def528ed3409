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


package core

import (
	"fmt"
	"strings"
)

func ValidatePage(page *Page) error {
	if page == nil {
		return fmt.Errorf("%w: page is nil", ErrInvalidPage)
	}

	if page.URL == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPage, ErrEmptyURL)
	}

	if page.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPage, ErrEmptyTitle)
	}

	if err := ValidateLevel(page.Level); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPage, err)
	}

	return nil
}

// ValidateLevel checks that a level path has no empty segments.
// The root level "" is valid.
func ValidateLevel(level string) error {
	if level == "" {
		return nil
	}
	for _, segment := range strings.Split(level, LevelSeparator) {
		if segment == "" {
			return fmt.Errorf("%w: %q has an empty segment", ErrInvalidLevel, level)
		}
	}
	return nil
}
