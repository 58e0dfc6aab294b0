// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package validation provides input validation utilities for user-provided
// values that end up as storage keys. Validating here prevents key injection
// and path-traversal style names from reaching the snapshot store.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// snapshotNamePattern matches valid snapshot names.
// Allows: letters, digits, then dots, underscores and hyphens.
// Max length: 64 characters.
var snapshotNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,63}$`)

// ValidateSnapshotName validates a user-supplied snapshot name before it is
// used as a storage key.
//
// Valid names:
//   - 1-64 characters
//   - start with a letter or digit
//   - contain only letters, digits, dots, underscores, hyphens
//
// Returns an error if the name is invalid.
func ValidateSnapshotName(name string) error {
	if name == "" {
		return fmt.Errorf("snapshot name cannot be empty")
	}
	if !snapshotNamePattern.MatchString(name) {
		return fmt.Errorf("invalid snapshot name: %q (must be 1-64 alphanumeric chars, dots, underscores, or hyphens, starting with an alphanumeric)", name)
	}
	return nil
}

// SanitizeSnapshotName trims whitespace and validates the result. Returns
// the cleaned name if valid, or an error.
func SanitizeSnapshotName(name string) (string, error) {
	cleaned := strings.TrimSpace(name)
	if err := ValidateSnapshotName(cleaned); err != nil {
		return "", err
	}
	return cleaned, nil
}
