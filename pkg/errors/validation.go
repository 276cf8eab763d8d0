package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateNodeTypeName validates a node type display name used as a registry key.
//
// Names are shown in menus and written into persisted graphs, so the rules are:
//   - No empty names
//   - No control characters or null bytes
//   - No leading or trailing whitespace
//   - Maximum length of 128 characters
func ValidateNodeTypeName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "node type name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "node type name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node type name contains invalid control characters")
		}
	}

	if strings.TrimSpace(name) != name {
		return New(ErrCodeInvalidInput, "node type name %q has surrounding whitespace", name)
	}

	return nil
}

// blockNameRegex matches identifiers usable as code block names.
var blockNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]*$`)

// ValidateBlockName validates a code block name.
func ValidateBlockName(name string) error {
	if !blockNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid block name: %q", name).WithBlock(name)
	}
	return nil
}

// ValidatePath validates a relative file path for safety.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
