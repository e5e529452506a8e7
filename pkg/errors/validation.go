package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateDashboardTitle validates a user-supplied dashboard title.
//
// The validation rules are intentionally conservative:
//   - No empty titles
//   - No control characters
//   - Maximum length of 256 characters
func ValidateDashboardTitle(title string) error {
	if title == "" {
		return New(ErrCodeInvalidDashboard, "dashboard title cannot be empty")
	}

	if len(title) > 256 {
		return New(ErrCodeInvalidDashboard, "dashboard title too long (max 256 characters)")
	}

	for _, r := range title {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidDashboard, "dashboard title contains invalid control characters")
		}
	}

	return nil
}

// widgetIDRegex matches the identifiers the layout engine tracks widgets
// by: UUIDs and other URL-safe slugs.
var widgetIDRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// ValidateWidgetID validates a widget identifier. IDs appear in URLs and
// as file-store keys, so path separators and traversal sequences are
// rejected outright.
func ValidateWidgetID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidWidget, "widget ID cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidWidget, "widget ID too long (max 128 characters)")
	}

	if !widgetIDRegex.MatchString(id) {
		return New(ErrCodeInvalidWidget, "invalid widget ID: %q", id)
	}

	return nil
}

// breakpointNameRegex matches breakpoint profile names: short lowercase
// slugs like "wide" or "ultra-wide".
var breakpointNameRegex = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// ValidateBreakpointName validates a breakpoint profile name.
func ValidateBreakpointName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidBreakpoint, "breakpoint name cannot be empty")
	}

	if len(name) > 32 {
		return New(ErrCodeInvalidBreakpoint, "breakpoint name too long (max 32 characters)")
	}

	if !breakpointNameRegex.MatchString(name) {
		return New(ErrCodeInvalidBreakpoint, "invalid breakpoint name: %q", name)
	}

	return nil
}

// ValidatePath validates a file path within the data directory for safety.
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

	// Check for null bytes and control characters
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	// Must not be absolute path
	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	// Check for path traversal
	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	// No backslashes (potential Windows path injection)
	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// ValidateURL validates a URL string for safety. Bookmark and widget
// targets must use a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
