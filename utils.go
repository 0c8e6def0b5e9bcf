package workspaced

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

// IsUUID reports whether s is a 36 character hyphenated UUID, the form API
// keys and secrets take.
func IsUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// NewCredential generates a random API key or secret.
func NewCredential() string {
	return uuid.NewString()
}

// IsValidResourceName validates a workspace sub-resource name such as an image file.
// It checks that the name:
//   - is not empty, "." or ".."
//   - is a single segment (no "/" or "\")
//   - does not contain "..", "?", "#" or "~"
//   - is valid UTF-8
//   - does not contain null bytes, control characters, DEL or whitespace
func IsValidResourceName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}

	if strings.ContainsAny(name, `/\?#~`) {
		return false
	}

	if strings.Contains(name, "..") {
		return false
	}

	if !utf8.ValidString(name) {
		return false
	}

	for _, r := range name {
		if r == 0 || r < 0x20 || r == 0x7f || unicode.IsSpace(r) {
			return false
		}
	}

	return true
}
