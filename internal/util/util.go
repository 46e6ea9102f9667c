// internal/util/util.go
package util

import (
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// WriteFile writes data to a file with 0o644 permissions.
func WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}

// EnsureParentDir creates the directory that will hold path, if any.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// ReplaceExt swaps the extension of path for ext. A path without an
// extension gets ext appended. If path already carries ext, the stem is
// suffixed so the result never equals path.
func ReplaceExt(path, ext string) string {
	current := filepath.Ext(path)
	if strings.EqualFold(current, ext) {
		return strings.TrimSuffix(path, current) + ".summary" + ext
	}
	return strings.TrimSuffix(path, current) + ext
}

// TruncateRunes truncates a string to a maximum number of runes,
// appending an ellipsis if truncated.
func TruncateRunes(text string, maxRunes int) string {
	if utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxRunes]) + "…"
}

// TruncateLeft keeps the last maxRunes runes of text, prefixing an ellipsis
// if anything was cut. Useful for file paths where the tail matters.
func TruncateLeft(text string, maxRunes int) string {
	if maxRunes <= 0 || utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	runes := []rune(text)
	return "…" + string(runes[len(runes)-maxRunes:])
}
