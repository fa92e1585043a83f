package config

import (
	"os"
	"strings"
	"unicode"
)

// SnapshotExt is extension given to snapshots named after their project.
const SnapshotExt = ".arcrun"

// CleanFileName turns arbitrary project name into something usable as file
// name on the current platform.
func CleanFileName(in string) string {
	out := strings.Map(func(sym rune) rune {
		if unicode.IsControl(sym) || strings.ContainsRune(reservedNameChars+string(os.PathSeparator)+string(os.PathListSeparator), sym) {
			return -1
		}
		return sym
	}, in)
	out = strings.TrimSpace(strings.TrimLeft(out, ". "))
	if len(out) == 0 {
		out = "untitled"
	}
	return out
}
