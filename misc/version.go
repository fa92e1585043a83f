// Package misc holds build time information.
package misc

import (
	"os"
	"path/filepath"
	"strings"
)

// Set with -ldflags "-X arcrun/misc.version=... -X arcrun/misc.gitHash=..."
var (
	version = "dev"
	gitHash = "unknown"
)

// GetVersion returns program version.
func GetVersion() string {
	return version
}

// GetGitHash returns commit hash program was built from.
func GetGitHash() string {
	return gitHash
}

// GetAppName returns name of the running executable without extension.
func GetAppName() string {
	name := filepath.Base(os.Args[0])
	if name == "" || name == "." {
		return "arcrun"
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}
