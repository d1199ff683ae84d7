package computation

import (
	"os"
	"path/filepath"
)

// GetModuleRoot walks up from the working directory to the nearest go.mod.
// Returns "" when none is found before the filesystem root.
func GetModuleRoot() string {
	cwd, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(cwd, "go.mod")); err == nil {
			return cwd
		}
		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}
	return ""
}
