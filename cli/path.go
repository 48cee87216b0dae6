package cli

import (
	"os"
	"path/filepath"

	"github.com/ardnew/mson/pkg"
)

// baseConfig is the base name of the configuration file and of the mapping
// read from it.
const baseConfig = "config"

var defaultDirMode os.FileMode = 0o700

// configPath joins elem to the configuration directory.
func configPath(elem ...string) string {
	return filepath.Join(append([]string{pkg.ConfigDir()}, elem...)...)
}

func mkdirAllRequired() error {
	for _, dir := range []string{pkg.ConfigDir(), pkg.CacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return err
		}
	}

	return nil
}
