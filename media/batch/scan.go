package batch

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/leeforge/photoconv/media/processor"
)

// Scan lists the regular files in dir with a supported extension, sorted by
// name. Symlinks are followed; sub directories are not entered.
func Scan(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if !processor.IsSupported(entry.Name()) {
			continue
		}
		info, err := os.Stat(filepath.Join(dir, entry.Name()))
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		names = append(names, entry.Name())
	}

	sort.Strings(names)
	return names, nil
}
