package recipe

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// resolvePath expands a rigfile path into the concrete list of .hcl files to
// parse. A file path yields itself; a directory is walked recursively. The
// result is sorted so merged output is deterministic.
func resolvePath(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("rigfile path %s: %w", path, err)
	}

	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// Hidden directories are skipped so editor and VCS metadata
			// never leak into the recipe set.
			if p != path && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), ".hcl") {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning rigfile directory %s: %w", path, err)
	}

	sort.Strings(files)
	return files, nil
}
