//go:build !baremetal

package hal

import (
	"os"
	"path/filepath"
	"strings"
)

const hostDataDirDefault = "."

// dirStorage maps device paths onto a directory of the host filesystem.
type dirStorage struct {
	root string
}

func newDirStorage() *dirStorage {
	root := os.Getenv("BEACON_DATA_DIR")
	if root == "" {
		root = hostDataDirDefault
	}
	return &dirStorage{root: root}
}

func (s *dirStorage) ReadFile(name string) ([]byte, error) {
	rel := filepath.FromSlash(strings.TrimPrefix(name, "/"))
	return os.ReadFile(filepath.Join(s.root, rel))
}
