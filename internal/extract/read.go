package extract

import (
	"fmt"
	"os"
	"path/filepath"
)

// ReadFiles loads files from disk in the given order and resolves their
// media types. It does not validate the batch.
func ReadFiles(paths []string) ([]File, error) {
	files := make([]File, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		f := File{Name: filepath.Base(p), Data: data}
		f.MediaType = ResolveMediaType(f)
		files = append(files, f)
	}
	return files, nil
}
