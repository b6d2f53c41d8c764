package source

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
)

// LocalSource walks a directory of breakdown files (JSON exports, usually a
// drop folder synced from the production office) and streams their paths.
type LocalSource struct {
	RootPath   string
	Extensions []string
}

func NewLocalSource(root string, exts ...string) *LocalSource {
	if len(exts) == 0 {
		exts = []string{".json"}
	}
	return &LocalSource{
		RootPath:   root,
		Extensions: exts,
	}
}

func (l *LocalSource) Stream(ctx context.Context) (<-chan string, error) {
	out := make(chan string)

	go func() {
		defer close(out)

		_ = filepath.WalkDir(l.RootPath, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}

			ext := strings.ToLower(filepath.Ext(path))
			match := false
			for _, validExt := range l.Extensions {
				if ext == validExt {
					match = true
					break
				}
			}
			if !match {
				return nil
			}

			select {
			case out <- path:
			case <-ctx.Done():
				return filepath.SkipAll
			}
			return nil
		})
	}()

	return out, nil
}
