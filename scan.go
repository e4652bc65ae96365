package spadeploy

import (
	"io/fs"
	"path/filepath"

	"github.com/pkg/errors"
)

// Scanner enumerates the files of a built web app.
type Scanner struct {
	Messages Messages

	// ListFiles reports every discovered file as an info.
	ListFiles bool
}

// Scan walks appDir recursively and returns its files in walk order, each
// path joined onto appDir. A symlinked appDir is followed. A walk failure
// returns no files and a single error; a walk that finds no top-level
// index.html returns the files and an error.
func (s *Scanner) Scan(appDir string) ([]string, Diagnostics) {
	var (
		diag  Diagnostics
		files []string
	)

	root, err := filepath.EvalSymlinks(appDir)
	if err != nil {
		diag.Error(err.Error())
		return nil, diag
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			if !d.IsDir() {
				return errors.Errorf("%s: not a directory", appDir)
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.Join(appDir, rel))
		return nil
	})
	if err != nil {
		diag.Error(err.Error())
		return nil, diag
	}

	index := filepath.Join(appDir, IndexHTML)
	found := false
	for _, f := range files {
		if f == index {
			found = true
			break
		}
	}
	if !found {
		diag.Error(s.Messages.MissingIndexHTML)
	}

	if s.ListFiles {
		diag.Info(files...)
	}
	return files, diag
}
