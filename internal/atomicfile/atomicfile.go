// Package atomicfile replaces files through a temporary sibling and a rename
// so readers never observe a partial write.
package atomicfile

import (
	"os"
	"path/filepath"

	"github.com/samber/oops"
)

const dirPerm = 0o750

// WriteFile replaces path with data. Failures carry the given oops code.
func WriteFile(path string, data []byte, code string) error {
	dir := filepath.Dir(path)
	name := filepath.Base(path)

	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return oops.
			Code(code).
			With("path", dir).
			Wrapf(err, "creating directory")
	}

	tempFile, err := os.CreateTemp(dir, name+".*.tmp")
	if err != nil {
		return oops.
			Code(code).
			With("path", dir).
			Wrapf(err, "creating temporary file for %s", name)
	}

	tempPath := tempFile.Name()
	defer func() {
		_ = os.Remove(tempPath)
	}()

	if _, writeErr := tempFile.Write(data); writeErr != nil {
		_ = tempFile.Close()
		return oops.
			Code(code).
			With("path", tempPath).
			Wrapf(writeErr, "writing temporary file")
	}

	if closeErr := tempFile.Close(); closeErr != nil {
		return oops.
			Code(code).
			With("path", tempPath).
			Wrapf(closeErr, "closing temporary file")
	}

	if renameErr := os.Rename(tempPath, path); renameErr != nil {
		return oops.
			Code(code).
			With("from", tempPath).
			With("to", path).
			Wrapf(renameErr, "replacing %s", name)
	}

	return nil
}
