package utils

import (
	"os"

	"github.com/pkg/errors"
)

// FileExists reports whether a regular file exists at the provided path. A directory at the path
// does not count as an existing file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// MakeDirectory creates a directory at the given path, including any parent directories which do
// not exist. If the path already refers to a directory, nothing is done.
// Returns an error, if one occurred.
func MakeDirectory(dirToMake string) error {
	info, err := os.Stat(dirToMake)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.WithStack(os.MkdirAll(dirToMake, 0755))
		}
		return errors.WithStack(err)
	}

	// A file is occupying the requested path.
	if !info.IsDir() {
		return errors.Errorf("cannot create directory %q, a file with the same name exists", dirToMake)
	}
	return nil
}
