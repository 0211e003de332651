package util

import (
	"errors"
	"os"
)

func EnsureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}

// EnsureDirs creates every missing directory and returns the ones it created.
func EnsureDirs(paths ...string) ([]string, error) {
	var created []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			continue
		} else if !errors.Is(err, os.ErrNotExist) {
			return created, err
		}
		if err := EnsureDir(p); err != nil {
			return created, err
		}
		created = append(created, p)
	}
	return created, nil
}
