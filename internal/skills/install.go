package skills

import (
	"fmt"
	"os"
	"path/filepath"
)

// writeFileAtomic writes data to path through a temporary file and a
// rename, so an interrupted write never leaves a half-written destination.
// Parent directories are created as needed.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create parent directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, perm); err != nil {
		return fmt.Errorf("write temporary file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

// swapDirs replaces target with src. The remove-then-rename sequence is
// not interlocked against other writers of the same target.
func swapDirs(src, target string) error {
	if err := removeExisting(target); err != nil {
		return fmt.Errorf("remove previous %s: %w", target, err)
	}
	if err := os.Rename(src, target); err != nil {
		return fmt.Errorf("install %s: %w", target, err)
	}
	return nil
}

// removeExisting deletes path whether it is a file, directory, or symlink.
// A missing path is not an error.
func removeExisting(path string) error {
	info, err := os.Lstat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if info.IsDir() {
		return os.RemoveAll(path)
	}
	return os.Remove(path)
}
