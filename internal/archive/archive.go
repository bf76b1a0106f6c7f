// Package archive handles the gzipped tarballs served for repository refs.
package archive

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ExtractSubtree streams a gzipped tarball and writes every regular file
// under subtree to dest, keeping paths relative to the subtree. Repository
// tarballs wrap their contents in a single ref-named top-level directory;
// that leading component is stripped before matching. Returns the number of
// files written.
func ExtractSubtree(r io.Reader, subtree, dest string) (int, error) {
	gzReader, err := gzip.NewReader(r)
	if err != nil {
		return 0, fmt.Errorf("open gzip stream: %w", err)
	}
	defer gzReader.Close()

	tarReader := tar.NewReader(gzReader)
	prefix := strings.TrimSuffix(subtree, "/") + "/"

	count := 0
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, fmt.Errorf("read tar header: %w", err)
		}

		if header.Typeflag != tar.TypeReg {
			continue
		}

		name := stripTopLevel(header.Name)
		if name == "" || !strings.HasPrefix(name, prefix) {
			continue
		}

		rel := strings.TrimPrefix(name, prefix)
		if !isSafeRelPath(rel) {
			return count, fmt.Errorf("unsafe path in archive: %s", header.Name)
		}

		target := filepath.Join(dest, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
			return count, fmt.Errorf("create directory for %s: %w", rel, err)
		}

		out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644) // #nosec G304 - target is constrained to dest by isSafeRelPath
		if err != nil {
			return count, fmt.Errorf("create %s: %w", rel, err)
		}
		if _, err := io.Copy(out, tarReader); err != nil { // #nosec G110 - skill documents are small text files
			_ = out.Close()
			return count, fmt.Errorf("write %s: %w", rel, err)
		}
		if err := out.Close(); err != nil {
			return count, fmt.Errorf("close %s: %w", rel, err)
		}
		count++
	}

	return count, nil
}

// Create writes a gzipped tarball of root's files nested under a single
// top-level directory named topDir, mirroring repository tarball layout.
func Create(w io.Writer, root, topDir string) error {
	gzWriter := gzip.NewWriter(w)
	tarWriter := tar.NewWriter(gzWriter)

	err := filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(p) // #nosec G304 - p comes from walking root
		if err != nil {
			return err
		}

		header := &tar.Header{
			Name:    path.Join(topDir, filepath.ToSlash(rel)),
			Mode:    0o644,
			Size:    int64(len(data)),
			ModTime: info.ModTime(),
		}
		if err := tarWriter.WriteHeader(header); err != nil {
			return fmt.Errorf("write tar header for %s: %w", rel, err)
		}
		if _, err := tarWriter.Write(data); err != nil {
			return fmt.Errorf("write tar data for %s: %w", rel, err)
		}
		return nil
	})
	if err != nil {
		_ = tarWriter.Close()
		_ = gzWriter.Close()
		return err
	}

	// Close order matters: the tar trailer must land in the gzip stream
	// before it is flushed.
	if err := tarWriter.Close(); err != nil {
		return fmt.Errorf("close tar stream: %w", err)
	}
	return gzWriter.Close()
}

// stripTopLevel removes the leading path component from a tar entry name.
func stripTopLevel(name string) string {
	name = path.Clean(strings.TrimPrefix(name, "./"))
	idx := strings.IndexByte(name, '/')
	if idx < 0 {
		return ""
	}
	return name[idx+1:]
}

func isSafeRelPath(rel string) bool {
	if rel == "" || path.IsAbs(rel) {
		return false
	}
	for _, part := range strings.Split(rel, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
