package skills

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/shrey150/openclaw-browserbase/internal/archive"
	"github.com/shrey150/openclaw-browserbase/internal/util"
)

const markerDoc = `---
name: browserbase
description: Browser automation with Browserbase cloud sessions.
---

# Browserbase

Use cloud browser sessions for automation tasks.
`

// stubFetcher records every requested URL and answers via respond.
type stubFetcher struct {
	mu       sync.Mutex
	requests []string
	respond  func(url string) ([]byte, error)
}

func (f *stubFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	f.requests = append(f.requests, url)
	f.mu.Unlock()
	return f.respond(url)
}

func (f *stubFetcher) urls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func bodyFor(url string) []byte {
	return []byte("# " + path.Base(url) + "\n\nfetched from " + url + "\n")
}

func healthyFetcher() *stubFetcher {
	return &stubFetcher{respond: func(url string) ([]byte, error) {
		return bodyFor(url), nil
	}}
}

func TestSync_NilFetcher(t *testing.T) {
	_, err := Sync(context.Background(), Options{Dir: t.TempDir()})
	if !errors.Is(err, ErrFetchUnavailable) {
		t.Fatalf("Sync() error = %v, want ErrFetchUnavailable", err)
	}
}

func TestSync_RawInstallsAllFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "skills")
	fetcher := healthyFetcher()

	result, err := Sync(context.Background(), Options{Dir: dir, Fetcher: fetcher})
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	if result.Ref != DefaultRef {
		t.Errorf("Ref = %q, want %q", result.Ref, DefaultRef)
	}
	if result.Dir != dir {
		t.Errorf("Dir = %q, want %q", result.Dir, dir)
	}
	if len(result.FilesInstalled) != len(Files) {
		t.Fatalf("FilesInstalled = %d entries, want %d", len(result.FilesInstalled), len(Files))
	}
	for i, rel := range Files {
		if result.FilesInstalled[i] != rel {
			t.Errorf("FilesInstalled[%d] = %q, want %q", i, result.FilesInstalled[i], rel)
		}
		target := filepath.Join(dir, filepath.FromSlash(rel))
		data, err := os.ReadFile(target)
		if err != nil {
			t.Fatalf("reading %s: %v", rel, err)
		}
		if !strings.Contains(string(data), "fetched from") {
			t.Errorf("%s has unexpected content %q", rel, data)
		}
	}

	wantPrefix := DefaultRawBase + "/main/skills/"
	for _, url := range fetcher.urls() {
		if !strings.HasPrefix(url, wantPrefix) {
			t.Errorf("requested %q, want prefix %q", url, wantPrefix)
		}
	}
}

func TestSync_RawIdempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "skills")

	first, err := Sync(context.Background(), Options{Dir: dir, Fetcher: healthyFetcher()})
	if err != nil {
		t.Fatalf("first Sync() error = %v", err)
	}
	before := readAll(t, dir)

	second, err := Sync(context.Background(), Options{Dir: dir, Fetcher: healthyFetcher()})
	if err != nil {
		t.Fatalf("second Sync() error = %v", err)
	}
	after := readAll(t, dir)

	if len(first.FilesInstalled) != len(second.FilesInstalled) {
		t.Errorf("installed counts differ: %d vs %d", len(first.FilesInstalled), len(second.FilesInstalled))
	}
	if len(before) != len(after) {
		t.Fatalf("file sets differ: %d vs %d", len(before), len(after))
	}
	for name, data := range before {
		if !bytes.Equal(data, after[name]) {
			t.Errorf("%s changed between identical syncs", name)
		}
	}
}

func TestSync_RawRefInURLs(t *testing.T) {
	fetcher := healthyFetcher()

	result, err := Sync(context.Background(), Options{
		Dir:     filepath.Join(t.TempDir(), "skills"),
		Ref:     "v1.2.3",
		Fetcher: fetcher,
	})
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if result.Ref != "v1.2.3" {
		t.Errorf("Ref = %q, want v1.2.3", result.Ref)
	}

	urls := fetcher.urls()
	if len(urls) != len(Files) {
		t.Fatalf("fetched %d URLs, want %d", len(urls), len(Files))
	}
	for _, url := range urls {
		if !strings.Contains(url, "/v1.2.3/skills/") {
			t.Errorf("URL %q does not carry the requested ref", url)
		}
	}
}

func TestSync_RawSourceOverride(t *testing.T) {
	fetcher := healthyFetcher()

	_, err := Sync(context.Background(), Options{
		Dir:     filepath.Join(t.TempDir(), "skills"),
		Source:  "https://mirror.example.com/raw/",
		Fetcher: fetcher,
	})
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	for _, url := range fetcher.urls() {
		if !strings.HasPrefix(url, "https://mirror.example.com/raw/main/skills/") {
			t.Errorf("URL %q ignores the source override", url)
		}
	}
}

func TestSync_RawFailureWritesNothing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "skills")
	preExisting := filepath.Join(dir, "browserbase", "SKILL.md")
	util.WriteFile(t, preExisting, "previous content\n")

	fetcher := &stubFetcher{respond: func(url string) ([]byte, error) {
		if strings.Contains(url, "examples.md") {
			return nil, &HTTPStatusError{Status: 404, URL: url}
		}
		return bodyFor(url), nil
	}}

	_, err := Sync(context.Background(), Options{Dir: dir, Fetcher: fetcher})
	if err == nil {
		t.Fatal("Sync() succeeded despite a failing fetch")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("error %q does not name the HTTP status", err)
	}
	var statusErr *HTTPStatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("error %v is not an *HTTPStatusError", err)
	}
	if !strings.Contains(statusErr.URL, "examples.md") {
		t.Errorf("error URL = %q, want the failing file", statusErr.URL)
	}

	files := readAll(t, dir)
	if len(files) != 1 {
		t.Fatalf("target holds %d files after failed sync, want only the pre-existing one", len(files))
	}
	if string(files["browserbase/SKILL.md"]) != "previous content\n" {
		t.Error("pre-existing file was modified by a failed sync")
	}
}

func TestSync_RawEmptyBodyFails(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "skills")
	fetcher := &stubFetcher{respond: func(url string) ([]byte, error) {
		if strings.Contains(url, "stagehand/reference.md") {
			return []byte("  \n\t\n"), nil
		}
		return bodyFor(url), nil
	}}

	_, err := Sync(context.Background(), Options{Dir: dir, Fetcher: fetcher})
	var emptyErr *EmptyContentError
	if !errors.As(err, &emptyErr) {
		t.Fatalf("Sync() error = %v, want *EmptyContentError", err)
	}
	if !strings.Contains(emptyErr.URL, "stagehand/reference.md") {
		t.Errorf("error URL = %q, want the blank file", emptyErr.URL)
	}
	if entries := readAll(t, dir); len(entries) != 0 {
		t.Errorf("target holds %d files after failed sync, want none", len(entries))
	}
}

func TestSync_RawProgress(t *testing.T) {
	var mu sync.Mutex
	var dones []int
	total := 0

	_, err := Sync(context.Background(), Options{
		Dir:     filepath.Join(t.TempDir(), "skills"),
		Fetcher: healthyFetcher(),
		Progress: func(done, n int) {
			mu.Lock()
			dones = append(dones, done)
			total = n
			mu.Unlock()
		},
	})
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if len(dones) != len(Files) {
		t.Fatalf("progress fired %d times, want %d", len(dones), len(Files))
	}
	if total != len(Files) {
		t.Errorf("progress total = %d, want %d", total, len(Files))
	}
	max := 0
	for _, d := range dones {
		if d > max {
			max = d
		}
	}
	if max != len(Files) {
		t.Errorf("highest progress value = %d, want %d", max, len(Files))
	}
}

func TestSync_ArchiveInstallsAndSwaps(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "skills")
	util.WriteFile(t, filepath.Join(dir, "stale.md"), "left over from an old install\n")

	tarball := buildArchive(t, map[string]string{
		"skills/browserbase/SKILL.md":         markerDoc,
		"skills/browserbase/api-reference.md": "# API\n",
		"skills/browserbase/examples.md":      "# Examples\n",
		"skills/stagehand/SKILL.md":           markerDoc,
		"skills/stagehand/reference.md":       "# Reference\n",
	})
	fetcher := &stubFetcher{respond: func(string) ([]byte, error) {
		return tarball, nil
	}}

	result, err := Sync(context.Background(), Options{
		Dir:     dir,
		Mode:    ModeArchive,
		Fetcher: fetcher,
	})
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	urls := fetcher.urls()
	if len(urls) != 1 {
		t.Fatalf("archive mode fetched %d URLs, want 1", len(urls))
	}
	if want := DefaultArchiveBase + "/main"; urls[0] != want {
		t.Errorf("fetched %q, want %q", urls[0], want)
	}

	if len(result.FilesInstalled) != 5 {
		t.Errorf("FilesInstalled = %d entries, want 5", len(result.FilesInstalled))
	}
	if _, err := os.Stat(filepath.Join(dir, "stale.md")); !os.IsNotExist(err) {
		t.Error("stale file survived the directory swap")
	}
	if !HasSkills(dir) {
		t.Error("HasSkills() = false after a successful archive sync")
	}
}

func TestSync_ArchiveMissingMarkerLeavesTarget(t *testing.T) {
	parent := t.TempDir()
	dir := filepath.Join(parent, "skills")
	util.WriteFile(t, filepath.Join(dir, "browserbase", "SKILL.md"), "previous content\n")

	// No stagehand bundle at all.
	tarball := buildArchive(t, map[string]string{
		"skills/browserbase/SKILL.md": markerDoc,
	})
	fetcher := &stubFetcher{respond: func(string) ([]byte, error) {
		return tarball, nil
	}}

	_, err := Sync(context.Background(), Options{Dir: dir, Mode: ModeArchive, Fetcher: fetcher})
	if err == nil {
		t.Fatal("Sync() succeeded despite a missing bundle marker")
	}
	if !strings.Contains(err.Error(), "stagehand/SKILL.md") {
		t.Errorf("error %q does not name the missing marker", err)
	}

	data, readErr := os.ReadFile(filepath.Join(dir, "browserbase", "SKILL.md"))
	if readErr != nil {
		t.Fatalf("pre-existing file gone after failed sync: %v", readErr)
	}
	if string(data) != "previous content\n" {
		t.Error("pre-existing file was modified by a failed sync")
	}

	entries, readErr := os.ReadDir(parent)
	if readErr != nil {
		t.Fatalf("reading parent: %v", readErr)
	}
	if len(entries) != 1 || entries[0].Name() != "skills" {
		t.Errorf("scratch directory left behind: %v", entries)
	}
}

func TestSync_ArchiveEmptyFails(t *testing.T) {
	tarball := buildArchive(t, map[string]string{
		"README.md": "no skills in here\n",
	})
	fetcher := &stubFetcher{respond: func(string) ([]byte, error) {
		return tarball, nil
	}}

	_, err := Sync(context.Background(), Options{
		Dir:     filepath.Join(t.TempDir(), "skills"),
		Mode:    ModeArchive,
		Fetcher: fetcher,
	})
	if !errors.Is(err, ErrArchiveEmpty) {
		t.Fatalf("Sync() error = %v, want ErrArchiveEmpty", err)
	}
}

func TestHasSkills(t *testing.T) {
	dir := t.TempDir()

	if HasSkills(dir) {
		t.Error("HasSkills() = true for an empty directory")
	}

	for _, rel := range Files[:len(Files)-1] {
		util.WriteFile(t, filepath.Join(dir, filepath.FromSlash(rel)), "content\n")
	}
	if HasSkills(dir) {
		t.Error("HasSkills() = true with one file missing")
	}

	last := Files[len(Files)-1]
	util.WriteFile(t, filepath.Join(dir, filepath.FromSlash(last)), "content\n")
	if !HasSkills(dir) {
		t.Error("HasSkills() = false with every file present")
	}
}

func TestExpectedFiles(t *testing.T) {
	dir := t.TempDir()

	paths := ExpectedFiles(dir)
	if len(paths) != len(Files) {
		t.Fatalf("ExpectedFiles() = %d entries, want %d", len(paths), len(Files))
	}
	for i, p := range paths {
		if !filepath.IsAbs(p) {
			t.Errorf("path %q is not absolute", p)
		}
		want := filepath.Join(dir, filepath.FromSlash(Files[i]))
		if p != want {
			t.Errorf("ExpectedFiles()[%d] = %q, want %q", i, p, want)
		}
	}
}

func TestExpectedFiles_DefaultDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv(util.EnvOpenClawHome, home)

	paths := ExpectedFiles("")
	want := filepath.Join(home, "skills", "browserbase", "SKILL.md")
	if paths[0] != want {
		t.Errorf("ExpectedFiles(\"\")[0] = %q, want %q", paths[0], want)
	}
}

// readAll maps relative slash paths to contents for every file under dir.
// A missing dir yields an empty map.
func readAll(t *testing.T, dir string) map[string][]byte {
	t.Helper()
	files := make(map[string][]byte)
	err := filepath.Walk(dir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(p) // #nosec G304 -- test reads its own fixtures
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = data
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		t.Fatalf("walking %s: %v", dir, err)
	}
	return files
}

// buildArchive produces a gzipped tarball with the usual single top-level
// repository directory.
func buildArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		util.WriteFile(t, filepath.Join(root, filepath.FromSlash(rel)), content)
	}
	var buf bytes.Buffer
	if err := archive.Create(&buf, root, "openclaw-browserbase-main"); err != nil {
		t.Fatalf("building archive: %v", err)
	}
	return buf.Bytes()
}
