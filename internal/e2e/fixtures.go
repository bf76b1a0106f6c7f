package e2e

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shrey150/openclaw-browserbase/internal/archive"
	"github.com/shrey150/openclaw-browserbase/internal/skills"
)

// Fixture provides helpers for creating test fixtures in E2E tests.
type Fixture struct {
	t       *testing.T
	baseDir string
}

// NewFixture creates a new fixture helper rooted at the given directory.
func NewFixture(t *testing.T, baseDir string) *Fixture {
	t.Helper()
	return &Fixture{
		t:       t,
		baseDir: baseDir,
	}
}

// WriteFile writes content to a file relative to the fixture base directory.
// It creates parent directories as needed.
func (f *Fixture) WriteFile(relPath, content string) string {
	f.t.Helper()
	fullPath := filepath.Join(f.baseDir, relPath)

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		f.t.Fatalf("failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(fullPath, []byte(content), 0o600); err != nil {
		f.t.Fatalf("failed to write file %s: %v", fullPath, err)
	}

	return fullPath
}

// WriteSkill writes a skill file with frontmatter and content.
// This is a convenience helper for creating typical skill files.
func (f *Fixture) WriteSkill(relPath, name, description, content string) string {
	f.t.Helper()

	skillContent := "---\n"
	skillContent += "name: " + name + "\n"
	if description != "" {
		skillContent += "description: " + description + "\n"
	}
	skillContent += "---\n\n"
	skillContent += content

	return f.WriteFile(relPath, skillContent)
}

// MkdirAll creates a directory and all parent directories relative to the base.
func (f *Fixture) MkdirAll(relPath string) string {
	f.t.Helper()
	fullPath := filepath.Join(f.baseDir, relPath)

	if err := os.MkdirAll(fullPath, 0o750); err != nil {
		f.t.Fatalf("failed to create directory %s: %v", fullPath, err)
	}

	return fullPath
}

// Path returns the full path for a relative path.
func (f *Fixture) Path(relPath string) string {
	return filepath.Join(f.baseDir, relPath)
}

// Exists returns true if the file or directory exists.
func (f *Fixture) Exists(relPath string) bool {
	f.t.Helper()
	fullPath := filepath.Join(f.baseDir, relPath)
	_, err := os.Stat(fullPath)
	return err == nil
}

// ReadFile reads and returns the content of a file.
func (f *Fixture) ReadFile(relPath string) string {
	f.t.Helper()
	fullPath := filepath.Join(f.baseDir, relPath)

	// #nosec G304 - fullPath is constructed from trusted test fixture base and test-provided path
	data, err := os.ReadFile(fullPath)
	if err != nil {
		f.t.Fatalf("failed to read file %s: %v", fullPath, err)
	}

	return string(data)
}

// HomeFixture creates a fixture helper rooted at the harness home
// directory, where the config files live.
func (h *Harness) HomeFixture() *Fixture {
	h.t.Helper()
	return NewFixture(h.t, h.homeDir)
}

// SkillsFixture creates a fixture helper for the default skills
// directory inside the harness home.
func (h *Harness) SkillsFixture() *Fixture {
	h.t.Helper()

	skillsDir := h.SkillsDir()
	if err := os.MkdirAll(skillsDir, 0o750); err != nil {
		h.t.Fatalf("failed to create skills directory: %v", err)
	}

	return NewFixture(h.t, skillsDir)
}

// TempFixture creates a fixture helper for a new temporary directory.
func (h *Harness) TempFixture() *Fixture {
	h.t.Helper()

	tempDir := h.t.TempDir()
	return NewFixture(h.t, tempDir)
}

// InstallSkills writes every distributed skill file into the default
// skills directory, the way a completed sync would. Bundle markers get
// the given description so tests can tell preexisting files from
// freshly synced ones.
func (h *Harness) InstallSkills(description string) *Fixture {
	h.t.Helper()

	f := h.SkillsFixture()
	for _, rel := range skills.Files {
		if path.Base(rel) == skills.MarkerFile {
			bundle := path.Dir(rel)
			f.WriteSkill(rel, bundle, description, "# "+bundle+"\n")
			continue
		}
		f.WriteFile(rel, "# Reference notes\n")
	}
	return f
}

// RemoteSkillContent returns the canonical remote copy of one
// distributed file, as served by the fixture servers.
func RemoteSkillContent(rel string) string {
	if path.Base(rel) != skills.MarkerFile {
		return "# Reference notes\n"
	}
	bundle := path.Dir(rel)
	return "---\n" +
		"name: " + bundle + "\n" +
		"description: Drive cloud browser sessions with " + bundle + ".\n" +
		"---\n\n" +
		"# " + bundle + "\n"
}

// RawSkillsServer starts an HTTP server that serves each distributed
// file individually, mimicking the raw content host. The server shuts
// down when the test finishes.
func (h *Harness) RawSkillsServer() *httptest.Server {
	h.t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, rel, ok := strings.Cut(r.URL.Path, "/skills/")
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, RemoteSkillContent(rel))
	}))
	h.t.Cleanup(srv.Close)
	return srv
}

// ArchiveSkillsServer starts an HTTP server that serves one gzipped
// tarball per ref, mimicking the archive host. The tarball carries the
// same content the raw server serves file by file.
func (h *Harness) ArchiveSkillsServer() *httptest.Server {
	h.t.Helper()

	root := h.t.TempDir()
	stage := NewFixture(h.t, root)
	for _, rel := range skills.Files {
		stage.WriteFile(filepath.Join("skills", rel), RemoteSkillContent(rel))
	}

	var buf bytes.Buffer
	if err := archive.Create(&buf, root, "openclaw-browserbase-main"); err != nil {
		h.t.Fatalf("failed to build skills archive: %v", err)
	}
	payload := buf.Bytes()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(payload)
	}))
	h.t.Cleanup(srv.Close)
	return srv
}
