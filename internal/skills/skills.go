// Package skills installs the Browserbase skill reference files from a
// versioned remote source into a local directory.
//
// Every sync is a full re-fetch: there is no incremental diffing and no
// internal retry. A failed sync leaves the prior contents of the target
// directory untouched.
package skills

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/shrey150/openclaw-browserbase/internal/archive"
	"github.com/shrey150/openclaw-browserbase/internal/logging"
	"github.com/shrey150/openclaw-browserbase/internal/skillfile"
	"github.com/shrey150/openclaw-browserbase/internal/util"
)

const (
	// DefaultRef is the remote version installed when none is given.
	DefaultRef = "main"

	// DefaultRawBase serves individual files as <base>/<ref>/skills/<path>.
	DefaultRawBase = "https://raw.githubusercontent.com/browserbase/openclaw-browserbase"

	// DefaultArchiveBase serves one tarball per ref as <base>/<ref>.
	DefaultArchiveBase = "https://codeload.github.com/browserbase/openclaw-browserbase/tar.gz"

	// MarkerFile proves a bundle is installed.
	MarkerFile = "SKILL.md"

	// remoteSubtree is the repository directory holding the skill bundles.
	remoteSubtree = "skills"
)

// Bundles lists the skill bundles distributed from the remote source.
var Bundles = []string{"browserbase", "stagehand"}

// Files lists every distributed file, relative to the skills directory.
var Files = []string{
	"browserbase/SKILL.md",
	"browserbase/api-reference.md",
	"browserbase/examples.md",
	"stagehand/SKILL.md",
	"stagehand/reference.md",
}

// Mode selects how a sync retrieves the remote content.
type Mode string

const (
	// ModeRaw fetches each distributed file individually and installs it
	// with a write-to-temp-then-rename per file.
	ModeRaw Mode = "raw"
	// ModeArchive downloads one tarball for the ref, extracts the skills
	// subtree to a scratch directory, and swaps the whole target in a
	// single rename.
	ModeArchive Mode = "archive"
)

// Options configures a sync invocation.
type Options struct {
	// Dir is the target skills directory. Blank selects the well-known
	// default under the OpenClaw home; a relative path is resolved against
	// the working directory.
	Dir string
	// Ref is the remote version to install. Blank selects DefaultRef.
	Ref string
	// Mode selects raw per-file fetches (the default) or archive-and-swap.
	Mode Mode
	// Source overrides the remote base URL for the chosen mode. Used for
	// mirrors and tests.
	Source string
	// Fetcher performs the remote requests. Sync fails without one.
	Fetcher Fetcher
	// Progress, when set, is invoked after each file is staged.
	Progress func(done, total int)
}

// Result describes a completed sync.
type Result struct {
	Dir            string   `json:"directory"`
	Ref            string   `json:"ref"`
	Mode           Mode     `json:"mode"`
	FilesInstalled []string `json:"files_installed"`
}

// Sync installs the skill files for a ref into the target directory.
//
// Concurrent Sync calls against the same target directory are not
// interlocked; their outcome is undefined.
func Sync(ctx context.Context, opts Options) (*Result, error) {
	defer logging.Timer("sync")()

	ref := strings.TrimSpace(opts.Ref)
	if ref == "" {
		ref = DefaultRef
	}
	dir := util.AbsPath(strings.TrimSpace(opts.Dir), util.SkillsPath())

	if opts.Fetcher == nil {
		return nil, ErrFetchUnavailable
	}

	mode := opts.Mode
	if mode == "" {
		mode = ModeRaw
	}

	logging.WithContext(ctx).Debug("starting skills sync",
		logging.Ref(ref), logging.Path(dir), logging.Operation(string(mode)))

	var result *Result
	var err error
	switch mode {
	case ModeRaw:
		result, err = syncRaw(ctx, dir, ref, opts)
	case ModeArchive:
		result, err = syncArchive(ctx, dir, ref, opts)
	default:
		return nil, fmt.Errorf("unknown sync mode %q", mode)
	}
	if err != nil {
		return nil, err
	}

	logging.WithContext(ctx).Info("skills installed",
		logging.Count(len(result.FilesInstalled)), logging.Ref(ref), logging.Path(dir))
	return result, nil
}

// syncRaw stages all five files in memory before touching the target, so a
// failed fetch leaves nothing newly written.
func syncRaw(ctx context.Context, dir, ref string, opts Options) (*Result, error) {
	base := strings.TrimSuffix(opts.Source, "/")
	if base == "" {
		base = DefaultRawBase
	}

	bodies := make([][]byte, len(Files))
	var staged atomic.Int32

	g, gctx := errgroup.WithContext(ctx)
	for i, rel := range Files {
		g.Go(func() error {
			url := base + "/" + ref + "/" + remoteSubtree + "/" + rel
			body, err := opts.Fetcher.Fetch(gctx, url)
			if err != nil {
				return err
			}
			if len(bytes.TrimSpace(body)) == 0 {
				return &EmptyContentError{URL: url}
			}
			bodies[i] = body
			if opts.Progress != nil {
				opts.Progress(int(staged.Add(1)), len(Files))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	installed := make([]string, 0, len(Files))
	for i, rel := range Files {
		target := filepath.Join(dir, filepath.FromSlash(rel))
		if err := writeFileAtomic(target, bodies[i], 0o644); err != nil {
			return nil, fmt.Errorf("install %s: %w", rel, err)
		}
		installed = append(installed, rel)
	}

	return &Result{Dir: dir, Ref: ref, Mode: ModeRaw, FilesInstalled: installed}, nil
}

// syncArchive downloads one tarball, extracts the skills subtree to a
// scratch directory, verifies it, and replaces the target in one rename.
// Any failure removes the scratch directory and leaves the target as it
// was.
func syncArchive(ctx context.Context, dir, ref string, opts Options) (*Result, error) {
	base := strings.TrimSuffix(opts.Source, "/")
	if base == "" {
		base = DefaultArchiveBase
	}
	url := base + "/" + ref

	body, err := opts.Fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, &EmptyContentError{URL: url}
	}

	// The scratch directory lives next to the target so the final rename
	// stays on one filesystem.
	parent := filepath.Dir(dir)
	if err := os.MkdirAll(parent, 0o750); err != nil {
		return nil, fmt.Errorf("create %s: %w", parent, err)
	}
	scratch, err := os.MkdirTemp(parent, ".skills-sync-*")
	if err != nil {
		return nil, fmt.Errorf("create scratch directory: %w", err)
	}
	defer func() {
		_ = os.RemoveAll(scratch)
	}()

	count, err := archive.ExtractSubtree(bytes.NewReader(body), remoteSubtree, scratch)
	if err != nil {
		return nil, fmt.Errorf("extract archive from %s: %w", url, err)
	}
	if count == 0 {
		return nil, ErrArchiveEmpty
	}

	for _, bundle := range Bundles {
		marker := filepath.Join(scratch, bundle, MarkerFile)
		if _, err := os.Stat(marker); err != nil {
			return nil, fmt.Errorf("archive for ref %s is missing %s/%s", ref, bundle, MarkerFile)
		}
		if _, err := skillfile.Load(marker); err != nil {
			logging.WithContext(ctx).Warn("skill descriptor failed validation",
				logging.Bundle(bundle), logging.Err(err))
		}
	}

	if err := swapDirs(scratch, dir); err != nil {
		return nil, err
	}

	if opts.Progress != nil {
		opts.Progress(count, count)
	}

	installed, err := listFiles(dir)
	if err != nil {
		return nil, err
	}
	return &Result{Dir: dir, Ref: ref, Mode: ModeArchive, FilesInstalled: installed}, nil
}

// HasSkills reports whether every distributed file is present under dir.
// It is a completeness probe: a partial install reports false.
func HasSkills(dir string) bool {
	for _, path := range ExpectedFiles(dir) {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			return false
		}
	}
	return true
}

// ExpectedFiles returns the absolute path of every distributed file under
// dir (or the default directory when dir is blank), in a stable order. It
// performs no I/O.
func ExpectedFiles(dir string) []string {
	base := util.AbsPath(strings.TrimSpace(dir), util.SkillsPath())
	paths := make([]string, len(Files))
	for i, rel := range Files {
		paths[i] = filepath.Join(base, filepath.FromSlash(rel))
	}
	return paths
}

// listFiles collects the relative paths of all regular files under dir.
func listFiles(dir string) ([]string, error) {
	var files []string
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
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}
