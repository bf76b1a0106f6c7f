package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/shrey150/openclaw-browserbase/internal/progress"
	"github.com/shrey150/openclaw-browserbase/internal/skillfile"
	"github.com/shrey150/openclaw-browserbase/internal/skills"
	"github.com/shrey150/openclaw-browserbase/internal/ui"
	"github.com/shrey150/openclaw-browserbase/internal/util"
)

// fetchTimeout bounds a whole skill download, archive included.
const fetchTimeout = 30 * time.Second

func skillsCommand() *cli.Command {
	return &cli.Command{
		Name:  "skills",
		Usage: "Manage Browserbase skill files",
		Description: `Download and inspect the Browserbase skill files that teach an
   OpenClaw agent how to drive Browserbase and Stagehand.

   Skills live under ~/.openclaw/skills and come from the project's
   GitHub repository, pinned to a git ref (default: main).`,
		Commands: []*cli.Command{
			skillsSyncCommand(),
			skillsStatusCommand(),
		},
	}
}

func skillsSyncCommand() *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Download skill files from the skills repository",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "ref",
				Usage: "Git ref (branch, tag, or commit) to sync from (default: main)",
			},
			&cli.StringFlag{
				Name:  "dir",
				Usage: "Target directory (default: ~/.openclaw/skills)",
			},
			&cli.BoolFlag{
				Name:  "archive",
				Usage: "Download one tar.gz archive instead of individual files",
			},
			&cli.StringFlag{
				Name:  "source",
				Usage: "Override the download base URL (mirrors, testing)",
			},
			&cli.BoolFlag{
				Name:    "json",
				Aliases: []string{"j"},
				Usage:   "Output the result as JSON",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			opts := skills.Options{
				Dir:    cmd.String("dir"),
				Ref:    cmd.String("ref"),
				Source: cmd.String("source"),
			}
			if cmd.Bool("archive") {
				opts.Mode = skills.ModeArchive
			}
			return syncSkillFiles(ctx, opts, cmd.Bool("json"))
		},
	}
}

// syncSkillFiles runs a skill sync with an HTTP fetcher wired in. Both the
// skills sync command and setup --sync-skills funnel through here.
func syncSkillFiles(ctx context.Context, opts skills.Options, asJSON bool) error {
	opts.Fetcher = &skills.HTTPFetcher{
		Client: &http.Client{Timeout: fetchTimeout},
	}

	var bar *progress.Bar
	if !asJSON && opts.Mode != skills.ModeArchive {
		bar = progress.Simple(int64(len(skills.Files)), "Syncing skill files")
		opts.Progress = func(done, total int) {
			_ = bar.Set(done)
		}
	}

	result, err := skills.Sync(ctx, opts)
	if bar != nil {
		if err != nil {
			_ = bar.Clear()
		} else {
			_ = bar.Finish()
		}
	}
	if err != nil {
		return fmt.Errorf("skill sync failed: %w", err)
	}

	if asJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	}

	fmt.Println(ui.StatusSuccess(fmt.Sprintf("Installed %d skill files to %s (ref %s)",
		len(result.FilesInstalled), result.Dir, result.Ref)))
	for _, file := range result.FilesInstalled {
		fmt.Printf("  %s\n", file)
	}
	return nil
}

// bundleStatus describes one skill bundle on disk.
type bundleStatus struct {
	Name        string   `json:"name"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Present     bool     `json:"present"`
	Missing     []string `json:"missing,omitempty"`
}

// skillsReport is the payload of skills status.
type skillsReport struct {
	Dir       string         `json:"directory"`
	Installed bool           `json:"installed"`
	Bundles   []bundleStatus `json:"bundles"`
}

func skillsStatusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show which skill files are installed",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "dir",
				Usage: "Skills directory to inspect (default: ~/.openclaw/skills)",
			},
			&cli.BoolFlag{
				Name:    "json",
				Aliases: []string{"j"},
				Usage:   "Output the report as JSON",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			report := buildSkillsReport(cmd.String("dir"))
			if cmd.Bool("json") {
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				return encoder.Encode(report)
			}
			outputSkillsTable(report)
			return nil
		},
	}
}

func buildSkillsReport(dir string) skillsReport {
	dir = util.AbsPath(dir, util.SkillsPath())

	report := skillsReport{
		Dir:       dir,
		Installed: skills.HasSkills(dir),
	}

	titler := cases.Title(language.English)
	for _, bundle := range skills.Bundles {
		status := bundleStatus{
			Name:    bundle,
			Title:   titler.String(bundle),
			Present: true,
		}
		for _, rel := range skills.Files {
			if !strings.HasPrefix(rel, bundle+"/") {
				continue
			}
			if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(rel))); err != nil {
				status.Present = false
				status.Missing = append(status.Missing, rel)
			}
		}
		if status.Present {
			status.Description = bundleDescription(dir, bundle)
		}
		report.Bundles = append(report.Bundles, status)
	}

	return report
}

// bundleDescription pulls the description out of an installed bundle's
// SKILL.md frontmatter. Unreadable or malformed metadata is not an error
// here; status reports what exists.
func bundleDescription(dir, bundle string) string {
	file, err := skillfile.Load(filepath.Join(dir, bundle, skills.MarkerFile))
	if err != nil {
		return ""
	}
	return file.Meta.Description
}

func outputSkillsTable(report skillsReport) {
	fmt.Printf("%s %s\n\n", ui.Bold("Skills directory:"), report.Dir)

	for _, bundle := range report.Bundles {
		if bundle.Present {
			fmt.Println(ui.StatusSuccess(bundle.Title))
			if bundle.Description != "" {
				fmt.Printf("    %s\n", ui.Dim(bundle.Description))
			}
		} else {
			fmt.Println(ui.StatusPending(fmt.Sprintf("%s (missing: %s)",
				bundle.Title, strings.Join(bundle.Missing, ", "))))
		}
	}

	if !report.Installed {
		fmt.Printf("\nRun %s to install the skill files.\n", ui.Info("openclaw-browserbase skills sync"))
	}
}
