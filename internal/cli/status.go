package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/shrey150/openclaw-browserbase/internal/browserbase"
	"github.com/shrey150/openclaw-browserbase/internal/config"
	"github.com/shrey150/openclaw-browserbase/internal/plugin"
	"github.com/shrey150/openclaw-browserbase/internal/skills"
	"github.com/shrey150/openclaw-browserbase/internal/ui"
	"github.com/shrey150/openclaw-browserbase/internal/util"
)

// credentialStatus is one resolved string field with its origin. The API
// key's value is always masked.
type credentialStatus struct {
	Value  string `json:"value"`
	Set    bool   `json:"set"`
	Source string `json:"source"`
}

// toggleStatus is one resolved behavior toggle with its origin.
type toggleStatus struct {
	Value  bool   `json:"value"`
	Source string `json:"source"`
}

// statusReport is the payload of the status command.
type statusReport struct {
	Enabled         bool             `json:"enabled"`
	APIKey          credentialStatus `json:"apiKey"`
	ProjectID       credentialStatus `json:"projectId"`
	BaseURL         credentialStatus `json:"baseUrl"`
	PromptOnStart   toggleStatus     `json:"promptOnStart"`
	AutoSyncSkills  toggleStatus     `json:"autoSyncSkills"`
	ConfigFile      string           `json:"configFile"`
	ConfigExists    bool             `json:"configExists"`
	SkillsDir       string           `json:"skillsDir"`
	SkillsInstalled bool             `json:"skillsInstalled"`
}

func statusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show the resolved configuration and where each value came from",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "json",
				Aliases: []string{"j"},
				Usage:   "Output the report as JSON",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg, prov, err := plugin.ResolveConfig(nil)
			if err != nil {
				return fmt.Errorf("failed to resolve configuration: %w", err)
			}

			report := buildStatusReport(cfg, prov)
			if cmd.Bool("json") {
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				return encoder.Encode(report)
			}
			outputStatusTable(report)
			return nil
		},
	}
}

func buildStatusReport(cfg browserbase.Config, prov browserbase.Provenance) statusReport {
	doc, _ := config.Read()

	apiKey := ""
	if cfg.APIKey != "" {
		apiKey = browserbase.MaskSecret(cfg.APIKey)
	}

	return statusReport{
		Enabled: doc.Enabled(),
		APIKey: credentialStatus{
			Value:  apiKey,
			Set:    cfg.APIKey != "",
			Source: prov.APIKey,
		},
		ProjectID: credentialStatus{
			Value:  cfg.ProjectID,
			Set:    cfg.ProjectID != "",
			Source: prov.ProjectID,
		},
		BaseURL: credentialStatus{
			Value:  cfg.BaseURL,
			Set:    true,
			Source: prov.BaseURL,
		},
		PromptOnStart: toggleStatus{
			Value:  cfg.PromptOnStartValue(true),
			Source: prov.PromptOnStart,
		},
		AutoSyncSkills: toggleStatus{
			Value:  cfg.AutoSyncValue(false),
			Source: prov.AutoSyncSkills,
		},
		ConfigFile:      config.FilePath(),
		ConfigExists:    config.Exists(),
		SkillsDir:       util.SkillsPath(),
		SkillsInstalled: skills.HasSkills(""),
	}
}

func outputStatusTable(report statusReport) {
	fmt.Println(ui.Bold("Browserbase configuration"))
	fmt.Println()

	fmt.Printf("  %-18s %s\n", "API key:", credentialCell(report.APIKey))
	fmt.Printf("  %-18s %s\n", "Project ID:", credentialCell(report.ProjectID))
	fmt.Printf("  %-18s %s\n", "Base URL:", credentialCell(report.BaseURL))
	fmt.Printf("  %-18s %t %s\n", "Prompt on start:", report.PromptOnStart.Value, sourceNote(report.PromptOnStart.Source))
	fmt.Printf("  %-18s %t %s\n", "Auto-sync skills:", report.AutoSyncSkills.Value, sourceNote(report.AutoSyncSkills.Source))
	fmt.Println()

	configCell := report.ConfigFile
	if !report.ConfigExists {
		configCell += " " + ui.Dim("(not created yet)")
	}
	fmt.Printf("  %-18s %s\n", "Config file:", configCell)

	if report.SkillsInstalled {
		fmt.Printf("  %-18s %s\n", "Skills:", ui.StatusSuccess("installed at "+report.SkillsDir))
	} else {
		fmt.Printf("  %-18s %s\n", "Skills:", ui.StatusPending("not installed"))
	}

	if !report.Enabled {
		fmt.Println()
		fmt.Println(ui.StatusWarning("The plugin is disabled in the OpenClaw config."))
	}
	if !report.APIKey.Set && !report.ProjectID.Set {
		fmt.Println()
		fmt.Printf("%s Run %s to add credentials.\n",
			ui.StatusWarning("No credentials configured."), ui.Info("openclaw-browserbase setup"))
	}
}

// credentialCell renders a value with its source, dimming unset fields.
func credentialCell(status credentialStatus) string {
	if !status.Set {
		return ui.Dim("not set")
	}
	return status.Value + " " + sourceNote(status.Source)
}

func sourceNote(source string) string {
	return ui.Dim("(" + source + ")")
}
