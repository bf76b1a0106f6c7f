// Package plugin wires the Browserbase integration into an OpenClaw
// process. Startup resolves the effective configuration, offers a
// one-time credential prompt when interactive, and keeps the bundled
// skills present when auto-sync is on.
package plugin

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/shrey150/openclaw-browserbase/internal/browserbase"
	"github.com/shrey150/openclaw-browserbase/internal/config"
	"github.com/shrey150/openclaw-browserbase/internal/logging"
	"github.com/shrey150/openclaw-browserbase/internal/skills"
)

// Prompter runs an interactive credential prompt. Blank returns mean the
// user chose to skip.
type Prompter interface {
	Prompt(ctx context.Context) (apiKey, projectID string, err error)
}

// Options configures a Plugin.
type Options struct {
	// Prompter runs the startup credential prompt. Nil disables prompting.
	Prompter Prompter
	// Fetcher performs skill downloads for auto-sync. Nil disables
	// auto-sync.
	Fetcher skills.Fetcher
	// Interactive reports whether a prompt may run. Defaults to a
	// terminal check on stdin.
	Interactive func() bool
}

// Plugin is the per-process integration state.
type Plugin struct {
	cfg  browserbase.Config
	prov browserbase.Provenance

	prompter    Prompter
	fetcher     skills.Fetcher
	interactive func() bool

	// startupPrompted records that the credential prompt ran in this
	// process, so repeated Start calls never re-prompt.
	startupPrompted bool
}

// New creates a Plugin. Zero Options give a non-prompting, non-syncing
// plugin that only resolves configuration.
func New(opts Options) *Plugin {
	interactive := opts.Interactive
	if interactive == nil {
		interactive = func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		}
	}
	return &Plugin{
		prompter:    opts.Prompter,
		fetcher:     opts.Fetcher,
		interactive: interactive,
	}
}

// Config returns the most recently resolved configuration.
func (p *Plugin) Config() browserbase.Config {
	return p.cfg
}

// Provenance returns the source of each resolved field.
func (p *Plugin) Provenance() browserbase.Provenance {
	return p.prov
}

// Start runs the startup sequence. A failed prompt or a failed auto-sync
// is logged and does not fail the host process; only unreadable or
// invalid configuration does.
func (p *Plugin) Start(ctx context.Context) error {
	doc, err := config.Read()
	if err != nil {
		return err
	}
	if !doc.Enabled() {
		logging.WithContext(ctx).Debug("plugin disabled, skipping startup")
		return nil
	}

	if err := p.reload(); err != nil {
		return err
	}
	logging.WithContext(ctx).Debug("configuration resolved", logging.Source(p.prov.APIKey))

	if p.shouldPrompt() {
		p.startupPrompted = true
		if err := p.runPrompt(ctx); err != nil {
			logging.WithContext(ctx).Warn("credential prompt failed", logging.Err(err))
		} else if err := p.reload(); err != nil {
			return err
		}
	}

	if p.cfg.AutoSyncValue(false) && p.fetcher != nil && !skills.HasSkills("") {
		logging.WithContext(ctx).Info("skills missing, syncing", logging.Operation("auto-sync"))
		if _, err := skills.Sync(ctx, skills.Options{Fetcher: p.fetcher}); err != nil {
			logging.WithContext(ctx).Warn("automatic skills sync failed", logging.Err(err))
		}
	}

	return nil
}

func (p *Plugin) reload() error {
	cfg, prov, err := ResolveConfig(nil)
	if err != nil {
		return err
	}
	p.cfg = cfg
	p.prov = prov
	return nil
}

func (p *Plugin) shouldPrompt() bool {
	if p.startupPrompted || p.cfg.HasCredentials() {
		return false
	}
	if !p.cfg.PromptOnStartValue(true) {
		return false
	}
	return p.prompter != nil && p.interactive()
}

func (p *Plugin) runPrompt(ctx context.Context) error {
	apiKey, projectID, err := p.prompter.Prompt(ctx)
	if err != nil {
		return err
	}
	if strings.TrimSpace(apiKey) == "" && strings.TrimSpace(projectID) == "" {
		// The user skipped the prompt.
		return nil
	}
	return SaveCredentials(apiKey, projectID, "")
}

// ResolveConfig resolves the effective configuration from the host file,
// the legacy file, and the environment, with runtime values overlaid on
// top of everything.
func ResolveConfig(runtime map[string]any) (browserbase.Config, browserbase.Provenance, error) {
	doc, err := config.Read()
	if err != nil {
		return browserbase.Config{}, browserbase.Provenance{}, err
	}
	legacy, err := config.ReadLegacy()
	if err != nil {
		return browserbase.Config{}, browserbase.Provenance{}, err
	}
	return browserbase.Resolve(runtime, doc.PluginConfig(), legacy)
}

// SaveCredentials writes the non-blank values into the plugin's entry of
// the host configuration. Blank arguments leave their keys untouched.
func SaveCredentials(apiKey, projectID, baseURL string) error {
	values := map[string]any{}
	if v := strings.TrimSpace(apiKey); v != "" {
		values["apiKey"] = v
	}
	if v := strings.TrimSpace(projectID); v != "" {
		values["projectId"] = v
	}
	if v := strings.TrimSpace(baseURL); v != "" {
		values["baseUrl"] = v
	}
	if len(values) == 0 {
		return fmt.Errorf("nothing to save")
	}
	return config.WritePluginConfig(values)
}
