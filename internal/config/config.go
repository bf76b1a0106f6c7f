// Package config reads and writes the OpenClaw host configuration that
// carries this plugin's entry. The host file is owned by OpenClaw, so
// every write round-trips unrelated keys untouched.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/shrey150/openclaw-browserbase/internal/browserbase"
	"github.com/shrey150/openclaw-browserbase/internal/util"
)

// EnvConfigPath overrides the host configuration file location.
const EnvConfigPath = "OPENCLAW_CONFIG_PATH"

const (
	fileName       = "openclaw.json"
	legacyFileName = "config.toml"
)

// FilePath returns the path to the host configuration file.
func FilePath() string {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p
	}
	return filepath.Join(util.OpenClawDir(), fileName)
}

// LegacyFilePath returns the path of the pre-plugin TOML configuration.
func LegacyFilePath() string {
	return filepath.Join(util.OpenClawDir(), legacyFileName)
}

// Exists reports whether the host configuration file is present.
func Exists() bool {
	_, err := os.Stat(FilePath())
	return err == nil
}

// Document is a parsed host configuration. Structure outside the plugin
// entry is carried as-is.
type Document map[string]any

// Read parses the host configuration file. A missing file yields an empty
// document; malformed JSON is an error so a later write cannot clobber a
// file the user still wants.
func Read() (Document, error) {
	return ReadFromPath(FilePath())
}

// ReadFromPath parses the host configuration at a specific path.
func ReadFromPath(path string) (Document, error) {
	// #nosec G304 - path is the trusted config location or caller-provided
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Document{}, nil
		}
		return nil, err
	}

	doc := Document{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if doc == nil {
		// The file held a literal null.
		doc = Document{}
	}
	return doc, nil
}

// PluginConfig returns this plugin's config subtree, or nil when any node
// on the way is absent or not an object.
func (d Document) PluginConfig() map[string]any {
	entry := d.pluginEntry()
	if entry == nil {
		return nil
	}
	cfg, _ := entry["config"].(map[string]any)
	return cfg
}

// Enabled reports the plugin entry's enabled flag. Absent or non-boolean
// values count as enabled.
func (d Document) Enabled() bool {
	entry := d.pluginEntry()
	if entry == nil {
		return true
	}
	enabled, ok := entry["enabled"].(bool)
	return !ok || enabled
}

func (d Document) pluginEntry() map[string]any {
	plugins, _ := d["plugins"].(map[string]any)
	if plugins == nil {
		return nil
	}
	entries, _ := plugins["entries"].(map[string]any)
	if entries == nil {
		return nil
	}
	entry, _ := entries[browserbase.PluginID].(map[string]any)
	return entry
}

// WritePluginConfig merges values into this plugin's config subtree of
// the host file and writes it back.
func WritePluginConfig(values map[string]any) error {
	return WritePluginConfigToPath(FilePath(), values)
}

// WritePluginConfigToPath merges values into the plugin's config subtree
// of the file at path. Keys in values overwrite their counterparts; keys
// not in values survive. The entry's enabled flag is set to true unless
// the user has set it to false. Nodes on the plugin path are created when
// missing and replaced when they are not objects.
func WritePluginConfigToPath(path string, values map[string]any) error {
	doc, err := ReadFromPath(path)
	if err != nil {
		return err
	}

	plugins := ensureObject(doc, "plugins")
	entries := ensureObject(plugins, "entries")
	entry := ensureObject(entries, browserbase.PluginID)
	cfg := ensureObject(entry, "config")

	for k, v := range values {
		cfg[k] = v
	}

	if enabled, ok := entry["enabled"].(bool); !ok || enabled {
		entry["enabled"] = true
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	return writeFileAtomic(path, data)
}

func ensureObject(m map[string]any, key string) map[string]any {
	if child, ok := m[key].(map[string]any); ok {
		return child
	}
	child := map[string]any{}
	m[key] = child
	return child
}

// writeFileAtomic writes the host file through a temp-and-rename so a
// crash mid-write never truncates it. The file carries credentials, so it
// is kept private to the user.
func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// ReadLegacy parses the pre-plugin TOML configuration and returns its
// [browserbase] table. A missing file, or a file without that table,
// yields nil.
func ReadLegacy() (map[string]any, error) {
	return ReadLegacyFromPath(LegacyFilePath())
}

// ReadLegacyFromPath parses the TOML configuration at a specific path.
func ReadLegacyFromPath(path string) (map[string]any, error) {
	// #nosec G304 - path is the trusted config location or caller-provided
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	table, _ := doc[browserbase.PluginID].(map[string]any)
	return table, nil
}
