package browserbase

import (
	"fmt"
	"strings"
)

// Names for the configuration layers, used in provenance reporting and in
// layer-qualified validation errors.
const (
	SourceRuntime     = "runtime"
	SourceConfigFile  = "config file"
	SourceLegacy      = "legacy config"
	SourceEnvironment = "environment"
	SourceDefault     = "default"
	SourceUnset       = "not set"
)

// Provenance records which source supplied each resolved field.
type Provenance struct {
	APIKey         string
	ProjectID      string
	BaseURL        string
	PromptOnStart  string
	AutoSyncSkills string
}

// Resolve produces the effective configuration from the full precedence
// chain: runtime values override the config file, which overrides the
// legacy config, which overrides the environment, which overrides built-in
// defaults. An empty or placeholder-only value in a higher layer never
// masks a real value underneath it.
//
// Unknown keys in any layer are fatal and reported with the layer's name.
func Resolve(runtime, file, legacy map[string]any) (Config, Provenance, error) {
	layers := []struct {
		name   string
		record map[string]any
	}{
		{SourceRuntime, runtime},
		{SourceConfigFile, file},
		{SourceLegacy, legacy},
	}

	merged := make(map[string]any)
	origin := make(map[string]string)
	for _, l := range layers {
		if len(l.record) == 0 {
			continue
		}
		if err := validateKeys(l.record); err != nil {
			return Config{}, Provenance{}, fmt.Errorf("%s: %w", l.name, err)
		}
		for key, value := range l.record {
			if _, taken := merged[key]; taken {
				continue
			}
			if !claims(key, value) {
				continue
			}
			merged[key] = value
			origin[key] = l.name
		}
	}

	return parseRecord(merged, origin)
}

// claims reports whether a layer's value actually defines the key: a
// non-blank string for the string fields, a literal boolean for the
// boolean fields. Anything else leaves the key open for lower layers.
func claims(key string, value any) bool {
	switch key {
	case "promptOnStart", "autoSyncSkills":
		_, ok := value.(bool)
		return ok
	default:
		s, ok := value.(string)
		return ok && strings.TrimSpace(s) != ""
	}
}

func originOf(origin map[string]string, key string) string {
	if origin != nil {
		if source, ok := origin[key]; ok {
			return source
		}
	}
	return SourceRuntime
}
