package browserbase

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
)

// Keys accepted from a configuration record. Anything else is a fatal parse
// error so that a typo never silently drops a setting.
var allowedKeys = map[string]bool{
	"apiKey":         true,
	"projectId":      true,
	"baseUrl":        true,
	"promptOnStart":  true,
	"autoSyncSkills": true,
}

// UnknownKeysError reports configuration keys outside the accepted set.
type UnknownKeysError struct {
	// Keys holds every offending key, sorted.
	Keys []string
}

func (e *UnknownKeysError) Error() string {
	return fmt.Sprintf("invalid configuration: unknown key(s): %s", strings.Join(e.Keys, ", "))
}

// Parse extracts a Config from an arbitrary value.
//
// A value that is not a key-value record is treated as an empty one, so
// Parse never fails on malformed input shapes; it fails only when a record
// carries keys outside the accepted set. Credential fields fall back to the
// BROWSERBASE_* environment variables when the record leaves them absent or
// an embedded ${VAR} placeholder cannot resolve. A placeholder failure in
// baseUrl has no fallback and is returned as an error.
func Parse(raw any) (Config, error) {
	record, _ := raw.(map[string]any)
	cfg, _, err := parseRecord(record, nil)
	return cfg, err
}

// Merge overlays primary onto fallback field by field. A field of primary
// wins whenever it is defined: non-empty for strings, non-nil for the
// booleans. An explicit false is defined and overrides a true underneath it;
// only true absence falls through.
func Merge(primary, fallback Config) Config {
	merged := fallback
	if primary.APIKey != "" {
		merged.APIKey = primary.APIKey
	}
	if primary.ProjectID != "" {
		merged.ProjectID = primary.ProjectID
	}
	if primary.BaseURL != "" {
		merged.BaseURL = primary.BaseURL
	}
	if primary.PromptOnStart != nil {
		merged.PromptOnStart = primary.PromptOnStart
	}
	if primary.AutoSyncSkills != nil {
		merged.AutoSyncSkills = primary.AutoSyncSkills
	}
	return merged
}

func parseRecord(record map[string]any, origin map[string]string) (Config, Provenance, error) {
	if len(record) > 0 {
		if err := validateKeys(record); err != nil {
			return Config{}, Provenance{}, err
		}
	}

	var cfg Config
	var prov Provenance

	cfg.APIKey, prov.APIKey = credentialField(record, "apiKey", EnvAPIKey, origin)
	cfg.ProjectID, prov.ProjectID = credentialField(record, "projectId", EnvProjectID, origin)

	baseURL, baseSource, err := urlField(record, "baseUrl", origin)
	if err != nil {
		return Config{}, Provenance{}, err
	}
	cfg.BaseURL, prov.BaseURL = baseURL, baseSource

	cfg.PromptOnStart, prov.PromptOnStart = boolField(record, "promptOnStart", origin)
	cfg.AutoSyncSkills, prov.AutoSyncSkills = boolField(record, "autoSyncSkills", origin)

	return cfg, prov, nil
}

func validateKeys(record map[string]any) error {
	var unknown []string
	for key := range record {
		if !allowedKeys[key] {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return &UnknownKeysError{Keys: unknown}
}

// credentialField reads a credential from the record, resolving ${VAR}
// placeholders. A missing value, a non-string value, or a placeholder that
// cannot resolve all fall back to the direct environment variable.
func credentialField(record map[string]any, key, envVar string, origin map[string]string) (string, string) {
	raw, _ := record[key].(string)
	if value := strings.TrimSpace(raw); value != "" {
		resolved, err := expandPlaceholders(value)
		if err == nil {
			if resolved = strings.TrimSpace(resolved); resolved != "" {
				return resolved, originOf(origin, key)
			}
		}
	}
	if value := strings.TrimSpace(os.Getenv(envVar)); value != "" {
		return value, SourceEnvironment
	}
	return "", SourceUnset
}

// urlField reads baseUrl. Unlike the credential fields a failed placeholder
// here propagates: there is no redundant recovery path for the endpoint.
func urlField(record map[string]any, key string, origin map[string]string) (string, string, error) {
	raw, _ := record[key].(string)
	value := strings.TrimSpace(raw)
	if value == "" {
		return DefaultBaseURL, SourceDefault, nil
	}
	resolved, err := expandPlaceholders(value)
	if err != nil {
		return "", "", fmt.Errorf("resolve %s: %w", key, err)
	}
	return strings.TrimSpace(resolved), originOf(origin, key), nil
}

// boolField accepts only a literal boolean; any other shape leaves the
// field unset rather than defaulting it.
func boolField(record map[string]any, key string, origin map[string]string) (*bool, string) {
	if v, ok := record[key].(bool); ok {
		return &v, originOf(origin, key)
	}
	return nil, SourceDefault
}

var placeholderPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandPlaceholders substitutes ${VAR} tokens from the environment. An
// unset or empty variable fails the whole expansion.
func expandPlaceholders(value string) (string, error) {
	var missing string
	result := placeholderPattern.ReplaceAllStringFunc(value, func(token string) string {
		name := token[2 : len(token)-1]
		v := os.Getenv(name)
		if v == "" && missing == "" {
			missing = name
		}
		return v
	})
	if missing != "" {
		return "", fmt.Errorf("environment variable %s is not set", missing)
	}
	return result, nil
}
