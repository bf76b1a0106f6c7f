// Package browserbase resolves Browserbase credentials and connection
// settings from layered configuration sources: runtime values from the host,
// the OpenClaw config file, the legacy config file, and the process
// environment, in that order of precedence.
package browserbase

// PluginID is the key for this plugin inside the OpenClaw config file.
const PluginID = "browserbase"

// DefaultBaseURL is the Browserbase API endpoint used when no source
// supplies one.
const DefaultBaseURL = "https://api.browserbase.com"

// Environment variables consulted when a credential is absent from every
// configuration source.
const (
	EnvAPIKey    = "BROWSERBASE_API_KEY"
	EnvProjectID = "BROWSERBASE_PROJECT_ID"
)

// EnvBaseURL is the variable SDK consumers read for a non-default
// endpoint. Resolution never reads it; exports write it.
const EnvBaseURL = "BROWSERBASE_BASE_URL"

// Config holds the resolved Browserbase settings.
//
// The two booleans are pointers so that "never configured" stays
// distinguishable from an explicit false through parsing and merging; they
// collapse to a default only at the point of use via the *Value accessors.
type Config struct {
	// APIKey is the Browserbase API key. Empty means absent.
	APIKey string
	// ProjectID is the Browserbase project identifier. Empty means absent.
	ProjectID string
	// BaseURL is the API endpoint. Always non-empty after Parse.
	BaseURL string
	// PromptOnStart controls whether a credential prompt may run at startup.
	PromptOnStart *bool
	// AutoSyncSkills controls whether missing skills are synced at startup.
	AutoSyncSkills *bool
}

// HasCredentials reports whether both credentials are present.
func (c Config) HasCredentials() bool {
	return c.APIKey != "" && c.ProjectID != ""
}

// PromptOnStartValue returns the prompt-on-start setting, or def when unset.
func (c Config) PromptOnStartValue(def bool) bool {
	if c.PromptOnStart == nil {
		return def
	}
	return *c.PromptOnStart
}

// AutoSyncValue returns the auto-sync setting, or def when unset.
func (c Config) AutoSyncValue(def bool) bool {
	if c.AutoSyncSkills == nil {
		return def
	}
	return *c.AutoSyncSkills
}
