// Package export renders resolved Browserbase credentials in formats that
// other tools consume: shell export lines, dotenv files, and JSON.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/shrey150/openclaw-browserbase/internal/browserbase"
	"github.com/shrey150/openclaw-browserbase/internal/logging"
)

// Format represents the output format for exported credentials.
type Format string

const (
	// FormatShell emits export statements for POSIX shells.
	FormatShell Format = "shell"
	// FormatDotenv emits KEY=value lines for .env files.
	FormatDotenv Format = "dotenv"
	// FormatJSON emits a single JSON object.
	FormatJSON Format = "json"
)

// IsValid returns true if the format is recognized.
func (f Format) IsValid() bool {
	switch f {
	case FormatShell, FormatDotenv, FormatJSON:
		return true
	default:
		return false
	}
}

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// AllFormats returns all supported export formats.
func AllFormats() []Format {
	return []Format{FormatShell, FormatDotenv, FormatJSON}
}

// ParseFormat parses a string into a Format.
func ParseFormat(s string) (Format, error) {
	format := Format(strings.ToLower(strings.TrimSpace(s)))
	if !format.IsValid() {
		return "", fmt.Errorf("unsupported format %q (valid: shell, dotenv, json)", s)
	}
	return format, nil
}

// ErrNoCredentials reports an export attempted before any credential was
// configured.
var ErrNoCredentials = fmt.Errorf("no credentials configured")

// Exporter renders one resolved configuration.
type Exporter struct {
	cfg browserbase.Config
}

// New creates an Exporter for the given configuration.
func New(cfg browserbase.Config) *Exporter {
	return &Exporter{cfg: cfg}
}

// Export writes the credentials to w in the requested format. It fails
// with ErrNoCredentials when neither credential is set, so callers never
// emit an empty environment.
func (e *Exporter) Export(format Format, w io.Writer) error {
	defer logging.Timer("export")()

	logging.Debug("exporting credentials",
		slog.String("format", string(format)),
		logging.Operation("export"),
	)

	if e.cfg.APIKey == "" && e.cfg.ProjectID == "" {
		return ErrNoCredentials
	}

	switch format {
	case FormatShell:
		return e.exportShell(w)
	case FormatDotenv:
		return e.exportDotenv(w)
	case FormatJSON:
		return e.exportJSON(w)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// pairs returns the environment variables to render, in a stable order.
// The base URL appears only when it differs from the default endpoint, so
// exports stay minimal for the common case.
func (e *Exporter) pairs() [][2]string {
	var pairs [][2]string
	if e.cfg.APIKey != "" {
		pairs = append(pairs, [2]string{browserbase.EnvAPIKey, e.cfg.APIKey})
	}
	if e.cfg.ProjectID != "" {
		pairs = append(pairs, [2]string{browserbase.EnvProjectID, e.cfg.ProjectID})
	}
	if e.cfg.BaseURL != "" && e.cfg.BaseURL != browserbase.DefaultBaseURL {
		pairs = append(pairs, [2]string{browserbase.EnvBaseURL, e.cfg.BaseURL})
	}
	return pairs
}

// exportShell emits lines suitable for eval in a POSIX shell.
func (e *Exporter) exportShell(w io.Writer) error {
	var sb strings.Builder
	for _, p := range e.pairs() {
		sb.WriteString("export ")
		sb.WriteString(p[0])
		sb.WriteString("=")
		sb.WriteString(browserbase.ShellEscape(p[1]))
		sb.WriteString("\n")
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// exportDotenv emits lines for a .env file.
func (e *Exporter) exportDotenv(w io.Writer) error {
	var sb strings.Builder
	for _, p := range e.pairs() {
		sb.WriteString(p[0])
		sb.WriteString("=")
		sb.WriteString(browserbase.DotenvEscape(p[1]))
		sb.WriteString("\n")
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// exportConfig is the JSON shape for exported credentials.
type exportConfig struct {
	APIKey    string `json:"apiKey,omitempty"`
	ProjectID string `json:"projectId,omitempty"`
	BaseURL   string `json:"baseUrl,omitempty"`
}

// exportJSON emits one pretty-printed JSON object.
func (e *Exporter) exportJSON(w io.Writer) error {
	out := exportConfig{
		APIKey:    e.cfg.APIKey,
		ProjectID: e.cfg.ProjectID,
		BaseURL:   e.cfg.BaseURL,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}
