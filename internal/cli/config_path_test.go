package cli

import (
	"path/filepath"
	"testing"

	"github.com/shrey150/openclaw-browserbase/internal/config"
)

func TestConfigPathCommand(t *testing.T) {
	home := testHome(t)

	output, err := runCLI(t, "config-path")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := filepath.Join(home, "openclaw.json") + "\n"
	if output != want {
		t.Errorf("output = %q, want %q", output, want)
	}
}

func TestConfigPathCommandLegacy(t *testing.T) {
	home := testHome(t)

	output, err := runCLI(t, "config-path", "--legacy")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := filepath.Join(home, "config.toml") + "\n"
	if output != want {
		t.Errorf("output = %q, want %q", output, want)
	}
}

func TestConfigPathCommandEnvOverride(t *testing.T) {
	testHome(t)
	custom := filepath.Join(t.TempDir(), "custom.json")
	t.Setenv(config.EnvConfigPath, custom)

	output, err := runCLI(t, "config-path")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if output != custom+"\n" {
		t.Errorf("output = %q, want %q", output, custom+"\n")
	}
}
