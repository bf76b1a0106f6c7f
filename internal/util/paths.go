package util

import (
	"os"
	"path/filepath"
)

// EnvOpenClawHome overrides the OpenClaw root directory when set.
const EnvOpenClawHome = "OPENCLAW_HOME"

// HomeDir returns the user's home directory
func HomeDir() string {
	home, _ := os.UserHomeDir()
	return home
}

// OpenClawDir returns the OpenClaw root directory, honoring OPENCLAW_HOME.
func OpenClawDir() string {
	if dir := os.Getenv(EnvOpenClawHome); dir != "" {
		return dir
	}
	return filepath.Join(HomeDir(), ".openclaw")
}

// SkillsPath returns the default skills install directory
func SkillsPath() string {
	return filepath.Join(OpenClawDir(), "skills")
}

// AbsPath resolves p against the current working directory. A blank p
// resolves to fallback unchanged.
func AbsPath(p, fallback string) string {
	if p == "" {
		return fallback
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}
