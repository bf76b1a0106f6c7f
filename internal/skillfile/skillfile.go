// Package skillfile reads SKILL.md skill descriptors: a YAML frontmatter
// block between --- delimiters followed by a markdown body.
package skillfile

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Meta is the YAML frontmatter of a SKILL.md file.
type Meta struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// File is a parsed SKILL.md document.
type File struct {
	Meta Meta
	Body string
}

var delimiter = []byte("---")

// SplitFrontmatter separates the frontmatter block from the markdown body.
// ok is false when the content carries no well-formed block, in which case
// body holds the whole input. Both Unix and Windows line endings are
// accepted; the returned frontmatter is normalized to Unix endings.
func SplitFrontmatter(content []byte) (frontmatter []byte, body string, ok bool) {
	if !bytes.HasPrefix(content, []byte("---\n")) && !bytes.HasPrefix(content, []byte("---\r\n")) {
		return nil, string(content), false
	}

	remaining := content[len(delimiter):]
	if bytes.HasPrefix(remaining, []byte("\r\n")) {
		remaining = remaining[2:]
	} else if bytes.HasPrefix(remaining, []byte("\n")) {
		remaining = remaining[1:]
	}

	var raw []byte
	var bodyStart int
	found := false

	if bytes.HasPrefix(remaining, delimiter) {
		// Empty frontmatter: ---\n---\n
		raw = []byte{}
		bodyStart = len(delimiter)
		found = true
	} else {
		for _, eol := range []string{"\n", "\r\n"} {
			closing := append([]byte(eol), delimiter...)
			if idx := bytes.Index(remaining, closing); idx != -1 {
				raw = remaining[:idx]
				bodyStart = idx + len(closing)
				found = true
				break
			}
		}
	}

	if !found {
		return nil, string(content), false
	}

	raw = bytes.ReplaceAll(raw, []byte("\r\n"), []byte("\n"))
	raw = bytes.TrimRight(raw, "\r")

	if bodyStart < len(remaining) {
		if bytes.HasPrefix(remaining[bodyStart:], []byte("\r\n")) {
			bodyStart += 2
		} else if bytes.HasPrefix(remaining[bodyStart:], []byte("\n")) {
			bodyStart++
		}
	}
	if bodyStart < len(remaining) {
		body = string(remaining[bodyStart:])
	}

	return raw, body, true
}

// Parse decodes a SKILL.md document and validates its metadata.
func Parse(content []byte) (*File, error) {
	raw, body, ok := SplitFrontmatter(content)
	if !ok {
		return nil, fmt.Errorf("missing frontmatter block")
	}

	var meta Meta
	if len(raw) > 0 {
		if err := yaml.Unmarshal(raw, &meta); err != nil {
			return nil, fmt.Errorf("parse frontmatter: %w", err)
		}
	}
	if err := meta.Validate(); err != nil {
		return nil, err
	}

	return &File{Meta: meta, Body: body}, nil
}

// Load reads and parses a SKILL.md from disk.
func Load(path string) (*File, error) {
	content, err := os.ReadFile(path) // #nosec G304 - callers pass paths inside the managed skills directory
	if err != nil {
		return nil, err
	}
	f, err := Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Validate checks that the metadata identifies a skill.
func (m Meta) Validate() error {
	name := strings.TrimSpace(m.Name)
	if name == "" {
		return fmt.Errorf("skill name is required")
	}
	if name != m.Name {
		return fmt.Errorf("skill name has surrounding whitespace: %q", m.Name)
	}
	for _, r := range name {
		if !isNameChar(r) {
			return fmt.Errorf("skill name contains invalid character %q: %q", r, name)
		}
	}
	return nil
}

func isNameChar(r rune) bool {
	return (r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9') ||
		r == '-' || r == '_'
}
