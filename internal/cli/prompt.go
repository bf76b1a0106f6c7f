package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shrey150/openclaw-browserbase/internal/browserbase"
)

// CredentialPrompter collects credentials through plain line-based prompts
// on stdin. The setup command uses it when the interactive form is
// unavailable (no terminal) or declined (--no-input).
type CredentialPrompter struct {
	reader *bufio.Reader
}

// NewCredentialPrompter creates a prompter reading from stdin.
func NewCredentialPrompter() *CredentialPrompter {
	return newCredentialPrompter(os.Stdin)
}

func newCredentialPrompter(r io.Reader) *CredentialPrompter {
	return &CredentialPrompter{reader: bufio.NewReader(r)}
}

// ReadCredentials prompts for each credential field in turn. The current
// value is shown masked in the prompt, and a blank answer keeps it.
func (cp *CredentialPrompter) ReadCredentials(current browserbase.Config) (apiKey, projectID, baseURL string, err error) {
	apiKey, err = cp.ask(fmt.Sprintf("API key [%s]: ", browserbase.MaskSecret(current.APIKey)))
	if err != nil {
		return "", "", "", err
	}

	projectLabel := current.ProjectID
	if projectLabel == "" {
		projectLabel = "not set"
	}
	projectID, err = cp.ask(fmt.Sprintf("Project ID [%s]: ", projectLabel))
	if err != nil {
		return "", "", "", err
	}

	baseURL, err = cp.ask(fmt.Sprintf("Base URL [%s]: ", current.BaseURL))
	if err != nil {
		return "", "", "", err
	}

	return apiKey, projectID, baseURL, nil
}

// Confirm asks a yes/no question. Only an explicit yes answer returns true.
func (cp *CredentialPrompter) Confirm(question string) (bool, error) {
	answer, err := cp.ask(question)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// ask prints the prompt and reads one trimmed line. End of input counts as
// a blank answer so piped stdin with fewer lines than prompts still works.
func (cp *CredentialPrompter) ask(prompt string) (string, error) {
	fmt.Print(prompt)

	line, err := cp.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
