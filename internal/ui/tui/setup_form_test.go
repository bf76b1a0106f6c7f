package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shrey150/openclaw-browserbase/internal/browserbase"
)

func typeRunes(t *testing.T, m SetupFormModel, text string) SetupFormModel {
	t.Helper()
	for _, r := range text {
		newModel, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = newModel.(SetupFormModel)
	}
	return m
}

func pressKey(t *testing.T, m SetupFormModel, keyType tea.KeyType) SetupFormModel {
	t.Helper()
	newModel, _ := m.Update(tea.KeyMsg{Type: keyType})
	return newModel.(SetupFormModel)
}

func TestNewSetupFormModel(t *testing.T) {
	m := NewSetupFormModel(browserbase.Config{})

	if len(m.inputs) != fieldCount {
		t.Errorf("expected %d inputs, got %d", fieldCount, len(m.inputs))
	}
	if m.focus != fieldAPIKey {
		t.Errorf("expected focus on API key field, got %d", m.focus)
	}
	if !m.inputs[fieldAPIKey].Focused() {
		t.Error("expected API key input to be focused")
	}
}

func TestNewSetupFormModel_MasksExistingSecret(t *testing.T) {
	m := NewSetupFormModel(browserbase.Config{
		APIKey:    "bb_live_abcdefghijklmnop",
		ProjectID: "proj-1234",
	})

	placeholder := m.inputs[fieldAPIKey].Placeholder
	if strings.Contains(placeholder, "abcdefghijklmnop") {
		t.Errorf("placeholder leaks the secret: %q", placeholder)
	}
	if !strings.Contains(placeholder, "bb_l...mnop") {
		t.Errorf("placeholder should show the masked key, got %q", placeholder)
	}
	if !strings.Contains(m.inputs[fieldProjectID].Placeholder, "proj-1234") {
		t.Errorf("project placeholder should show the current value, got %q",
			m.inputs[fieldProjectID].Placeholder)
	}
}

func TestSetupFormModel_Init(t *testing.T) {
	m := NewSetupFormModel(browserbase.Config{})
	if cmd := m.Init(); cmd == nil {
		t.Error("expected Init to return the cursor blink command")
	}
}

func TestSetupFormModel_TabCyclesFocus(t *testing.T) {
	m := NewSetupFormModel(browserbase.Config{})

	m = pressKey(t, m, tea.KeyTab)
	if m.focus != fieldProjectID {
		t.Errorf("expected focus on project field after tab, got %d", m.focus)
	}

	m = pressKey(t, m, tea.KeyTab)
	if m.focus != fieldBaseURL {
		t.Errorf("expected focus on base URL field, got %d", m.focus)
	}

	m = pressKey(t, m, tea.KeyTab)
	if m.focus != fieldAPIKey {
		t.Errorf("expected focus to wrap back to API key, got %d", m.focus)
	}

	m = pressKey(t, m, tea.KeyShiftTab)
	if m.focus != fieldBaseURL {
		t.Errorf("expected shift+tab to wrap backwards, got %d", m.focus)
	}
}

func TestSetupFormModel_EnterAdvancesThenSubmits(t *testing.T) {
	m := NewSetupFormModel(browserbase.Config{})

	m = typeRunes(t, m, "bb_live_key")
	m = pressKey(t, m, tea.KeyEnter)
	if m.focus != fieldProjectID {
		t.Fatalf("expected enter to advance focus, got %d", m.focus)
	}

	m = typeRunes(t, m, "proj-42")
	m = pressKey(t, m, tea.KeyEnter)
	if m.focus != fieldBaseURL {
		t.Fatalf("expected enter to advance to base URL, got %d", m.focus)
	}

	newModel, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = newModel.(SetupFormModel)

	if cmd == nil {
		t.Error("expected quit command after final enter")
	}
	result := m.Result()
	if result.Action != SetupActionSave {
		t.Fatalf("expected SetupActionSave, got %d", result.Action)
	}
	if result.APIKey != "bb_live_key" {
		t.Errorf("APIKey = %q", result.APIKey)
	}
	if result.ProjectID != "proj-42" {
		t.Errorf("ProjectID = %q", result.ProjectID)
	}
	if result.BaseURL != "" {
		t.Errorf("BaseURL = %q, want blank for keep-current", result.BaseURL)
	}
}

func TestSetupFormModel_AllBlankSubmitSkips(t *testing.T) {
	m := NewSetupFormModel(browserbase.Config{})

	for i := 0; i < fieldCount; i++ {
		m = pressKey(t, m, tea.KeyEnter)
	}

	if m.Result().Action != SetupActionNone {
		t.Errorf("expected blank submit to act as a skip, got %d", m.Result().Action)
	}
}

func TestSetupFormModel_EscCancels(t *testing.T) {
	m := NewSetupFormModel(browserbase.Config{})
	m = typeRunes(t, m, "bb_live_typed")

	newModel, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = newModel.(SetupFormModel)

	if cmd == nil {
		t.Error("expected quit command on escape")
	}
	if m.Result().Action != SetupActionNone {
		t.Errorf("expected SetupActionNone after cancel, got %d", m.Result().Action)
	}
}

func TestSetupFormModel_View(t *testing.T) {
	m := NewSetupFormModel(browserbase.Config{})
	view := m.View()

	for _, want := range []string{"Browserbase Setup", "API key", "Project ID", "Base URL"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}

func TestSetupFormModel_ViewHidesTypedSecret(t *testing.T) {
	m := NewSetupFormModel(browserbase.Config{})
	m = typeRunes(t, m, "bb_live_supersecret")

	if strings.Contains(m.View(), "bb_live_supersecret") {
		t.Error("typed API key must not render in clear text")
	}
}

func TestSetupFormModel_QuittingViewIsEmpty(t *testing.T) {
	m := NewSetupFormModel(browserbase.Config{})
	m = pressKey(t, m, tea.KeyEsc)

	if m.View() != "" {
		t.Error("expected empty view while quitting")
	}
}
