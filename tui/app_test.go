package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"confdesk-cli/model"
	"confdesk-cli/wizard"
)

type testItem struct {
	value string
}

func (t testItem) Title() string       { return t.value }
func (t testItem) Description() string { return "" }
func (t testItem) FilterValue() string { return strings.ToLower(t.value) }

func newFilterModel(items []list.Item) *appModel {
	model := New().(appModel)
	model.state = stateSelectMode
	model.modeList = newList("Conference Desk")
	model.modeList.SetItems(items)
	return &model
}

func TestHandleFilterInput_AppendsRunes(t *testing.T) {
	m := newFilterModel([]list.Item{
		testItem{value: "New technical conference"},
		testItem{value: "New research conference"},
	})

	if !m.handleFilterInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")}) {
		t.Fatal("expected filter input to be handled")
	}
	if got := m.modeList.FilterValue(); got != "r" {
		t.Fatalf("expected filter value to be %q, got %q", "r", got)
	}

	if !m.handleFilterInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")}) {
		t.Fatal("expected filter input to be handled")
	}
	if got := m.modeList.FilterValue(); got != "re" {
		t.Fatalf("expected filter value to be %q, got %q", "re", got)
	}
}

func TestHandleFilterInput_Backspace(t *testing.T) {
	m := newFilterModel([]list.Item{
		testItem{value: "New technical conference"},
	})

	_ = m.handleFilterInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("t")})
	_ = m.handleFilterInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})

	if got := m.modeList.FilterValue(); got != "te" {
		t.Fatalf("expected filter value to be %q, got %q", "te", got)
	}

	if !m.handleFilterInput(tea.KeyMsg{Type: tea.KeyBackspace}) {
		t.Fatal("expected backspace to be handled")
	}
	if got := m.modeList.FilterValue(); got != "t" {
		t.Fatalf("expected filter value to be %q, got %q", "t", got)
	}
}

func TestHandleFilterInput_IgnoredInForms(t *testing.T) {
	m := New().(appModel)
	m.ws = wizard.NewWorkingSet(model.ConferenceTechnical)
	m.steps = wizard.NewSteps(wizard.ModeCreate)
	m.openBasicInfoForm()

	if m.handleFilterInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")}) {
		t.Fatal("expected rune input to reach the form, not the filter")
	}
}

func TestNextStepGatesOnBoundarySessions(t *testing.T) {
	m := New().(appModel)
	m.ws = wizard.NewWorkingSet(model.ConferenceTechnical)
	m.steps = wizard.NewSteps(wizard.ModeCreate).Advance().Advance()
	m.state = stateSessions

	next, cmd, handled := m.nextStep()
	if !handled {
		t.Fatal("expected ctrl+n to be handled on the sessions step")
	}
	if next.state != stateSessions {
		t.Fatalf("expected to stay on sessions, got state %d", next.state)
	}
	if cmd == nil {
		t.Fatal("expected an error command for the missing boundary sessions")
	}
	if _, ok := cmd().(errMsg); !ok {
		t.Fatal("expected an errMsg from the gate")
	}
}

func TestGoBackFromErrorRestoresState(t *testing.T) {
	m := New().(appModel)
	m.ws = wizard.NewWorkingSet(model.ConferenceTechnical)
	m.state = stateError
	m.lastState = stateSessions

	next, _, handled := m.goBack()
	if !handled {
		t.Fatal("expected esc to be handled")
	}
	if next.state != stateSessions {
		t.Fatalf("expected to return to sessions, got state %d", next.state)
	}
}
