package watch

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmcrae/lampctl/internal/lamp"
)

func TestModel_StatusUpdateRendersState(t *testing.T) {
	m := New(lamp.NewClient("192.168.1.5"))

	updated, cmd := m.Update(statusMsg{
		status: &lamp.Status{On: true, TimeoutActive: true, RemainingSeconds: 125},
	})
	if cmd == nil {
		t.Error("status update should schedule the next poll")
	}

	view := updated.View()
	if !strings.Contains(view, "ON") {
		t.Errorf("view missing lamp state:\n%s", view)
	}
	if !strings.Contains(view, "2:05") {
		t.Errorf("view missing remaining time:\n%s", view)
	}
	if !strings.Contains(view, "192.168.1.5") {
		t.Errorf("view missing lamp address:\n%s", view)
	}
}

func TestModel_StatusErrorRendersMessage(t *testing.T) {
	m := New(lamp.NewClient("192.168.1.5"))

	updated, _ := m.Update(statusMsg{
		err: &lamp.DeviceError{Type: lamp.ErrTypeNetwork, Address: "192.168.1.5"},
	})

	view := updated.View()
	if !strings.Contains(view, "192.168.1.5") {
		t.Errorf("error view should name the address:\n%s", view)
	}
	if !strings.Contains(view, "Retrying") {
		t.Errorf("error view should mention the retry:\n%s", view)
	}
}

func TestModel_NoStatusData(t *testing.T) {
	m := New(lamp.NewClient("192.168.1.5"))

	updated, _ := m.Update(statusMsg{status: nil})

	if !strings.Contains(updated.View(), "no status data") {
		t.Errorf("nil status should render the no-data message:\n%s", updated.View())
	}
}

func TestModel_QuitKey(t *testing.T) {
	m := New(lamp.NewClient("192.168.1.5"))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should produce a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("q produced %T, want tea.QuitMsg", cmd())
	}
}

func TestModel_ActionTriggersRefetch(t *testing.T) {
	m := New(lamp.NewClient("192.168.1.5"))

	updated, cmd := m.Update(actionMsg{})
	if cmd == nil {
		t.Error("a completed action should trigger a status fetch")
	}
	if !updated.(Model).fetching {
		t.Error("model should be fetching after an action completes")
	}
}
