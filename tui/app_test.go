package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tonhe/acifault/internal/fault"
)

func testReport() Report {
	at := time.Date(2024, 5, 2, 8, 30, 0, 0, time.UTC)
	return Report{
		Faults: []fault.Fault{
			{Fabric: "apic1", FabricHealth: 40, Severity: fault.SeverityCritical, Code: "F0103",
				Descr: "first fault with a long description that only the detail view shows in full", LastTransition: at, Occur: 1},
			{Fabric: "apic2", FabricHealth: 90, Severity: fault.SeverityMinor, Code: "F0467",
				Descr: "second fault", LastTransition: at, Occur: 2},
		},
		Fabrics:    2,
		DescLength: 10,
		Since:      at.Add(-7 * 24 * time.Hour),
		Version:    "test",
	}
}

func send(m tea.Model, msgs ...tea.Msg) tea.Model {
	for _, msg := range msgs {
		m, _ = m.Update(msg)
	}
	return m
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestBrowserDetailAndBack(t *testing.T) {
	var m tea.Model = NewAppModel(testReport(), "solarized-dark")
	m = send(m, tea.WindowSizeMsg{Width: 200, Height: 40})

	view := m.View()
	if !strings.Contains(view, "F0103") {
		t.Errorf("expected list to show first fault")
	}
	if strings.Contains(view, "only the detail view") {
		t.Errorf("list should truncate descriptions")
	}

	m = send(m, keyMsg("down"), keyMsg("enter"))
	if m.(AppModel).State() != StateDetail {
		t.Fatalf("expected detail state after enter")
	}
	if !strings.Contains(m.View(), "second fault") {
		t.Errorf("expected detail of the selected (second) fault")
	}

	m = send(m, keyMsg("esc"))
	if m.(AppModel).State() != StateList {
		t.Errorf("expected esc to return to the list")
	}
}

func TestBrowserDetailShowsFullDescription(t *testing.T) {
	var m tea.Model = NewAppModel(testReport(), "nord")
	m = send(m, tea.WindowSizeMsg{Width: 200, Height: 40}, keyMsg("enter"))
	if !strings.Contains(m.View(), "only the detail view shows in full") {
		t.Errorf("detail view should show the untruncated description")
	}
}

func TestBrowserQuit(t *testing.T) {
	m := NewAppModel(testReport(), "unknown-theme")
	_, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("expected tea.QuitMsg")
	}
}

func TestBrowserEmptyReport(t *testing.T) {
	var m tea.Model = NewAppModel(Report{Version: "test"}, "solarized-dark")
	m = send(m, tea.WindowSizeMsg{Width: 120, Height: 20}, keyMsg("enter"))
	if m.(AppModel).State() != StateList {
		t.Errorf("enter on an empty list should not open the detail view")
	}
	if !strings.Contains(m.View(), "No faults to show") {
		t.Errorf("expected empty-state message")
	}
}
