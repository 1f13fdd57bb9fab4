package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func sessionUpdate(t *testing.T, m SessionModel, msg tea.Msg) (SessionModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	sm, ok := next.(SessionModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return sm, cmd
}

func TestSessionMenuToViewerAndBack(t *testing.T) {
	m := NewSessionModel(BuiltinItems(), nil, testMenuConfig(), ViewerOptions{})
	m, _ = sessionUpdate(t, m, tea.KeyMsg{Type: tea.KeyDown})

	m, cmd := sessionUpdate(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.screen != screenViewer || m.viewer == nil {
		t.Fatalf("enter should open the viewer, screen = %v", m.screen)
	}
	if cmd == nil {
		t.Error("opening the viewer should start the simulation")
	}
	if !strings.Contains(m.View(), "Tick:") {
		t.Error("viewer should show the HUD")
	}

	m, _ = sessionUpdate(t, m, runeKey('b'))
	if m.screen != screenMenu || m.viewer != nil {
		t.Fatalf("b should return to the menu, screen = %v", m.screen)
	}
	if m.menu.cursor != 1 {
		t.Errorf("menu cursor = %d, expected it kept at 1", m.menu.cursor)
	}
	if m.quitting {
		t.Error("going back is not a quit")
	}
}

func TestSessionRunsAndBack(t *testing.T) {
	m := NewSessionModel(BuiltinItems(), seededStore(t), testMenuConfig(), ViewerOptions{})

	m, _ = sessionUpdate(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.screen != screenRuns {
		t.Fatalf("tab should open the run board, screen = %v", m.screen)
	}
	if !strings.Contains(m.View(), "RUNS") {
		t.Error("run board should be shown")
	}

	m, _ = sessionUpdate(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.screen != screenMenu {
		t.Errorf("esc should return to the menu, screen = %v", m.screen)
	}
}

func TestSessionQuit(t *testing.T) {
	m := NewSessionModel(BuiltinItems(), nil, testMenuConfig(), ViewerOptions{})

	m, _ = sessionUpdate(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, cmd := sessionUpdate(t, m, runeKey('q'))
	if !m.quitting || cmd == nil {
		t.Error("q in the viewer should end the session")
	}
	if m.View() != "" {
		t.Error("view should be empty after quitting")
	}
}

func TestSessionLoadFailureShowsNotice(t *testing.T) {
	items := []LevelItem{{ID: "missing-level", Title: "Missing", Source: "builtin"}}
	m := NewSessionModel(items, nil, testMenuConfig(), ViewerOptions{})

	m, _ = sessionUpdate(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.screen != screenMenu {
		t.Fatalf("a failed load should stay on the menu, screen = %v", m.screen)
	}
	if m.notice == "" || !strings.Contains(m.View(), "missing-level") {
		t.Errorf("notice = %q", m.notice)
	}
}
