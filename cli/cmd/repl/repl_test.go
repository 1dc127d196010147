package repl

import (
	"io"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/f-space/rmmz-plugins-sub000/lang"
	"github.com/f-space/rmmz-plugins-sub000/log"
)

func newTestModel(t *testing.T) model {
	t.Helper()

	logger := log.Make(io.Discard)
	history := NewHistory(filepath.Join(t.TempDir(), baseHistory))

	return newModel(t.Context(), testEnv(), lang.NewCache(8, lang.WithLogger(logger)), history, logger)
}

func typeText(m model, s string) model {
	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})

	return m
}

func TestModel_Evaluate(t *testing.T) {
	m := newTestModel(t)

	tests := []struct {
		typ     lang.Type
		input   string
		want    string
		wantErr bool
	}{
		{lang.TypeAny, "speed * 2", "6", false},
		{lang.TypeAny, "actor.level + actor.stats.atk", "52", false},
		{lang.TypeAny, "double(speed) === 6", "true", false},
		{lang.TypeAny, "debug ? Math.max(1, 2) : 0", "2", false},
		{lang.TypeNumber, "debug", "TypeError", true},
		{lang.TypeAny, "missing", "ReferenceError", true},
		{lang.TypeAny, "1 +", "expected", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			m.typ = tt.typ

			got, err := m.evaluate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("evaluate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}

			if tt.wantErr {
				if !strings.Contains(got, tt.want) {
					t.Errorf("evaluate(%q) = %q, want it to contain %q", tt.input, got, tt.want)
				}

				return
			}

			if got != tt.want {
				t.Errorf("evaluate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestModel_SetType(t *testing.T) {
	m := newTestModel(t)

	m, msg := m.setType(nil)
	if m.typ != lang.TypeAny || !strings.Contains(msg, "any") {
		t.Errorf("setType() = %v, %q", m.typ, msg)
	}

	m, _ = m.setType([]string{"Boolean"})
	if m.typ != lang.TypeBoolean {
		t.Errorf("typ = %v, want boolean", m.typ)
	}

	m, msg = m.setType([]string{"string"})
	if m.typ != lang.TypeBoolean || !strings.Contains(msg, "unknown type") {
		t.Errorf("setType(string) = %v, %q", m.typ, msg)
	}
}

func TestModel_Completion(t *testing.T) {
	m := typeText(newTestModel(t), "actor.")

	if m.parent != "actor" {
		t.Fatalf("parent = %q, want actor", m.parent)
	}

	if len(m.matches) != 2 {
		t.Fatalf("matches = %v, want level and stats", m.matches)
	}

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyTab})
	if got := m.input.Value(); got != "actor.level" {
		t.Errorf("after tab = %q, want actor.level", got)
	}

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyTab})
	if got := m.input.Value(); got != "actor.stats" {
		t.Errorf("after second tab = %q, want actor.stats", got)
	}

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	if got := m.input.Value(); got != "actor." || m.tabActive {
		t.Errorf("after esc = %q (tab %v), want actor.", got, m.tabActive)
	}
}

func TestModel_CtrlCompletion(t *testing.T) {
	m := newTestModel(t)
	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})

	if m.mode != modeCtrl {
		t.Fatal("esc did not switch to command mode")
	}

	m = typeText(m, "ty")
	if len(m.matches) == 0 || m.matches[0].Str != "type" {
		t.Fatalf("matches = %v, want type first", m.matches)
	}

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyTab})
	m = typeText(m, " num")

	if len(m.matches) != 1 || m.matches[0].Str != "number" {
		t.Errorf("matches = %v, want number", m.matches)
	}
}

func TestModel_History(t *testing.T) {
	m := newTestModel(t)

	for _, e := range []HistoryEntry{{"1 + 1", modeEval}, {"list", modeCtrl}, {"speed", modeEval}} {
		if err := m.history.Add(e.Line, e.Mode); err != nil {
			t.Fatal(err)
		}
	}

	m.historyIdx = m.history.Len()

	m = m.historyStep(-1, false)
	if m.input.Value() != "speed" || m.mode != modeEval {
		t.Errorf("up = %q in mode %d", m.input.Value(), m.mode)
	}

	m = m.historyStep(-1, false)
	if m.input.Value() != "list" || m.mode != modeCtrl {
		t.Errorf("up twice = %q in mode %d", m.input.Value(), m.mode)
	}

	m = m.switchToMode(modeEval)
	m.historyIdx = m.history.Len()

	m = m.historyStep(-1, true)
	m = m.historyStep(-1, true)
	if m.input.Value() != "1 + 1" || m.mode != modeEval {
		t.Errorf("mode-only up twice = %q in mode %d", m.input.Value(), m.mode)
	}

	m = m.historyStep(1, true)
	m = m.historyStep(1, true)
	if m.input.Value() != "" || m.historyIdx != m.history.Len() {
		t.Errorf("down past newest = %q at %d", m.input.Value(), m.historyIdx)
	}
}

func TestModel_ExecuteInput(t *testing.T) {
	m := typeText(newTestModel(t), "speed + 1")

	m, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter produced no command")
	}

	if m.input.Value() != "" {
		t.Errorf("input not cleared: %q", m.input.Value())
	}

	if e, err := m.history.Entry(0); err != nil || e.Line != "speed + 1" {
		t.Errorf("history entry = %v, %v", e, err)
	}

	m = m.switchToMode(modeCtrl)
	m = typeText(m, "quit")

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.quitting {
		t.Error("quit did not stop the REPL")
	}
}
