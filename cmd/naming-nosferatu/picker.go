package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/names"
)

// selector is the slice of a session the picker drives.
type selector interface {
	Toggle(id names.ID)
	SelectAll()
	Clear()
	IsSelected(id names.ID) bool
}

// picker is a multi-select TUI over a fixed list of names. Every toggle goes
// straight to the selector, so the session's debounced saves run while the
// user is still picking.
type picker struct {
	title     string
	items     []names.Item
	sel       selector
	details   bool
	cursor    int
	done      bool
	cancelled bool
}

func newPicker(title string, items []names.Item, sel selector, details bool) picker {
	return picker{
		title:   title,
		items:   items,
		sel:     sel,
		details: details,
	}
}

func (p picker) Init() tea.Cmd { return nil }

func (p picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			p.cancelled = true
			p.done = true
			return p, tea.Quit
		case "up", "k":
			if p.cursor > 0 {
				p.cursor--
			}
		case "down", "j":
			if p.cursor < len(p.items) {
				p.cursor++
			}
		case "enter", " ":
			if p.cursor == len(p.items) {
				p.done = true
				return p, tea.Quit
			}
			p.sel.Toggle(p.items[p.cursor].ID)
		case "a":
			p.sel.SelectAll()
		case "n":
			p.sel.Clear()
		}
	}
	return p, nil
}

func (p picker) View() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("  %s\n", headerStyle.Render(p.title)))
	b.WriteString(helpStyle.Render("  enter: toggle · a: select all · n: clear · q: cancel") + "\n\n")

	if len(p.items) == 0 {
		b.WriteString(helpStyle.Render("  No names match the current filters.") + "\n")
	}
	for i, it := range p.items {
		cursor := "  "
		if p.cursor == i {
			cursor = cursorStyle.Render("> ")
		}
		b.WriteString(fmt.Sprintf("  %s%s\n", cursor, itemLine(it, p.sel.IsSelected(it.ID), p.details)))
	}

	b.WriteString("\n")
	if p.cursor == len(p.items) {
		b.WriteString("  " + cursorStyle.Render("> [ Confirm ]") + "\n")
	} else {
		b.WriteString("    [ Confirm ]\n")
	}
	return b.String()
}

// Confirmed reports whether the user left through the confirm row.
func (p picker) Confirmed() bool {
	return p.done && !p.cancelled
}

// runPicker runs the picker to completion and reports whether the user
// confirmed.
func runPicker(title string, items []names.Item, sel selector, details bool) (bool, error) {
	p := newPicker(title, items, sel, details)
	model, err := tea.NewProgram(p).Run()
	if err != nil {
		return false, err
	}
	return model.(picker).Confirmed(), nil
}
