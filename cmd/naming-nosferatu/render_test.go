package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/names"
	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/session"
)

func TestItemLine(t *testing.T) {
	it := names.Item{ID: "7", Name: "Nosferatu", Category: "classic", Score: 42, SubmittedBy: "mina"}

	line := itemLine(it, true, false)
	assert.Contains(t, line, "[x] Nosferatu")
	assert.Contains(t, line, "(classic, #7)")
	assert.NotContains(t, line, "score")

	line = itemLine(it, false, true)
	assert.Contains(t, line, "[ ] Nosferatu")
	assert.Contains(t, line, "score 42")
	assert.Contains(t, line, "by mina")
}

func TestItemLineHidden(t *testing.T) {
	line := itemLine(names.Item{ID: "2", Name: "Orlok", Hidden: true}, false, false)
	assert.Contains(t, line, "Orlok (hidden)")
}

func TestRenderItems(t *testing.T) {
	items := []names.Item{{ID: "1", Name: "Vlad"}, {ID: "2", Name: "Lilith"}}
	sel := newFakeSelector(items)
	sel.selected["2"] = true

	var buf bytes.Buffer
	renderItems(&buf, items, sel, false)
	assert.Contains(t, buf.String(), "[ ] Vlad")
	assert.Contains(t, buf.String(), "[x] Lilith")

	buf.Reset()
	renderItems(&buf, nil, sel, false)
	assert.Contains(t, buf.String(), "No names match")
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	renderSummary(&buf, names.ScopeProfile, session.Summary{Total: 12, Visible: 5, SelectedCount: 3})
	assert.Contains(t, buf.String(), "Profile names")
	assert.Contains(t, buf.String(), "12 total · 5 shown · 3 selected")
}
