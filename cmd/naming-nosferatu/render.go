package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/names"
	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/session"
)

// selectionReader is the part of a session the renderers need.
type selectionReader interface {
	IsSelected(id names.ID) bool
}

func checkbox(selected bool) string {
	if selected {
		return selectedStyle.Render("[x]")
	}
	return unselectedStyle.Render("[ ]")
}

// itemLine renders one name as "[x] Name  (category, id)".
func itemLine(it names.Item, selected, details bool) string {
	label := it.Name
	switch {
	case it.Hidden:
		label = hiddenStyle.Render(label + " (hidden)")
	case selected:
		label = selectedStyle.Render(label)
	}
	var extra []string
	if it.Category != "" {
		extra = append(extra, it.Category)
	}
	extra = append(extra, "#"+string(it.ID))
	if details {
		if it.Score != 0 {
			extra = append(extra, fmt.Sprintf("score %.0f", it.Score))
		}
		if it.SubmittedBy != "" {
			extra = append(extra, "by "+it.SubmittedBy)
		}
	}
	return fmt.Sprintf("%s %s  %s", checkbox(selected), label, detailStyle.Render("("+strings.Join(extra, ", ")+")"))
}

func renderSummary(w io.Writer, scope names.Scope, sum session.Summary) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%s names", strings.ToUpper(scope.String()[:1])+scope.String()[1:])))
	fmt.Fprintln(w, detailStyle.Render(fmt.Sprintf("%d total · %d shown · %d selected", sum.Total, sum.Visible, sum.SelectedCount)))
}

// renderItems writes one line per item. Analysis and profile views carry
// score and submitter details.
func renderItems(w io.Writer, items []names.Item, sel selectionReader, details bool) {
	if len(items) == 0 {
		fmt.Fprintln(w, helpStyle.Render("  No names match the current filters."))
		return
	}
	for _, it := range items {
		fmt.Fprintln(w, "  "+itemLine(it, sel.IsSelected(it.ID), details))
	}
}
