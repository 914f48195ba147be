// Package filter provides the pure filter/sort pipeline over name items.
// Apply never mutates its input and returns the same id sequence for the
// same input, selection snapshot included.
package filter

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/names"
	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/selection"
)

// Input is everything the pipeline reads.
type Input struct {
	Items    []names.Item
	Config   Config
	Scope    names.Scope
	IsAdmin  bool
	Selected selection.Set // snapshot; never written
	Now      time.Time     // reference time for the date filter
}

// Apply runs the pipeline: visibility, search, category, user/date,
// selection, then a stable sort. The order of the steps is fixed.
func Apply(in Input) []names.Item {
	if len(in.Items) == 0 {
		return []names.Item{}
	}

	cfg := in.Config
	if cfg == nil {
		cfg = Tournament{}
	}
	full, isFull := cfg.(Full)
	base := cfg.base()

	out := ByVisibility(in.Items, effectiveStatus(in, full, isFull))
	out = BySearch(out, base.SearchTerm)
	out = ByCategory(out, base.Category)
	if isFull {
		out = ByUser(out, full.UserFilter)
		out = ByDate(out, full.DateFilter, in.Now)
		out = BySelection(out, full.SelectionFilter, in.Selected)
	}
	return Sort(out, base.SortBy, base.SortOrder)
}

// SwipeView is Apply followed by the "show selected only" toggle.
func SwipeView(in Input, showSelectedOnly bool) []names.Item {
	out := Apply(in)
	if !showSelectedOnly {
		return out
	}
	return BySelection(out, SelectionSelected, in.Selected)
}

// IDs returns the ids of items in order.
func IDs(items []names.Item) []names.ID {
	ids := make([]names.ID, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}

// effectiveStatus decides which hidden states pass. Scopes that force
// visibility win over everything; non-admins only ever see visible items;
// admins get their explicit status, or everything when none is set.
func effectiveStatus(in Input, full Full, isFull bool) Status {
	if in.Scope.Rules().ForceVisible || !in.IsAdmin {
		return StatusVisible
	}
	if !isFull || full.FilterStatus == StatusUnset {
		return StatusAll
	}
	return full.FilterStatus
}

// ByVisibility keeps items whose hidden flag matches status.
func ByVisibility(items []names.Item, status Status) []names.Item {
	result := make([]names.Item, 0, len(items))
	for _, it := range items {
		switch status {
		case StatusHidden:
			if !it.Hidden {
				continue
			}
		case StatusAll:
		default:
			if it.Hidden {
				continue
			}
		}
		result = append(result, it.Clone())
	}
	return result
}

// BySearch keeps items whose name or description contains term, ignoring
// case. An empty term keeps everything.
func BySearch(items []names.Item, term string) []names.Item {
	term = strings.TrimSpace(term)
	if term == "" {
		return items
	}
	fold := cases.Fold()
	needle := fold.String(term)

	result := make([]names.Item, 0, len(items))
	for _, it := range items {
		if strings.Contains(fold.String(it.Name), needle) ||
			strings.Contains(fold.String(it.Description), needle) {
			result = append(result, it)
		}
	}
	return result
}

// ByCategory keeps items of category. Empty or "all" keeps everything.
func ByCategory(items []names.Item, category string) []names.Item {
	if category == "" || category == CategoryAll {
		return items
	}
	result := make([]names.Item, 0, len(items))
	for _, it := range items {
		if it.Category == category {
			result = append(result, it)
		}
	}
	return result
}

// ByUser keeps items submitted by user. Empty or "all" keeps everything.
func ByUser(items []names.Item, user string) []names.Item {
	if user == "" || user == "all" {
		return items
	}
	result := make([]names.Item, 0, len(items))
	for _, it := range items {
		if it.SubmittedBy == user {
			result = append(result, it)
		}
	}
	return result
}

// dateWindows maps each date filter to its look-back window.
var dateWindows = map[DateFilter]time.Duration{
	DateToday: 24 * time.Hour,
	DateWeek:  7 * 24 * time.Hour,
	DateMonth: 30 * 24 * time.Hour,
	DateYear:  365 * 24 * time.Hour,
}

// ByDate keeps items created within the window of filter before now. Items
// without a creation time never match a bounded window. A zero now disables
// the filter.
func ByDate(items []names.Item, filter DateFilter, now time.Time) []names.Item {
	window, ok := dateWindows[filter]
	if !ok || now.IsZero() {
		return items
	}
	cutoff := now.Add(-window)
	result := make([]names.Item, 0, len(items))
	for _, it := range items {
		if !it.CreatedAt.IsZero() && !it.CreatedAt.Before(cutoff) {
			result = append(result, it)
		}
	}
	return result
}

// BySelection intersects items with selected, or with its complement.
func BySelection(items []names.Item, filter SelectionFilter, selected selection.Set) []names.Item {
	if filter != SelectionSelected && filter != SelectionUnselected {
		return items
	}
	want := filter == SelectionSelected
	result := make([]names.Item, 0, len(items))
	for _, it := range items {
		if selected.Has(it.ID) == want {
			result = append(result, it)
		}
	}
	return result
}

// Sort orders items by key and direction. The sort is stable in both
// directions, so equal keys keep fetch order.
func Sort(items []names.Item, key SortBy, order SortOrder) []names.Item {
	result := slices.Clone(items)
	compare := comparator(key)
	if order == OrderDesc {
		asc := compare
		compare = func(a, b names.Item) int { return asc(b, a) }
	}
	slices.SortStableFunc(result, compare)
	return result
}

func comparator(key SortBy) func(a, b names.Item) int {
	switch key {
	case SortScore:
		return func(a, b names.Item) int { return cmp.Compare(a.Score, b.Score) }
	case SortPopularity:
		return func(a, b names.Item) int { return cmp.Compare(a.PopularityScore, b.PopularityScore) }
	case SortDate:
		return func(a, b names.Item) int { return a.CreatedAt.Compare(b.CreatedAt) }
	default:
		col := collate.New(language.Und, collate.IgnoreCase)
		return func(a, b names.Item) int { return col.CompareString(a.Name, b.Name) }
	}
}
