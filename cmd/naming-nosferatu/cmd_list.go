package main

import (
	"github.com/spf13/cobra"

	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/names"
)

var view viewOptions

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Show the candidate names for the current filters",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, cleanup, err := openSession(cmd.Context(), cfg, view)
		if err != nil {
			return err
		}
		defer cleanup()

		out := cmd.OutOrStdout()
		renderSummary(out, s.Scope(), s.Summary())
		items := s.FilteredItems()
		if s.SwipeMode() {
			items = s.SwipeItems()
		}
		renderItems(out, items, s, s.Scope() != names.ScopeTournament)
		return nil
	},
}

// addViewFlags registers the view and filter flags on every command.
func addViewFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.BoolVar(&view.profile, "profile", false, "profile view: your names, read-only")
	f.BoolVar(&view.analysis, "analysis", false, "analysis overlay on the tournament view")
	f.BoolVar(&view.swipe, "swipe", false, "show the swipe deck instead of the full list")
	f.BoolVar(&view.selectedOnly, "selected-only", false, "swipe deck shows selected names only")

	f.StringVar(&view.search, "search", "", "filter by name or description")
	f.StringVar(&view.category, "category", "", "filter by category (all for every category)")
	f.StringVar(&view.sortBy, "sort", "", "sort by alphabetical, score, popularity or date")
	f.StringVar(&view.order, "order", "", "sort order: asc or desc")
	f.StringVar(&view.status, "status", "", "visibility: visible, hidden or all (analysis/profile, admins only)")
	f.StringVar(&view.selection, "selection", "", "selection: all, selected or unselected (analysis/profile)")
	f.StringVar(&view.userFilter, "user-filter", "", "submitter: a user name, me, or all (analysis/profile)")
	f.StringVar(&view.date, "date", "", "age: all, today, week, month or year (analysis/profile)")
}
