package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/names"
)

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Interactively choose names for the tournament",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if view.profile {
			return fmt.Errorf("pick changes your tournament selection; drop --profile")
		}
		s, cleanup, err := openSession(cmd.Context(), cfg, view)
		if err != nil {
			return err
		}
		defer cleanup()

		items := s.FilteredItems()
		if s.SwipeMode() {
			items = s.SwipeItems()
		}
		sum := s.Summary()
		title := fmt.Sprintf("Choose names (%d of %d shown)", sum.Visible, sum.Total)
		confirmed, err := runPicker(title, items, s, s.Scope() != names.ScopeTournament)
		if err != nil {
			return err
		}
		if !confirmed {
			// Close in cleanup drops the pending save.
			fmt.Println("Cancelled; selection left as last saved.")
			return nil
		}

		sent, err := commit(s)
		if err != nil {
			return err
		}
		n := len(s.SelectedItems())
		if sent {
			fmt.Println(selectedStyle.Render(fmt.Sprintf("✓ Saved %d selected name(s).", n)))
		} else {
			fmt.Printf("%d name(s) selected.\n", n)
		}
		return nil
	},
}
