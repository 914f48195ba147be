package main

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/names"
	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/session"
)

var clearYes bool

var selectCmd = &cobra.Command{
	Use:   "select <id>...",
	Short: "Add names to your tournament selection",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return changeSelection(cmd, func(s *session.Session) error {
			ids, err := knownIDs(s, args)
			if err != nil {
				return err
			}
			s.ToggleManyByIDs(ids, true)
			return nil
		})
	},
}

var deselectCmd = &cobra.Command{
	Use:   "deselect <id>...",
	Short: "Remove names from your tournament selection",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return changeSelection(cmd, func(s *session.Session) error {
			ids := make([]names.ID, len(args))
			for i, a := range args {
				ids[i] = names.ID(a)
			}
			s.ToggleManyByIDs(ids, false)
			return nil
		})
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Deselect every name",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !clearYes {
			confirm := false
			err := huh.NewForm(
				huh.NewGroup(
					huh.NewConfirm().
						Title("Clear your whole selection?").
						Affirmative("Clear").
						Negative("Keep").
						Value(&confirm),
				),
			).Run()
			if err != nil {
				return fmt.Errorf("prompt cancelled: %w", err)
			}
			if !confirm {
				fmt.Println("Selection kept.")
				return nil
			}
		}
		return changeSelection(cmd, func(s *session.Session) error {
			s.Clear()
			return nil
		})
	},
}

func init() {
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "skip the confirmation prompt")
}

// changeSelection opens a tournament session, applies change and saves the
// result immediately.
func changeSelection(cmd *cobra.Command, change func(s *session.Session) error) error {
	if view.profile {
		return errors.New("the profile view is read-only; drop --profile")
	}
	s, cleanup, err := openSession(cmd.Context(), cfg, view)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := change(s); err != nil {
		return err
	}
	sent, err := commit(s)
	if err != nil {
		return err
	}
	n := len(s.SelectedItems())
	if sent {
		fmt.Println(selectedStyle.Render(fmt.Sprintf("✓ Saved %d selected name(s).", n)))
	} else {
		fmt.Printf("Selection unchanged (%d selected).\n", n)
	}
	return nil
}

// knownIDs rejects ids that are not in the loaded list, so a typo does not
// silently save an id nobody can see.
func knownIDs(s *session.Session, args []string) ([]names.ID, error) {
	idx := names.Index(s.Items())
	ids := make([]names.ID, 0, len(args))
	for _, a := range args {
		id := names.ID(a)
		if _, ok := idx[id]; !ok {
			return nil, fmt.Errorf("no name with id %q", a)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
