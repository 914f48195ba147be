package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/names"
	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/store"
)

var hideCmd = &cobra.Command{
	Use:   "hide <id>...",
	Short: "Hide names from tournament play (admin)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setHidden(cmd, args, true)
	},
}

var unhideCmd = &cobra.Command{
	Use:   "unhide <id>...",
	Short: "Return hidden names to tournament play (admin)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setHidden(cmd, args, false)
	},
}

func setHidden(cmd *cobra.Command, args []string, hidden bool) error {
	if !cfg.Admin {
		return errors.New("hiding names needs admin: set admin: true in the config or NOSFERATU_ADMIN=true")
	}
	ctx := cmd.Context()
	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close(ctx)

	verb := "Hid"
	if !hidden {
		verb = "Unhid"
	}
	for _, a := range args {
		err := st.SetHidden(ctx, names.ID(a), hidden)
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no name with id %q", a)
		}
		if err != nil {
			return err
		}
		fmt.Printf("  ✓ %s #%s\n", verb, a)
	}
	return nil
}
