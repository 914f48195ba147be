package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/fallback"
	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/names"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load candidate names into the store",
	Long:  "seed inserts or updates names in the configured store. Without --file it loads the built-in list.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var items []names.Item
		if seedFile == "" {
			items = fallback.Names()
		} else {
			data, err := os.ReadFile(seedFile)
			if err != nil {
				return err
			}
			items, err = fallback.Parse(data)
			if err != nil {
				return err
			}
		}
		for i := range items {
			if items[i].SubmittedBy == "" {
				items[i].SubmittedBy = cfg.User
			}
		}

		ctx := cmd.Context()
		st, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close(ctx)

		if err := st.UpsertItems(ctx, items); err != nil {
			return fmt.Errorf("seeding names: %w", err)
		}
		fmt.Println(selectedStyle.Render(fmt.Sprintf("✓ Seeded %d name(s) into the %s store.", len(items), cfg.Store.Driver)))
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "YAML list of names (id, name, description, category)")
}
