package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/config"
	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/logging"
	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/paths"
)

var version = "0.3.0"

var (
	configPath string
	logLevel   string

	// cfg is loaded once per invocation by the root pre-run hook.
	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:           "naming-nosferatu",
	Short:         "Pick candidate names for a tournament",
	Long:          "naming-nosferatu loads a catalogue of candidate names, filters it, and keeps your selection saved as you change it.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations["skipConfig"] == "true" {
			return nil
		}
		loaded, err := config.Load(configPath, paths.EnvFile())
		if err != nil {
			return err
		}
		if logLevel != "" {
			loaded.LogLevel = logLevel
		}
		lvl, err := logging.ParseLevel(loaded.LogLevel)
		if err != nil {
			return err
		}
		if err := logging.Init(paths.LogDir(), lvl); err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Close()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return listCmd.RunE(cmd, args)
	},
}

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Show version",
	Annotations: map[string]string{"skipConfig": "true"},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "naming-nosferatu %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", paths.ConfigFile(), "config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	addViewFlags(rootCmd)

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(pickCmd)
	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(deselectCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(hideCmd)
	rootCmd.AddCommand(unhideCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: ")+err.Error())
		os.Exit(1)
	}
}
