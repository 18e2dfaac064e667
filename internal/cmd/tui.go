package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"scribe/internal/controller"
	"scribe/internal/log"
	"scribe/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Abre a interface interativa",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

func runTUI() error {
	opts, err := controller.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}

	// The alternate screen owns the terminal while the TUI runs.
	log.Default().SetOutput(io.Discard)

	adapter := tui.NewAdapter()
	ctrl := controller.New(client, adapter, controller.NewScheduler(), opts)
	return tui.Run(ctrl, adapter)
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
