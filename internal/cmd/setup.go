package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"scribe/internal/config"
)

var setupForce bool

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Cria o arquivo de configuração com os valores padrão",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			var err error
			path, err = config.DefaultConfigPath()
			if err != nil {
				return err
			}
		}

		if _, err := os.Stat(path); err == nil && !setupForce {
			fmt.Printf("🚫 %s já existe. Use --force para sobrescrever.\n", path)
			return nil
		}

		out := config.New()
		if serverURL != "" {
			out.Server.URL = serverURL
		}
		if err := config.SaveConfig(out, path); err != nil {
			return err
		}

		fmt.Printf("✅ Configuração criada em %s\n", path)
		return nil
	},
}

func init() {
	setupCmd.Flags().BoolVar(&setupForce, "force", false, "sobrescreve o arquivo existente")
	rootCmd.AddCommand(setupCmd)
}
