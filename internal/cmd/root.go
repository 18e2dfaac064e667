// Package cmd holds the scribe command tree. The root command loads the
// configuration and the shared API client; subcommands are one-shot
// operations against the transcription server, plus the interactive TUI
// and the directory watcher.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"scribe/internal/api"
	"scribe/internal/config"
	"scribe/internal/log"
)

var (
	cfgFile   string
	serverURL string
	logLevel  string

	cfg    *config.Config
	client *api.Client
)

var rootCmd = &cobra.Command{
	Use:   "scribe",
	Short: "Cliente para o servidor de transcrição Whisper",
	Long: `Scribe envia arquivos de áudio para um servidor de transcrição Whisper,
acompanha o andamento e recupera o texto transcrito.

Sem subcomando, abre a interface interativa.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfgFile != "" {
			cfg, err = config.LoadConfigFile(cfgFile)
		} else {
			cfg, err = config.LoadConfig()
		}
		if err != nil {
			fmt.Printf("⚠️  %v\n", err)
			fmt.Println("💡 Usando configuração padrão. Rode 'scribe setup' para criar o arquivo.")
			cfg = config.New()
		}

		if serverURL != "" {
			cfg.Server.URL = serverURL
		}
		if logLevel != "" {
			cfg.Log.Level = logLevel
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		log.Init(cfg.Log.Level)
		client = api.New(cfg.Server.URL, cfg.ServerTimeout())
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

// Execute runs the command tree.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "arquivo de configuração (padrão: ~/.config/scribe/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "URL do servidor de transcrição")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "", "nível de log (debug, info, warn, error, none)")
}
