package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"scribe/internal/watch"
)

var (
	watchAutoUpload     bool
	watchAutoTranscribe bool
)

var watchCmd = &cobra.Command{
	Use:   "watch [diretório]...",
	Short: "Observa diretórios e envia novos arquivos de áudio",
	Long: `Observa diretórios e envia cada novo arquivo de áudio assim que ele
termina de ser gravado. Sem argumentos, usa os diretórios do arquivo de
configuração.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dirs := args
		if len(dirs) == 0 {
			dirs = cfg.Watch.Directories
		}
		if len(dirs) == 0 {
			return fmt.Errorf("nenhum diretório para observar; informe um argumento ou configure watch.directories")
		}

		globs, err := cfg.AudioGlobs()
		if err != nil {
			return err
		}
		watcher, err := watch.New(globs)
		if err != nil {
			return err
		}
		for _, dir := range dirs {
			if err := watcher.AddDirectory(dir); err != nil {
				return err
			}
		}
		if err := watcher.Start(); err != nil {
			return err
		}

		// Config supplies the defaults; an explicit flag wins.
		autoUpload := cfg.Watch.AutoUpload
		if cmd.Flags().Changed("auto-upload") {
			autoUpload = watchAutoUpload
		}
		autoTranscribe := cfg.Watch.AutoTranscribe
		if cmd.Flags().Changed("auto-transcribe") {
			autoTranscribe = watchAutoTranscribe
		}

		runner := watch.NewRunner(client, watcher, watch.RunnerOptions{
			AutoUpload:     autoUpload,
			AutoTranscribe: autoTranscribe,
		})

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		fmt.Println("👀 Observando. Ctrl+C para sair.")
		runner.Run(ctx)
		fmt.Printf("Encerrado. %d arquivo(s) enviado(s).\n", runner.Uploaded())
		return nil
	},
}

func init() {
	watchCmd.Flags().BoolVar(&watchAutoUpload, "auto-upload", true, "envia automaticamente os arquivos detectados")
	watchCmd.Flags().BoolVar(&watchAutoTranscribe, "auto-transcribe", false, "inicia a transcrição após o envio")
	rootCmd.AddCommand(watchCmd)
}
