package cmd

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"scribe/pkg/types"
)

var viewCopy bool

var viewCmd = &cobra.Command{
	Use:   "view <arquivo>",
	Short: "Mostra a transcrição de um arquivo",
	Long: `Mostra a transcrição de um arquivo processado. O argumento é o nome do
arquivo de áudio no servidor; o nome do texto é derivado dele.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := types.TranscriptName(args[0])
		tr, err := client.GetTranscription(context.Background(), name)
		if err != nil {
			return fmt.Errorf("falha ao carregar a transcrição: %w", err)
		}

		fmt.Println(tr.Transcription)
		if viewCopy {
			if err := clipboard.WriteAll(tr.Transcription); err != nil {
				fmt.Printf("⚠️  Não foi possível copiar: %v\n", err)
			} else {
				fmt.Println("📋 Copiado para a área de transferência.")
			}
		}
		return nil
	},
}

func init() {
	viewCmd.Flags().BoolVar(&viewCopy, "copy", false, "copia a transcrição para a área de transferência")
	rootCmd.AddCommand(viewCmd)
}
