package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"scribe/internal/errors"
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <arquivo>",
	Short: "Inicia a transcrição de um arquivo já enviado",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := client.StartTranscription(context.Background(), args[0])
		if errors.IsNotFound(err) {
			fmt.Printf("🚫 %s não está mais no servidor.\n", args[0])
			return nil
		}
		if err != nil {
			return fmt.Errorf("falha ao iniciar transcrição: %w", err)
		}

		fmt.Printf("✅ Transcrição iniciada para %s (%s)\n", result.Filename, result.Status)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(transcribeCmd)
}
