package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"scribe/internal/errors"
)

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:   "delete <arquivo>",
	Short: "Remove um arquivo do servidor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !deleteYes && !confirm(fmt.Sprintf("Remover %s do servidor?", args[0])) {
			fmt.Println("Cancelado.")
			return nil
		}

		err := client.DeleteFile(context.Background(), args[0])
		if errors.IsNotFound(err) {
			fmt.Printf("🚫 %s não está no servidor.\n", args[0])
			return nil
		}
		if err != nil {
			return fmt.Errorf("falha ao remover: %w", err)
		}

		fmt.Printf("✅ %s removido.\n", args[0])
		return nil
	},
}

func confirm(prompt string) bool {
	fmt.Printf("%s [s/N] ", prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	line = strings.ToLower(strings.TrimSpace(line))
	return line == "s" || line == "sim"
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "não pede confirmação")
	rootCmd.AddCommand(deleteCmd)
}
