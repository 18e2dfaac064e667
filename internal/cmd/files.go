package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"scribe/pkg/types"
)

var badgeColors = map[types.Status]lipgloss.Style{
	types.StatusProcessing: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	types.StatusCompleted:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	types.StatusError:      lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	types.StatusUploaded:   lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
}

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "Lista os arquivos no servidor",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := client.ListFiles(context.Background())
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			fmt.Println("Nenhum arquivo no servidor.")
			return nil
		}

		types.SortByRank(rows)
		for _, row := range rows {
			badge := row.Status.Badge()
			if style, ok := badgeColors[row.Status]; ok {
				badge = style.Render(badge)
			}
			line := fmt.Sprintf("%-14s %s", badge, row.DisplayName())
			if row.Size > 0 {
				line += "  " + humanize.Bytes(uint64(row.Size))
			}
			if row.Status == types.StatusCompleted && row.ProcessingTime > 0 {
				line += fmt.Sprintf("  (%.0fs)", row.ProcessingTime)
			}
			if row.Status == types.StatusError && row.Error != "" {
				line += "  " + row.Error
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(filesCmd)
}
