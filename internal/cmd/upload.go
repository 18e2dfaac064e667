package cmd

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"scribe/pkg/types"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <arquivo>...",
	Short: "Envia arquivos de áudio para o servidor",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := collectFiles(args)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("nenhum arquivo de áudio encontrado")
		}

		result, err := client.Upload(context.Background(), files)
		if err != nil {
			return fmt.Errorf("falha no envio: %w", err)
		}

		for _, f := range result.Files {
			fmt.Printf("✅ %s (%s)\n", f.Filename, humanize.Bytes(uint64(f.Size)))
		}
		return nil
	},
}

// collectFiles expands wildcard arguments and stats each match. Arguments
// that match nothing are treated as literal paths so the error points at
// the name the user typed.
func collectFiles(args []string) ([]types.QueuedFile, error) {
	var files []types.QueuedFile
	for _, arg := range args {
		paths, err := filepath.Glob(arg)
		if err != nil || len(paths) == 0 {
			paths = []string{arg}
		}
		for _, path := range paths {
			info, err := os.Stat(path)
			if err != nil {
				return nil, fmt.Errorf("arquivo %s: %w", path, err)
			}
			if info.IsDir() {
				continue
			}
			files = append(files, types.QueuedFile{
				Name:     filepath.Base(path),
				Path:     path,
				Size:     info.Size(),
				MimeType: mime.TypeByExtension(filepath.Ext(path)),
			})
		}
	}
	return files, nil
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}
