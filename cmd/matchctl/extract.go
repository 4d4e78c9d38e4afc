package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"jobmatch-backend/internal/extract"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Print the plain text extracted from a PDF, DOCX or text résumé",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		text, err := extractFile(args[0], format)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
		return err
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().String("format", "", "declared format (pdf, docx, txt); inferred from the file name when empty")
}

func extractFile(path, declared string) (string, error) {
	format := extract.ResolveFormat(declared, filepath.Base(path))
	if format == extract.FormatUnknown {
		return "", fmt.Errorf("%s: %w", path, extract.ErrUnsupportedFormat)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return extract.FromBytes(format, data)
}
