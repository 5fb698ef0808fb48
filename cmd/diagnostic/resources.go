package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/screening-diagnostic/internal/content"
	"github.com/jonathan/screening-diagnostic/internal/observability"
)

var resourcesCmd = &cobra.Command{
	Use:   "resources [NAME]",
	Short: "List or save the diagnostic template documents",
	Long:  "Without arguments, lists the downloadable documents. With a document name, writes it to the output directory.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runResources,
}

var resourcesOut string

func init() {
	resourcesCmd.Flags().StringVarP(&resourcesOut, "out", "o", ".", "Directory to write the document to")
	rootCmd.AddCommand(resourcesCmd)
}

func runResources(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		observability.NewPrinter(cmd.OutOrStdout()).PrintResources(content.Resources())
		return nil
	}

	doc, err := content.Get(args[0])
	if err != nil {
		return err
	}

	if err := os.MkdirAll(resourcesOut, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", resourcesOut, err)
	}
	path := filepath.Join(resourcesOut, doc.Filename)
	if err := os.WriteFile(path, []byte(doc.Body), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s to %s\n", doc.Title, path)
	return nil
}
