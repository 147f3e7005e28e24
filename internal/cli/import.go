package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nissyi-gh/guide/internal/importer"
)

func newImportCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Append tasks from a YAML file",
		Long: `Append tasks from a YAML file of the form

tasks:
  - kind: deadline
    description: return book
    by: 2/12/2019 1800
    done: false
    tag: school

Every entry is validated first; if any is invalid nothing is saved.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			_, logger, backend, cleanup, err := setup(cmd, f)
			if err != nil {
				return err
			}
			defer cleanup()
			defer backend.Close()

			n, err := importer.Import(backend, string(b))
			if err != nil {
				logger.Error("import failed", "file", args[0], "err", err)
				return err
			}
			logger.Info("imported tasks", "file", args[0], "count", n)
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d tasks.\n", n)
			return nil
		},
	}
}
