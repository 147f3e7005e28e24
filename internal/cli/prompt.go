package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nissyi-gh/guide/internal/prompt"
)

func newPromptCmd(f *flags) *cobra.Command {
	var fromList bool
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Print an LLM prompt whose answer can be passed to guide import",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !fromList {
				fmt.Fprint(cmd.OutOrStdout(), prompt.GenerateNew())
				return nil
			}
			_, logger, backend, cleanup, err := setup(cmd, f)
			if err != nil {
				return err
			}
			defer cleanup()
			defer backend.Close()

			tasks, err := backend.Load()
			if err != nil {
				logger.Error("load for prompt failed", "err", err)
				return fmt.Errorf("load tasks: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), prompt.GenerateFromTasks(tasks))
			return nil
		},
	}
	cmd.Flags().BoolVar(&fromList, "from-list", false, "include the current task list in the prompt")
	return cmd
}
