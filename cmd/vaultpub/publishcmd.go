package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/vaultpub/pkg/publish"
)

var (
	publishNoPush bool
	publishYes    bool
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Reconcile the publish directory and commit (and push) the result",
	Long: `publish selects the publishable files, mirrors them into the publish
directory (deleting notes that no longer match), stages and commits the
result, and pushes it to the configured branch.

With --no-push the changes are committed but not pushed. When the
configuration enables preview-before-publish, a preview is shown and
confirmation is asked first; answering anything but "y" cancels without
side effects.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, cfg, err := newPipeline()
		if err != nil {
			return err
		}

		if cfg.PreviewBeforePublish && !publishYes {
			preview, err := p.Preview(cmd.Context())
			if err != nil {
				return err
			}
			renderPreview(cmd.OutOrStdout(), preview)

			if !confirm(cmd, "Publish these changes?") {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
		}

		res, err := p.Publish(cmd.Context(), publish.Options{Push: !publishNoPush})
		if err != nil {
			return err
		}
		renderResult(cmd.OutOrStdout(), res)
		return nil
	},
}

func init() {
	publishCmd.Flags().BoolVar(&publishNoPush, "no-push", false, "Commit only, do not push")
	publishCmd.Flags().BoolVarP(&publishYes, "yes", "y", false, "Skip the confirmation prompt")
}

// confirm asks a y/N question on the command's input stream.
func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", prompt)
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(line), "y")
}
