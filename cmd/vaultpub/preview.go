package main

import (
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show what a publish would change without touching anything",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, _, err := newPipeline()
		if err != nil {
			return err
		}

		preview, err := p.Preview(cmd.Context())
		if err != nil {
			return err
		}

		renderPreview(cmd.OutOrStdout(), preview)
		return nil
	},
}
