package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/vaultpub/pkg/config"
)

var criteriaCmd = &cobra.Command{
	Use:   "criteria",
	Short: "Print the configured publish criteria tree",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(vaultRoot)
		if err != nil {
			return err
		}

		crit, err := cfg.Criterion()
		if err != nil {
			return err
		}
		if crit == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No criteria configured; nothing is selected for publishing.")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), crit.Summary())
		return nil
	},
}
