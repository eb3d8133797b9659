package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/vaultpub/pkg/config"
	"github.com/arthur-debert/vaultpub/pkg/gitrepo"
)

var branchesCmd = &cobra.Command{
	Use:   "branches",
	Short: "List branches of the publish repository",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(vaultRoot)
		if err != nil {
			return err
		}
		repo, err := gitrepo.Open(cfg.PublishDir)
		if err != nil {
			return err
		}

		branches, err := repo.Branches()
		if err != nil {
			return err
		}
		for i, b := range branches {
			marker := " "
			if i == 0 {
				marker = "*"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, b)
		}
		return nil
	},
}
