package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/vaultpub/pkg/config"
	"github.com/arthur-debert/vaultpub/pkg/errors"
)

var initCmd = &cobra.Command{
	Use:   "init <publish-dir>",
	Short: "Write a starter .vaultpub.yaml for this vault",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := filepath.Join(vaultRoot, ".vaultpub.yaml")
		if _, err := os.Stat(path); err == nil {
			return errors.Newf(errors.ErrInvalidInput, "%s already exists", path)
		}

		cfg, err := config.Load(vaultRoot)
		if err != nil {
			return err
		}
		cfg.VaultRoot = vaultRoot
		cfg.PublishDir = args[0]
		// Starter criterion: publish notes tagged #publish.
		cfg.Criteria = map[string]interface{}{
			"kind":      "tag",
			"tag":       "publish",
			"matchMode": "equals",
		}

		if err := cfg.Save(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}
