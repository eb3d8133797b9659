package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/vaultpub/pkg/config"
	"github.com/arthur-debert/vaultpub/pkg/logging"
	"github.com/arthur-debert/vaultpub/pkg/publish"
	"github.com/arthur-debert/vaultpub/internal/version"
)

var (
	verbosity int
	vaultRoot string

	rootCmd = &cobra.Command{
		Use:   "vaultpub",
		Short: "Publish a subset of your note vault to a git repository",
		Long: `vaultpub selects notes from a markdown vault using configurable
criteria (tags, frontmatter, titles, paths, content), mirrors the
selection into a git-controlled publish directory, and commits and
pushes the result.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().StringVar(&vaultRoot, "vault", ".", "Vault root directory")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(branchesCmd)
	rootCmd.AddCommand(criteriaCmd)
	rootCmd.AddCommand(initCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("vaultpub version %s\n", version.Version)
		fmt.Printf("  commit: %s\n", version.Commit)
		fmt.Printf("  built:  %s\n", version.Date)
	},
}

// newPipeline loads the configuration for the chosen vault and builds
// the publish pipeline.
func newPipeline() (*publish.Pipeline, *config.Config, error) {
	cfg, err := config.Load(vaultRoot)
	if err != nil {
		return nil, nil, err
	}
	p, err := publish.New(cfg)
	if err != nil {
		return nil, cfg, err
	}
	return p, cfg, nil
}
