package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/vaultpub/pkg/testutil"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	// Flag values persist across executions of the shared root command.
	publishNoPush = false
	publishYes = false

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func configFor(publishDir string) string {
	return fmt.Sprintf(`publish_dir: %s
criteria:
  kind: tag
  tag: publish
  matchMode: equals
`, publishDir)
}

func TestCriteriaCommand(t *testing.T) {
	vault := testutil.TempVault(t, map[string]string{
		".vaultpub.yaml": configFor(t.TempDir()),
	})

	out, err := runCommand(t, "criteria", "--vault", vault)
	require.NoError(t, err)
	assert.Contains(t, out, "tag equals: publish")
}

func TestCriteriaCommandEmpty(t *testing.T) {
	vault := testutil.TempVault(t, nil)

	out, err := runCommand(t, "criteria", "--vault", vault)
	require.NoError(t, err)
	assert.Contains(t, out, "No criteria configured")
}

func TestInitCommand(t *testing.T) {
	vault := testutil.TempVault(t, nil)
	pubDir := t.TempDir()

	out, err := runCommand(t, "init", pubDir, "--vault", vault)
	require.NoError(t, err)
	assert.Contains(t, out, ".vaultpub.yaml")

	data, err := os.ReadFile(filepath.Join(vault, ".vaultpub.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "tag: publish")

	_, err = runCommand(t, "init", pubDir, "--vault", vault)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestPreviewCommand(t *testing.T) {
	pubDir := testutil.InitPublishRepo(t)
	vault := testutil.TempVault(t, map[string]string{
		".vaultpub.yaml": configFor(pubDir),
		"a.md":           "#publish\n\nA note.",
		"b.md":           "#draft\n\nNot published.",
	})

	out, err := runCommand(t, "preview", "--vault", vault)
	require.NoError(t, err)
	assert.Contains(t, out, "a.md")
	assert.NotContains(t, out, "b.md")

	// Preview must not touch the publish directory.
	_, err = os.Stat(filepath.Join(pubDir, "a.md"))
	assert.True(t, os.IsNotExist(err))
}

func TestPublishCommandNoPush(t *testing.T) {
	pubDir := testutil.InitPublishRepo(t)
	vault := testutil.TempVault(t, map[string]string{
		".vaultpub.yaml": configFor(pubDir),
		"a.md":           "#publish\n\nA note.",
	})

	out, err := runCommand(t, "publish", "--no-push", "--yes", "--vault", vault)
	require.NoError(t, err)
	assert.Contains(t, out, "Committed (not pushed).")

	data, err := os.ReadFile(filepath.Join(pubDir, "a.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "A note.")
}

func TestPublishCommandCancelled(t *testing.T) {
	pubDir := testutil.InitPublishRepo(t)
	vault := testutil.TempVault(t, map[string]string{
		".vaultpub.yaml": configFor(pubDir),
		"a.md":           "#publish\n\nA note.",
	})

	rootCmd.SetIn(bytes.NewBufferString("n\n"))
	defer rootCmd.SetIn(nil)

	out, err := runCommand(t, "publish", "--no-push", "--vault", vault)
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelled.")

	_, err = os.Stat(filepath.Join(pubDir, "a.md"))
	assert.True(t, os.IsNotExist(err))
}

func TestBranchesCommand(t *testing.T) {
	pubDir := testutil.InitPublishRepo(t)
	vault := testutil.TempVault(t, map[string]string{
		".vaultpub.yaml": configFor(pubDir),
		"a.md":           "#publish\n\nA note.",
	})

	_, err := runCommand(t, "publish", "--no-push", "--yes", "--vault", vault)
	require.NoError(t, err)

	out, err := runCommand(t, "branches", "--vault", vault)
	require.NoError(t, err)
	assert.Contains(t, out, "* main")
}
