package gitrepo

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	gogit "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/vaultpub/pkg/errors"
)

// initRepo creates a non-bare repository with a main branch and a commit
// identity, returning its path.
func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	repo, err := gogit.PlainInitWithOptions(dir, &gogit.PlainInitOptions{
		InitOptions: gogit.InitOptions{
			DefaultBranch: plumbing.NewBranchReferenceName("main"),
		},
	})
	require.NoError(t, err)

	cfg, err := repo.Config()
	require.NoError(t, err)
	cfg.User.Name = "Tester"
	cfg.User.Email = "tester@example.com"
	require.NoError(t, repo.SetConfig(cfg))

	return dir
}

func writeAndCommit(t *testing.T, r *Repo, rel, content, message string) {
	t.Helper()
	full := filepath.Join(r.Path(), filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	require.NoError(t, r.StageAll())
	committed, err := r.Commit(message)
	require.NoError(t, err)
	require.True(t, committed)
}

func TestOpenNotARepo(t *testing.T) {
	err := Validate(t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrGitNotARepo))
}

func TestOpenValidRepo(t *testing.T) {
	dir := initRepo(t)
	require.NoError(t, Validate(dir))

	r, err := Open(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, r.Path())
}

func TestStageCommitAndStatus(t *testing.T) {
	dir := initRepo(t)
	r, err := Open(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "note.md"), []byte("hello"), 0o644))

	dirty, err := r.HasUncommittedChanges()
	require.NoError(t, err)
	assert.True(t, dirty)

	require.NoError(t, r.StageAll())
	committed, err := r.Commit("publish: initial")
	require.NoError(t, err)
	assert.True(t, committed)

	dirty, err = r.HasUncommittedChanges()
	require.NoError(t, err)
	assert.False(t, dirty)
}

func TestCommitCleanWorktreeIsNoOp(t *testing.T) {
	dir := initRepo(t)
	r, err := Open(dir)
	require.NoError(t, err)
	writeAndCommit(t, r, "a.md", "a", "first")

	committed, err := r.Commit("nothing to do")
	require.NoError(t, err)
	assert.False(t, committed)
}

func TestStageAllIncludesDeletions(t *testing.T) {
	dir := initRepo(t)
	r, err := Open(dir)
	require.NoError(t, err)
	writeAndCommit(t, r, "gone.md", "soon gone", "add")

	require.NoError(t, os.Remove(filepath.Join(dir, "gone.md")))
	require.NoError(t, r.StageAll())

	committed, err := r.Commit("remove")
	require.NoError(t, err)
	assert.True(t, committed)

	dirty, err := r.HasUncommittedChanges()
	require.NoError(t, err)
	assert.False(t, dirty)
}

func TestBranches(t *testing.T) {
	dir := initRepo(t)
	r, err := Open(dir)
	require.NoError(t, err)
	writeAndCommit(t, r, "a.md", "a", "first")

	head, err := r.repo.Head()
	require.NoError(t, err)
	for _, name := range []string{"zeta", "alpha"} {
		ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(name), head.Hash())
		require.NoError(t, r.repo.Storer.SetReference(ref))
	}

	branches, err := r.Branches()
	require.NoError(t, err)
	assert.Equal(t, []string{"main", "alpha", "zeta"}, branches, "current branch first, rest sorted")
}

func TestPushToLocalRemote(t *testing.T) {
	remoteDir := t.TempDir()
	_, err := gogit.PlainInit(remoteDir, true)
	require.NoError(t, err)

	dir := initRepo(t)
	r, err := Open(dir)
	require.NoError(t, err)
	_, err = r.repo.CreateRemote(&gitconfig.RemoteConfig{
		Name: DefaultRemote,
		URLs: []string{remoteDir},
	})
	require.NoError(t, err)

	writeAndCommit(t, r, "pub.md", "published", "publish")

	require.NoError(t, r.Push(context.Background(), "main"))
	// Pushing again with nothing new is success, not an error.
	require.NoError(t, r.Push(context.Background(), "main"))

	remote, err := gogit.PlainOpen(remoteDir)
	require.NoError(t, err)
	ref, err := remote.Reference(plumbing.NewBranchReferenceName("main"), true)
	require.NoError(t, err)
	assert.False(t, ref.Hash().IsZero())
}

func TestPullAlreadyUpToDate(t *testing.T) {
	remoteDir := t.TempDir()
	_, err := gogit.PlainInit(remoteDir, true)
	require.NoError(t, err)

	dir := initRepo(t)
	r, err := Open(dir)
	require.NoError(t, err)
	_, err = r.repo.CreateRemote(&gitconfig.RemoteConfig{
		Name: DefaultRemote,
		URLs: []string{remoteDir},
	})
	require.NoError(t, err)

	writeAndCommit(t, r, "pub.md", "published", "publish")
	require.NoError(t, r.Push(context.Background(), "main"))

	assert.NoError(t, r.Pull(context.Background(), "main"))
}

func TestWrapCarriesDiagnostics(t *testing.T) {
	dir := initRepo(t)
	r, err := Open(dir)
	require.NoError(t, err)

	// Pull without a configured remote fails with full diagnostics.
	err = r.Pull(context.Background(), "main")
	require.Error(t, err)
	details := errors.GetErrorDetails(err)
	require.NotNil(t, details)
	assert.Equal(t, "pull", details["action"])
	assert.Equal(t, dir, details["dir"])
}
