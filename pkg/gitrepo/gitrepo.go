// Package gitrepo wraps go-git with the handful of operations the
// publish pipeline needs: repository validation, branch listing,
// staging, committing, push and pull, and worktree cleanliness checks.
// Every failure carries the attempted action and the repository path so
// users can debug their local repository state.
package gitrepo

import (
	"context"
	stderrors "errors"
	"sort"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/vaultpub/pkg/errors"
	"github.com/arthur-debert/vaultpub/pkg/logging"
)

// DefaultRemote is the remote used for push and pull.
const DefaultRemote = "origin"

// Fallback commit identity when the repository has no user configured.
const (
	fallbackName  = "vaultpub"
	fallbackEmail = "vaultpub@localhost"
)

// Repo is an open publish repository.
type Repo struct {
	path   string
	repo   *git.Repository
	logger zerolog.Logger
}

// Open opens the git repository at path.
func Open(path string) (*Repo, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		if stderrors.Is(err, git.ErrRepositoryNotExists) {
			return nil, errors.Wrapf(err, errors.ErrGitNotARepo, "%s is not a git repository", path).
				WithDetail("dir", path)
		}
		return nil, errors.Wrapf(err, errors.ErrGitCommand, "opening repository %s", path).
			WithDetail("action", "open").
			WithDetail("dir", path)
	}
	return &Repo{
		path:   path,
		repo:   repo,
		logger: logging.GetLogger("gitrepo"),
	}, nil
}

// Validate reports whether path holds a usable git repository.
func Validate(path string) error {
	_, err := Open(path)
	return err
}

// Path returns the repository working directory.
func (r *Repo) Path() string {
	return r.path
}

// wrap attaches action and directory diagnostics to an operation error.
func (r *Repo) wrap(err error, action string) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(err, errors.ErrGitCommand, "git %s in %s", action, r.path).
		WithDetail("action", action).
		WithDetail("dir", r.path)
}

// Branches lists local branch names, current branch first and the rest
// sorted.
func (r *Repo) Branches() ([]string, error) {
	var current string
	if head, err := r.repo.Head(); err == nil && head.Name().IsBranch() {
		current = head.Name().Short()
	}

	iter, err := r.repo.Branches()
	if err != nil {
		return nil, r.wrap(err, "branch")
	}

	var rest []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		if name != current {
			rest = append(rest, name)
		}
		return nil
	})
	if err != nil {
		return nil, r.wrap(err, "branch")
	}
	sort.Strings(rest)

	if current != "" {
		return append([]string{current}, rest...), nil
	}
	return rest, nil
}

// HasUncommittedChanges reports whether the worktree differs from HEAD.
func (r *Repo) HasUncommittedChanges() (bool, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return false, r.wrap(err, "status")
	}
	status, err := wt.Status()
	if err != nil {
		return false, r.wrap(err, "status")
	}
	return !status.IsClean(), nil
}

// StageAll stages every change in the worktree, additions and deletions
// alike.
func (r *Repo) StageAll() error {
	wt, err := r.repo.Worktree()
	if err != nil {
		return r.wrap(err, "add")
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return r.wrap(err, "add")
	}
	return nil
}

// Commit creates a commit with the given message. A clean worktree is a
// no-op, not an error; the returned bool says whether a commit was made.
func (r *Repo) Commit(message string) (bool, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return false, r.wrap(err, "commit")
	}
	status, err := wt.Status()
	if err != nil {
		return false, r.wrap(err, "commit")
	}
	if status.IsClean() {
		r.logger.Debug().Msg("Nothing to commit")
		return false, nil
	}

	_, err = wt.Commit(message, &git.CommitOptions{
		Author: r.signature(),
	})
	if err != nil {
		return false, r.wrap(err, "commit")
	}
	return true, nil
}

// signature builds the commit author from the repository configuration,
// falling back to a fixed identity when none is set.
func (r *Repo) signature() *object.Signature {
	name, email := fallbackName, fallbackEmail
	if cfg, err := r.repo.ConfigScoped(config.SystemScope); err == nil {
		if cfg.User.Name != "" {
			name = cfg.User.Name
		}
		if cfg.User.Email != "" {
			email = cfg.User.Email
		}
	}
	return &object.Signature{Name: name, Email: email, When: time.Now()}
}

// Push pushes the branch to the default remote. Already up to date is
// success.
func (r *Repo) Push(ctx context.Context, branch string) error {
	refSpec := config.RefSpec(plumbing.NewBranchReferenceName(branch) + ":" + plumbing.NewBranchReferenceName(branch))
	err := r.repo.PushContext(ctx, &git.PushOptions{
		RemoteName: DefaultRemote,
		RefSpecs:   []config.RefSpec{refSpec},
	})
	if err != nil && !stderrors.Is(err, git.NoErrAlreadyUpToDate) {
		return r.wrap(err, "push")
	}
	return nil
}

// Pull fast-forwards the branch from the default remote. Already up to
// date is success. A divergent remote history surfaces as a distinct
// merge-conflict error instructing manual resolution; it is never
// auto-resolved.
func (r *Repo) Pull(ctx context.Context, branch string) error {
	wt, err := r.repo.Worktree()
	if err != nil {
		return r.wrap(err, "pull")
	}
	err = wt.PullContext(ctx, &git.PullOptions{
		RemoteName:    DefaultRemote,
		ReferenceName: plumbing.NewBranchReferenceName(branch),
	})
	switch {
	case err == nil, stderrors.Is(err, git.NoErrAlreadyUpToDate):
		return nil
	case stderrors.Is(err, transport.ErrEmptyRemoteRepository),
		stderrors.Is(err, plumbing.ErrReferenceNotFound):
		// Nothing on the remote yet; the following push creates the
		// branch.
		return nil
	case stderrors.Is(err, git.ErrNonFastForwardUpdate):
		return errors.Wrap(err, errors.ErrGitMergeConflict,
			"remote history has diverged; resolve the conflict manually in the publish repository").
			WithDetail("action", "pull").
			WithDetail("dir", r.path)
	default:
		return r.wrap(err, "pull")
	}
}
