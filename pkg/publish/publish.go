// Package publish orchestrates one preview or publish cycle: select the
// candidate set, reconcile the publish directory, then stage, commit,
// and optionally pull and push. Exactly one cycle runs at a time; the
// pipeline holds no state between cycles.
package publish

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/vaultpub/pkg/config"
	"github.com/arthur-debert/vaultpub/pkg/errors"
	"github.com/arthur-debert/vaultpub/pkg/gitrepo"
	"github.com/arthur-debert/vaultpub/pkg/logging"
	"github.com/arthur-debert/vaultpub/pkg/selector"
	"github.com/arthur-debert/vaultpub/pkg/syncer"
	"github.com/arthur-debert/vaultpub/pkg/vault"
)

// datePlaceholder in the commit message template expands to the current
// timestamp.
const datePlaceholder = "{{date}}"

// Pipeline runs preview and publish cycles for one vault/repo pair.
type Pipeline struct {
	cfg    *config.Config
	vault  *vault.Vault
	repo   *gitrepo.Repo
	sel    *selector.Selector
	sync   *syncer.Syncer
	logger zerolog.Logger
}

// New validates the configuration, opens the vault and the publish
// repository, and returns a ready pipeline.
func New(cfg *config.Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	v, err := vault.New(cfg.VaultRoot)
	if err != nil {
		return nil, err
	}
	repo, err := gitrepo.Open(cfg.PublishDir)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		cfg:    cfg,
		vault:  v,
		repo:   repo,
		sel:    selector.New(v),
		sync:   syncer.New(cfg.VaultRoot, cfg.PublishDir),
		logger: logging.GetLogger("publish"),
	}, nil
}

// Preview is the computed state of one cycle before any mutation.
type Preview struct {
	// Records lists every candidate and stale published file with its
	// status, sorted by path.
	Records []syncer.FileRecord
	// UncommittedChanges reports pre-existing uncommitted changes in
	// the publish repository.
	UncommittedChanges bool
}

// Preview computes the file records for the upcoming cycle without
// touching the destination.
func (p *Pipeline) Preview(ctx context.Context) (*Preview, error) {
	records, _, err := p.plan(ctx)
	if err != nil {
		return nil, err
	}

	uncommitted, err := p.repo.HasUncommittedChanges()
	if err != nil {
		return nil, err
	}

	return &Preview{Records: records, UncommittedChanges: uncommitted}, nil
}

// Options control a publish cycle.
type Options struct {
	// Push pushes to the remote after committing; without it the cycle
	// is commit-only.
	Push bool
}

// Result summarizes a completed publish cycle.
type Result struct {
	New        int
	Modified   int
	Unmodified int
	Deleted    int
	// Committed is false when the reconciled tree produced no changes.
	Committed bool
	Pushed    bool
}

// Publish runs a full cycle. The first git failure aborts the operation
// with full diagnostics; reconciliation itself is best-effort per file.
func (p *Pipeline) Publish(ctx context.Context, opts Options) (*Result, error) {
	records, candidates, err := p.plan(ctx)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	for _, r := range records {
		switch r.Status {
		case syncer.StatusNew:
			res.New++
		case syncer.StatusModified:
			res.Modified++
		case syncer.StatusUnmodified:
			res.Unmodified++
		case syncer.StatusDeleted:
			res.Deleted++
		}
	}

	if _, err := p.sync.Reconcile(ctx, candidates); err != nil {
		return nil, err
	}

	if err := p.repo.StageAll(); err != nil {
		return nil, err
	}
	committed, err := p.repo.Commit(p.commitMessage())
	if err != nil {
		return nil, err
	}
	res.Committed = committed

	if opts.Push {
		if err := p.repo.Pull(ctx, p.cfg.Branch); err != nil {
			return nil, err
		}
		if err := p.repo.Push(ctx, p.cfg.Branch); err != nil {
			return nil, err
		}
		res.Pushed = true
	}

	p.logger.Info().
		Int("new", res.New).
		Int("modified", res.Modified).
		Int("deleted", res.Deleted).
		Bool("committed", res.Committed).
		Bool("pushed", res.Pushed).
		Msg("Publish cycle complete")
	return res, nil
}

// plan selects candidates and computes their records.
func (p *Pipeline) plan(ctx context.Context) ([]syncer.FileRecord, map[string]vault.File, error) {
	crit, err := p.cfg.Criterion()
	if err != nil {
		return nil, nil, err
	}

	candidates, err := p.sel.Select(ctx, p.vault.Scan(), crit, selector.Options{
		IncludeAttachments: p.cfg.IncludeAttachments,
		ExtraPatterns:      p.cfg.ExtraPatterns,
	})
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrInternal, "selecting publishable files")
	}

	return p.sync.Plan(candidates), candidates, nil
}

func (p *Pipeline) commitMessage() string {
	return strings.ReplaceAll(
		p.cfg.CommitMessage,
		datePlaceholder,
		time.Now().Format("2006-01-02 15:04:05"),
	)
}
