// Package selector computes the candidate set for one publish cycle:
// notes matching the criteria tree, attachments they reference, and
// files matching the extra glob patterns.
package selector

import (
	"context"
	"path"
	"runtime"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/arthur-debert/vaultpub/pkg/criteria"
	"github.com/arthur-debert/vaultpub/pkg/logging"
	"github.com/arthur-debert/vaultpub/pkg/match"
	"github.com/arthur-debert/vaultpub/pkg/note"
	"github.com/arthur-debert/vaultpub/pkg/vault"
)

// Options control the inclusion rules that run alongside the criteria
// tree.
type Options struct {
	// IncludeAttachments adds non-markdown files referenced by any
	// selected note.
	IncludeAttachments bool
	// ExtraPatterns is a multi-line gitignore-style glob list; matching
	// vault files are included regardless of the criteria verdict.
	ExtraPatterns string
}

// Selector applies the publishing rules to a vault snapshot.
type Selector struct {
	vault  *vault.Vault
	logger zerolog.Logger
}

// New creates a selector reading from the given vault.
func New(v *vault.Vault) *Selector {
	return &Selector{
		vault:  v,
		logger: logging.GetLogger("selector"),
	}
}

// Select returns the deduplicated candidate set, keyed by vault-relative
// path. Criteria evaluation is pure per note and runs in parallel; a
// note whose content cannot be read is excluded, not an error. A file
// rejected by the criteria can still enter through attachments or extra
// patterns. A nil criterion selects no notes, leaving only the extra
// pattern contribution.
func (s *Selector) Select(ctx context.Context, snap *vault.Snapshot, crit criteria.Criterion, opts Options) (map[string]vault.File, error) {
	selected := make(map[string]vault.File)
	metas := make(map[string]*note.Note)

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	notes := snap.Notes
	if crit == nil {
		notes = nil
	}
	for _, f := range notes {
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			data, err := s.vault.Read(f.Path)
			if err != nil {
				s.logger.Warn().Err(err).Str("path", f.Path).Msg("Note unreadable, excluding from selection")
				return nil
			}
			meta := note.Parse(data)

			in := criteria.Input{
				Path: f.Path,
				Base: f.Base,
				Body: string(data),
				Meta: meta,
			}
			if !crit.Evaluate(in) {
				return nil
			}

			mu.Lock()
			selected[f.Path] = f
			metas[f.Path] = meta
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if opts.IncludeAttachments {
		s.addAttachments(snap, selected, metas)
	}
	if opts.ExtraPatterns != "" {
		s.addExtraMatches(snap, selected, opts.ExtraPatterns)
	}

	s.logger.Info().Int("candidates", len(selected)).Msg("Selection complete")
	return selected, nil
}

// addAttachments resolves every link of every selected note and pulls
// in non-markdown targets. A file referenced by several notes appears
// once.
func (s *Selector) addAttachments(snap *vault.Snapshot, selected map[string]vault.File, metas map[string]*note.Note) {
	for notePath, meta := range metas {
		for _, link := range meta.Links {
			target, ok := snap.Resolve(link)
			if !ok {
				s.logger.Debug().Str("note", notePath).Str("link", link).Msg("Unresolved link, skipping")
				continue
			}
			if isMarkdown(target.Path) {
				continue
			}
			selected[target.Path] = target
		}
	}
}

// addExtraMatches includes every vault file whose path matches the glob
// list, notes and attachments alike.
func (s *Selector) addExtraMatches(snap *vault.Snapshot, selected map[string]vault.File, patterns string) {
	include := func(files []vault.File) {
		for _, f := range files {
			if match.GlobList(patterns, f.Path) {
				selected[f.Path] = f
			}
		}
	}
	include(snap.Notes)
	include(snap.Attachments)
}

func isMarkdown(p string) bool {
	return path.Ext(p) == vault.MarkdownExt
}
