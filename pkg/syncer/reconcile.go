package syncer

import (
	"context"
	"os"
	"path/filepath"

	"github.com/arthur-debert/vaultpub/pkg/vault"
)

// Result summarizes one reconcile pass.
type Result struct {
	Deleted int
	Copied  int
	// Failed lists paths whose delete or copy failed. Reconciliation is
	// best-effort: failures are logged and the pass continues.
	Failed []string
}

// Reconcile makes the destination mirror the candidate set. Stale
// published notes are deleted first, then every candidate is copied
// byte-for-byte to its mirrored relative path. Deleting an already
// absent file is a no-op. A per-file failure is logged and recorded,
// never aborting the whole pass.
func (s *Syncer) Reconcile(ctx context.Context, candidates map[string]vault.File) (*Result, error) {
	res := &Result{}

	// Deletions complete before copies begin so a path leaving the set
	// never lingers past the pass.
	for _, rel := range s.ScanPublished() {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		if _, ok := candidates[rel]; ok {
			continue
		}
		if err := s.deleteFile(rel); err != nil {
			s.logger.Warn().Err(err).Str("path", rel).Msg("Failed to delete published file")
			res.Failed = append(res.Failed, rel)
			continue
		}
		res.Deleted++
	}

	for _, f := range candidates {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		if err := s.copyFile(f.Path); err != nil {
			s.logger.Warn().Err(err).Str("path", f.Path).Msg("Failed to copy candidate file")
			res.Failed = append(res.Failed, f.Path)
			continue
		}
		res.Copied++
	}

	s.logger.Info().
		Int("deleted", res.Deleted).
		Int("copied", res.Copied).
		Int("failed", len(res.Failed)).
		Msg("Reconcile complete")
	return res, nil
}

// deleteFile removes one published file and prunes directories it
// leaves empty. Both steps tolerate files already gone.
func (s *Syncer) deleteFile(rel string) error {
	full := filepath.Join(s.destRoot, filepath.FromSlash(rel))
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return err
	}

	// Prune now-empty parents up to the destination root, best-effort.
	dir := filepath.Dir(full)
	for dir != s.destRoot && len(dir) > len(s.destRoot) {
		if err := os.Remove(dir); err != nil {
			break
		}
		dir = filepath.Dir(dir)
	}
	return nil
}

// copyFile copies one vault file into the destination, creating parent
// directories as needed. The write goes to a temp file renamed into
// place so the destination never holds a half-written file.
func (s *Syncer) copyFile(rel string) error {
	data, err := os.ReadFile(filepath.Join(s.srcRoot, filepath.FromSlash(rel)))
	if err != nil {
		return err
	}

	dest := filepath.Join(s.destRoot, filepath.FromSlash(rel))
	// MkdirAll is idempotent, safe under concurrent creation.
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".tmp*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, dest); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}
