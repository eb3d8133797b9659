// Package syncer reconciles the candidate file set against the publish
// directory: it classifies every candidate by comparing modification
// times, finds published notes that fell out of the set, and performs
// the delete/copy pass that makes the destination mirror the selection.
package syncer

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/vaultpub/pkg/logging"
	"github.com/arthur-debert/vaultpub/pkg/vault"
)

// Status classifies one candidate file relative to the destination.
type Status string

const (
	// StatusNew means the file does not exist in the destination.
	StatusNew Status = "new"
	// StatusModified means the source is newer than the published copy.
	StatusModified Status = "modified"
	// StatusUnmodified means the published copy is current.
	StatusUnmodified Status = "unmodified"
	// StatusDeleted marks a published note no longer in the candidate set.
	StatusDeleted Status = "deleted"
)

// FileRecord pairs a destination-relative path with its sync status.
// Records are rebuilt from a live filesystem comparison on every cycle
// and never cached.
type FileRecord struct {
	Path   string
	Status Status
}

// Syncer mirrors vault files into the publish directory.
type Syncer struct {
	srcRoot  string
	destRoot string
	logger   zerolog.Logger
}

// New creates a syncer copying from srcRoot into destRoot.
func New(srcRoot, destRoot string) *Syncer {
	return &Syncer{
		srcRoot:  srcRoot,
		destRoot: destRoot,
		logger:   logging.GetLogger("syncer"),
	}
}

// Classify returns the status of one candidate: New when the destination
// file is absent, Modified when the source is strictly newer, otherwise
// Unmodified.
func (s *Syncer) Classify(f vault.File) Status {
	info, err := os.Stat(filepath.Join(s.destRoot, filepath.FromSlash(f.Path)))
	if err != nil {
		return StatusNew
	}
	if f.ModTime.After(info.ModTime()) {
		return StatusModified
	}
	return StatusUnmodified
}

// ScanPublished walks the destination tree and returns the relative
// paths of all published markdown files. Directories starting with a
// dot (.git in particular) are skipped. Per-entry errors are logged and
// the scan continues with what it has.
func (s *Syncer) ScanPublished() []string {
	var published []string

	err := filepath.WalkDir(s.destRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			s.logger.Warn().Err(err).Str("path", p).Msg("Skipping unreadable destination entry")
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if p != s.destRoot && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(p) != vault.MarkdownExt {
			return nil
		}
		rel, relErr := filepath.Rel(s.destRoot, p)
		if relErr != nil {
			s.logger.Warn().Err(relErr).Str("path", p).Msg("Skipping destination file outside root")
			return nil
		}
		published = append(published, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("Destination scan incomplete")
	}

	sort.Strings(published)
	return published
}

// Plan computes the full record list for a preview: a status for every
// candidate plus Deleted records for published notes that are no longer
// candidates. Records are sorted by path.
func (s *Syncer) Plan(candidates map[string]vault.File) []FileRecord {
	records := make([]FileRecord, 0, len(candidates))
	for _, f := range candidates {
		records = append(records, FileRecord{Path: f.Path, Status: s.Classify(f)})
	}
	for _, rel := range s.ScanPublished() {
		if _, ok := candidates[rel]; !ok {
			records = append(records, FileRecord{Path: rel, Status: StatusDeleted})
		}
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Path < records[j].Path })
	return records
}
