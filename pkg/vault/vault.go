// Package vault provides read access to the source note collection: file
// enumeration with modification times, content reads, parsed metadata,
// and wikilink target resolution. A scan produces an immutable snapshot;
// nothing is cached across publish cycles.
package vault

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/vaultpub/pkg/errors"
	"github.com/arthur-debert/vaultpub/pkg/logging"
	"github.com/arthur-debert/vaultpub/pkg/note"
)

// MarkdownExt is the note file extension.
const MarkdownExt = ".md"

// File identifies one file in the vault.
type File struct {
	// Path is the vault-relative path with forward slashes.
	Path string
	// Base is the file name without directory or extension.
	Base string
	// ModTime is the file's last modification time.
	ModTime time.Time
}

// Vault reads a note collection rooted at a directory.
type Vault struct {
	root   string
	logger zerolog.Logger
}

// New opens the vault at root. The directory must exist.
func New(root string) (*Vault, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrVaultMissing, "vault root %s", root)
	}
	if !info.IsDir() {
		return nil, errors.Newf(errors.ErrVaultMissing, "vault root %s is not a directory", root)
	}
	return &Vault{
		root:   root,
		logger: logging.GetLogger("vault"),
	}, nil
}

// Root returns the vault root directory.
func (v *Vault) Root() string {
	return v.root
}

// Snapshot is one scan of the vault's file tree.
type Snapshot struct {
	// Notes are all markdown files.
	Notes []File
	// Attachments are all non-markdown files.
	Attachments []File

	byPath map[string]File
	byName map[string][]File
}

// Scan walks the vault and returns a fresh snapshot. Directories whose
// name starts with a dot (.git, .obsidian, ...) are skipped. Errors on
// individual entries are logged and the walk continues; the snapshot
// holds whatever was collected.
func (v *Vault) Scan() *Snapshot {
	snap := &Snapshot{
		byPath: make(map[string]File),
		byName: make(map[string][]File),
	}

	err := filepath.WalkDir(v.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			v.logger.Warn().Err(err).Str("path", p).Msg("Skipping unreadable entry")
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if p != v.root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(v.root, p)
		if relErr != nil {
			v.logger.Warn().Err(relErr).Str("path", p).Msg("Skipping file outside root")
			return nil
		}
		info, infoErr := d.Info()
		if infoErr != nil {
			v.logger.Warn().Err(infoErr).Str("path", p).Msg("Skipping file without stat info")
			return nil
		}

		snap.add(newFile(rel, info.ModTime()))
		return nil
	})
	if err != nil {
		// WalkDir only returns an error from the callback, which never
		// produces one; log just in case.
		v.logger.Error().Err(err).Msg("Vault scan aborted")
	}

	v.logger.Debug().
		Int("notes", len(snap.Notes)).
		Int("attachments", len(snap.Attachments)).
		Msg("Vault scan complete")
	return snap
}

func newFile(rel string, modTime time.Time) File {
	rel = filepath.ToSlash(rel)
	base := path.Base(rel)
	base = strings.TrimSuffix(base, path.Ext(base))
	return File{Path: rel, Base: base, ModTime: modTime}
}

func (s *Snapshot) add(f File) {
	if path.Ext(f.Path) == MarkdownExt {
		s.Notes = append(s.Notes, f)
	} else {
		s.Attachments = append(s.Attachments, f)
	}
	s.byPath[f.Path] = f

	name := path.Base(f.Path)
	s.byName[name] = append(s.byName[name], f)
}

// Lookup returns the file at the exact vault-relative path.
func (s *Snapshot) Lookup(rel string) (File, bool) {
	f, ok := s.byPath[rel]
	return f, ok
}

// Resolve maps a wikilink target to a vault file. Exact relative paths
// win; otherwise the target is treated as a bare name and matched by
// basename anywhere in the vault, shortest path first. Both forms are
// tried with and without the markdown extension.
func (s *Snapshot) Resolve(target string) (File, bool) {
	target = strings.TrimSpace(filepath.ToSlash(target))
	if target == "" {
		return File{}, false
	}

	for _, p := range []string{target, target + MarkdownExt} {
		if f, ok := s.byPath[p]; ok {
			return f, true
		}
	}

	name := path.Base(target)
	var best File
	found := false
	for _, n := range []string{name, name + MarkdownExt} {
		for _, f := range s.byName[n] {
			if !found || len(f.Path) < len(best.Path) {
				best = f
				found = true
			}
		}
	}
	return best, found
}

// Read returns the byte content of a vault file.
func (v *Vault) Read(rel string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(v.root, filepath.FromSlash(rel)))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrVaultRead, "reading %s", rel)
	}
	return data, nil
}

// Metadata reads and parses a markdown file. A file that cannot be read
// has no metadata.
func (v *Vault) Metadata(rel string) (*note.Note, error) {
	data, err := v.Read(rel)
	if err != nil {
		return nil, err
	}
	return note.Parse(data), nil
}
