// Package criteria implements the publishability predicate tree. A
// criterion is a pure boolean predicate over one note's identity,
// content, and metadata. Criteria compose with and/or/not, serialize to
// plain tagged maps for persistence, and render an indented summary for
// display.
package criteria

import (
	"github.com/arthur-debert/vaultpub/pkg/note"
)

// Kind discriminates criterion variants in serialized form.
type Kind string

const (
	KindTag         Kind = "tag"
	KindFrontmatter Kind = "frontmatter"
	KindTitle       Kind = "title"
	KindPath        Kind = "path"
	KindContent     Kind = "content"
	KindAnd         Kind = "and"
	KindOr          Kind = "or"
	KindNot         Kind = "not"
)

// Input is everything a criterion may inspect for one note. Evaluation
// never touches the filesystem.
type Input struct {
	// Path is the vault-relative path, forward slashes.
	Path string
	// Base is the file name without directory or extension.
	Base string
	// Body is the full raw file content.
	Body string
	// Meta is the parsed note, nil when metadata could not be read.
	Meta *note.Note
}

// Criterion is one node of the predicate tree.
type Criterion interface {
	// Kind returns the serialization discriminant.
	Kind() Kind
	// Evaluate decides publishability for one note. It is pure and
	// side-effect free; identical inputs give identical results.
	Evaluate(in Input) bool
	// Serialize returns the tagged plain-data form. The result round-trips
	// through Deserialize without semantic change.
	Serialize() map[string]interface{}
	// Summary renders a human-readable description, indented for
	// composite nodes.
	Summary() string
}
