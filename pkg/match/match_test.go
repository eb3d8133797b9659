package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextContains(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		input   string
		want    bool
	}{
		{"simple substring", "daily", "daily note", true},
		{"case insensitive", "DAILY", "my daily note", true},
		{"mixed case input", "note", "My NOTES", true},
		{"no match", "weekly", "daily note", false},
		{"empty pattern matches anything", "", "whatever", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(tt.pattern, tt.input, ModeContains))
		})
	}
}

func TestTextRegex(t *testing.T) {
	assert.True(t, Text(`^\d{4}-\d{2}-\d{2}$`, "2024-03-01", ModeRegex))
	assert.True(t, Text("project", "My PROJECT Plan", ModeRegex), "regex is case-insensitive")
	assert.False(t, Text(`^draft`, "my draft", ModeRegex))
}

func TestTextRegexInvalidFailsClosed(t *testing.T) {
	assert.False(t, Text("([unclosed", "anything", ModeRegex))
}

func TestTextGlob(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		input   string
		want    bool
	}{
		{"star matches basename", "*.md", "note.md", true},
		{"doublestar crosses directories", "**/*.md", "a/b/c.md", true},
		{"doublestar matches root level", "**/*.md", "c.md", true},
		{"basename convention without separator", "_*", "sub/_draft.md", true},
		{"dotfiles included", ".*", ".obsidian", true},
		{"directory-anchored pattern", "journal/*.md", "journal/today.md", true},
		{"directory-anchored misses other dirs", "journal/*.md", "notes/today.md", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(tt.pattern, tt.input, ModeGlob))
		})
	}
}

func TestTextUnknownMode(t *testing.T) {
	assert.False(t, Text("x", "x", Mode("bogus")))
}

func TestGlobList(t *testing.T) {
	tests := []struct {
		name  string
		list  string
		input string
		want  bool
	}{
		{"empty list never matches", "", "note.md", false},
		{"single include", "**/*.md", "notes/post.md", true},
		{"negation wins as last match", "**/*.md\n!_*", "_draft.md", false},
		{"negation does not apply elsewhere", "**/*.md\n!_*", "notes/post.md", true},
		{"re-include after negation", "**/*.md\n!_*\n_keep.md", "_keep.md", true},
		{"comments and blanks skipped", "# published notes\n\n**/*.md", "a.md", true},
		{"all-negated list", "!*.md", "a.md", false},
		{"invalid line skipped", "[unclosed\n*.md", "a.md", true},
		{"invalid line does not clear verdict", "*.md\n[unclosed", "a.md", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GlobList(tt.list, tt.input))
		})
	}
}
