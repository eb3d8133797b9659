// Package note parses markdown notes: YAML frontmatter, body text,
// wikilink targets, and tags (inline and frontmatter). It is the only
// place that understands markdown structure; the criteria engine works
// on the parsed form.
package note

import (
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var wikilinkRe = regexp.MustCompile(`(!?)\[\[([^\[\]]+)\]\]`)

// Note is the parsed form of a markdown file.
type Note struct {
	// Frontmatter holds the YAML frontmatter mapping, nil when the note
	// has none (or it failed to parse).
	Frontmatter map[string]interface{}
	// Body is the note content without the frontmatter block.
	Body string
	// Links are deduplicated wikilink/embed targets in order of first
	// occurrence, with alias and heading suffixes stripped.
	Links []string
}

// Parse splits frontmatter from body and extracts link targets.
// Malformed frontmatter is not an error: the whole input becomes the
// body and Frontmatter stays nil.
func Parse(data []byte) *Note {
	fm, body := splitFrontmatter(string(data))
	return &Note{
		Frontmatter: fm,
		Body:        body,
		Links:       extractLinks(body),
	}
}

// splitFrontmatter separates a leading YAML frontmatter block delimited
// by --- lines from the rest of the content.
func splitFrontmatter(content string) (map[string]interface{}, string) {
	const delim = "---"

	trimmed := strings.TrimLeft(content, "\r\n")
	if !strings.HasPrefix(trimmed, delim+"\n") && trimmed != delim {
		return nil, content
	}

	rest := trimmed[len(delim):]
	end := strings.Index(rest, "\n"+delim)
	if end < 0 {
		// Unterminated frontmatter, treat everything as body.
		return nil, content
	}

	block := rest[:end]
	body := rest[end+1+len(delim):]
	body = strings.TrimLeft(body, "\r\n")

	var fm map[string]interface{}
	if err := yaml.Unmarshal([]byte(block), &fm); err != nil {
		return nil, content
	}
	return fm, body
}

// extractLinks returns deduplicated wikilink and embed targets.
// [[Target|Alias]] and [[Target#Heading]] both resolve to Target.
func extractLinks(body string) []string {
	matches := wikilinkRe.FindAllStringSubmatch(body, -1)
	seen := make(map[string]struct{}, len(matches))
	var out []string
	for _, m := range matches {
		target := m[2]
		if i := strings.IndexAny(target, "|#"); i >= 0 {
			target = target[:i]
		}
		target = strings.TrimSpace(target)
		if target == "" {
			continue
		}
		if _, dup := seen[target]; dup {
			continue
		}
		seen[target] = struct{}{}
		out = append(out, target)
	}
	return out
}
