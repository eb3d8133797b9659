package note

import (
	"regexp"
	"strings"
)

// tagRe matches inline #tags. Tags may be hierarchical (public/blog).
// A tag token must follow the start of a line or whitespace, so markdown
// headings and mid-word hashes are not picked up.
var tagRe = regexp.MustCompile(`(?:^|\s)#([A-Za-z0-9_/-]+)`)

// ExtractTags collects inline #tags from a note body, preserving the
// casing they were written with. Fenced code blocks and %%-comment lines
// are skipped. The result is deduplicated in order of first occurrence.
func ExtractTags(body string) []string {
	seen := make(map[string]struct{})
	var out []string

	inFence := false
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			continue
		}
		if inFence || strings.HasPrefix(trimmed, "%%") {
			continue
		}

		for _, m := range tagRe.FindAllStringSubmatch(line, -1) {
			tag := m[1]
			if _, dup := seen[tag]; dup {
				continue
			}
			seen[tag] = struct{}{}
			out = append(out, tag)
		}
	}
	return out
}

// AllTags returns the union of a note's inline tags and the tags listed
// in its frontmatter "tags" field. The field may hold a single scalar or
// a list; each element is stringified with Stringify. Deduplicated.
func (n *Note) AllTags() []string {
	tags := ExtractTags(n.Body)

	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		seen[t] = struct{}{}
	}

	if n.Frontmatter == nil {
		return tags
	}
	raw, ok := n.Frontmatter["tags"]
	if !ok || raw == nil {
		return tags
	}

	var elems []interface{}
	if list, ok := raw.([]interface{}); ok {
		elems = list
	} else {
		elems = []interface{}{raw}
	}

	for _, e := range elems {
		tag := strings.TrimSpace(Stringify(e))
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}
