package criteria

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/arthur-debert/vaultpub/pkg/logging"
	"github.com/arthur-debert/vaultpub/pkg/match"
	"github.com/arthur-debert/vaultpub/pkg/note"
)

// TagMode selects how a configured tag is compared against a note's tags.
type TagMode string

const (
	// TagEquals requires exact equality.
	TagEquals TagMode = "equals"
	// TagStartsWith matches the tag itself and hierarchical subtags:
	// "public" matches "public" and "public/blog" but not "publicly".
	TagStartsWith TagMode = "startswith"
	// TagIncludes matches when the configured tag is one of the
	// slash-separated segments of a note tag.
	TagIncludes TagMode = "includes"
)

// Tag matches notes carrying a tag, in frontmatter or inline.
type Tag struct {
	Tag  string
	Mode TagMode
}

func (c *Tag) Kind() Kind { return KindTag }

func (c *Tag) Evaluate(in Input) bool {
	if in.Meta == nil {
		return false
	}
	want := strings.ToLower(c.Tag)
	for _, tag := range in.Meta.AllTags() {
		got := strings.ToLower(tag)
		switch c.Mode {
		case TagEquals:
			if got == want {
				return true
			}
		case TagStartsWith:
			if got == want || strings.HasPrefix(got, want+"/") {
				return true
			}
		case TagIncludes:
			for _, seg := range strings.Split(got, "/") {
				if seg == want {
					return true
				}
			}
		}
	}
	return false
}

func (c *Tag) Serialize() map[string]interface{} {
	return map[string]interface{}{
		"kind":      string(KindTag),
		"tag":       c.Tag,
		"matchMode": string(c.Mode),
	}
}

func (c *Tag) Summary() string {
	return fmt.Sprintf("tag %s: %s", c.Mode, c.Tag)
}

// Frontmatter matches notes whose frontmatter value at Key matches
// Value. Value is interpreted as a regex fragment wrapped in ^...$
// anchors and compiled case-insensitively, so a plain literal behaves
// as whole-string comparison but regex metacharacters are live. An
// absent key or missing metadata never matches.
type Frontmatter struct {
	Key   string
	Value string
}

func (c *Frontmatter) Kind() Kind { return KindFrontmatter }

func (c *Frontmatter) Evaluate(in Input) bool {
	if in.Meta == nil || in.Meta.Frontmatter == nil {
		return false
	}
	raw, ok := in.Meta.Frontmatter[c.Key]
	if !ok {
		return false
	}

	re, err := regexp.Compile("(?i)^" + c.Value + "$")
	if err != nil {
		logger := logging.GetLogger("criteria")
		logger.Debug().Err(err).Str("value", c.Value).Msg("Invalid frontmatter value regex, treating as no match")
		return false
	}
	return re.MatchString(note.Stringify(raw))
}

func (c *Frontmatter) Serialize() map[string]interface{} {
	return map[string]interface{}{
		"kind":  string(KindFrontmatter),
		"key":   c.Key,
		"value": c.Value,
	}
}

func (c *Frontmatter) Summary() string {
	return fmt.Sprintf("frontmatter %s: %s", c.Key, c.Value)
}

// Title matches on the file name without extension.
type Title struct {
	Pattern string
	Mode    match.Mode
}

func (c *Title) Kind() Kind { return KindTitle }

func (c *Title) Evaluate(in Input) bool {
	return match.Text(c.Pattern, in.Base, c.Mode)
}

func (c *Title) Serialize() map[string]interface{} {
	return map[string]interface{}{
		"kind":      string(KindTitle),
		"pattern":   c.Pattern,
		"matchMode": string(c.Mode),
	}
}

func (c *Title) Summary() string {
	return fmt.Sprintf("title %s: %s", c.Mode, c.Pattern)
}

// Path matches on the vault-relative path.
type Path struct {
	Pattern string
	Mode    match.Mode
}

func (c *Path) Kind() Kind { return KindPath }

func (c *Path) Evaluate(in Input) bool {
	return match.Text(c.Pattern, in.Path, c.Mode)
}

func (c *Path) Serialize() map[string]interface{} {
	return map[string]interface{}{
		"kind":      string(KindPath),
		"pattern":   c.Pattern,
		"matchMode": string(c.Mode),
	}
}

func (c *Path) Summary() string {
	return fmt.Sprintf("path %s: %s", c.Mode, c.Pattern)
}

// Content matches the raw file content against a regex. There is no
// mode selector; content matching is always regex.
type Content struct {
	Regex string
}

func (c *Content) Kind() Kind { return KindContent }

func (c *Content) Evaluate(in Input) bool {
	return match.Text(c.Regex, in.Body, match.ModeRegex)
}

func (c *Content) Serialize() map[string]interface{} {
	return map[string]interface{}{
		"kind":  string(KindContent),
		"regex": c.Regex,
	}
}

func (c *Content) Summary() string {
	return fmt.Sprintf("content regex: %s", c.Regex)
}
