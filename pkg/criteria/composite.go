package criteria

import (
	"strings"
)

// And matches when every child matches. Zero children is vacuously true.
type And struct {
	Children []Criterion
}

func (c *And) Kind() Kind { return KindAnd }

func (c *And) Evaluate(in Input) bool {
	for _, child := range c.Children {
		if !child.Evaluate(in) {
			return false
		}
	}
	return true
}

func (c *And) Serialize() map[string]interface{} {
	return map[string]interface{}{
		"kind":     string(KindAnd),
		"children": serializeChildren(c.Children),
	}
}

func (c *And) Summary() string {
	return compositeSummary("ALL OF:", c.Children)
}

// Or matches when any child matches. Zero children is vacuously false.
type Or struct {
	Children []Criterion
}

func (c *Or) Kind() Kind { return KindOr }

func (c *Or) Evaluate(in Input) bool {
	for _, child := range c.Children {
		if child.Evaluate(in) {
			return true
		}
	}
	return false
}

func (c *Or) Serialize() map[string]interface{} {
	return map[string]interface{}{
		"kind":     string(KindOr),
		"children": serializeChildren(c.Children),
	}
}

func (c *Or) Summary() string {
	return compositeSummary("ANY OF:", c.Children)
}

// Not negates its single child.
type Not struct {
	Child Criterion
}

func (c *Not) Kind() Kind { return KindNot }

func (c *Not) Evaluate(in Input) bool {
	if c.Child == nil {
		return false
	}
	return !c.Child.Evaluate(in)
}

func (c *Not) Serialize() map[string]interface{} {
	var child map[string]interface{}
	if c.Child != nil {
		child = c.Child.Serialize()
	}
	return map[string]interface{}{
		"kind":  string(KindNot),
		"child": child,
	}
}

func (c *Not) Summary() string {
	if c.Child == nil {
		return "NOT:"
	}
	return compositeSummary("NOT:", []Criterion{c.Child})
}

func serializeChildren(children []Criterion) []interface{} {
	out := make([]interface{}, 0, len(children))
	for _, child := range children {
		out = append(out, child.Serialize())
	}
	return out
}

// compositeSummary renders a label line followed by each child's
// summary indented by two columns per nesting level.
func compositeSummary(label string, children []Criterion) string {
	var b strings.Builder
	b.WriteString(label)
	for _, child := range children {
		for _, line := range strings.Split(child.Summary(), "\n") {
			b.WriteString("\n  ")
			b.WriteString(line)
		}
	}
	return b.String()
}
