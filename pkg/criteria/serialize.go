package criteria

import (
	"github.com/arthur-debert/vaultpub/pkg/errors"
	"github.com/arthur-debert/vaultpub/pkg/match"
)

// registry maps each serialized kind to its deserializer. Adding a
// criterion kind means adding exactly one entry here. It is populated
// in init to break the initialization cycle with Deserialize.
var registry map[Kind]func(map[string]interface{}) (Criterion, error)

func init() {
	registry = map[Kind]func(map[string]interface{}) (Criterion, error){
		KindTag: func(m map[string]interface{}) (Criterion, error) {
			return &Tag{
				Tag:  stringField(m, "tag"),
				Mode: TagMode(stringField(m, "matchMode")),
			}, nil
		},
		KindFrontmatter: func(m map[string]interface{}) (Criterion, error) {
			return &Frontmatter{
				Key:   stringField(m, "key"),
				Value: stringField(m, "value"),
			}, nil
		},
		KindTitle: func(m map[string]interface{}) (Criterion, error) {
			return &Title{
				Pattern: stringField(m, "pattern"),
				Mode:    match.Mode(stringField(m, "matchMode")),
			}, nil
		},
		KindPath: func(m map[string]interface{}) (Criterion, error) {
			return &Path{
				Pattern: stringField(m, "pattern"),
				Mode:    match.Mode(stringField(m, "matchMode")),
			}, nil
		},
		KindContent: func(m map[string]interface{}) (Criterion, error) {
			return &Content{Regex: stringField(m, "regex")}, nil
		},
		KindAnd: func(m map[string]interface{}) (Criterion, error) {
			children, err := childrenField(m)
			if err != nil {
				return nil, err
			}
			return &And{Children: children}, nil
		},
		KindOr: func(m map[string]interface{}) (Criterion, error) {
			children, err := childrenField(m)
			if err != nil {
				return nil, err
			}
			return &Or{Children: children}, nil
		},
		KindNot: func(m map[string]interface{}) (Criterion, error) {
			raw, ok := m["child"].(map[string]interface{})
			if !ok {
				return nil, errors.New(errors.ErrCriteriaInvalid, "not criterion requires a child")
			}
			child, err := Deserialize(raw)
			if err != nil {
				return nil, err
			}
			return &Not{Child: child}, nil
		},
	}
}

// Deserialize rebuilds a criterion tree from its tagged plain-data form.
// An unknown kind is a hard error; callers must not proceed with a
// partially built tree.
func Deserialize(m map[string]interface{}) (Criterion, error) {
	kind, ok := m["kind"].(string)
	if !ok || kind == "" {
		return nil, errors.New(errors.ErrCriteriaInvalid, "criterion is missing its kind")
	}
	build, ok := registry[Kind(kind)]
	if !ok {
		return nil, errors.Newf(errors.ErrCriteriaUnknownKind, "unknown criterion type %q", kind)
	}
	return build(m)
}

func stringField(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}

func childrenField(m map[string]interface{}) ([]Criterion, error) {
	raw, ok := m["children"].([]interface{})
	if !ok {
		// A composite without the field is treated as empty, which
		// evaluates vacuously.
		return nil, nil
	}
	children := make([]Criterion, 0, len(raw))
	for _, item := range raw {
		cm, ok := item.(map[string]interface{})
		if !ok {
			return nil, errors.New(errors.ErrCriteriaInvalid, "composite child is not a mapping")
		}
		child, err := Deserialize(cm)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}
