// Package config loads and persists the vaultpub configuration. Loading
// layers the user's config file over embedded defaults, so missing
// fields always fall back; an unrecognized criterion kind in the
// persisted tree is a load-time fatal error, never a silent drop.
package config

import (
	_ "embed"
	"os"
	"path/filepath"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/arthur-debert/vaultpub/pkg/criteria"
	"github.com/arthur-debert/vaultpub/pkg/errors"
)

//go:embed defaults.yaml
var defaultConfig []byte

// fileNames are the config files searched under the vault root, in
// order. The extension picks the parser.
var fileNames = []string{".vaultpub.yaml", ".vaultpub.toml", "vaultpub.yaml", "vaultpub.toml"}

// Config is the persisted vaultpub configuration.
type Config struct {
	// VaultRoot is the note collection directory.
	VaultRoot string `koanf:"vault_root" yaml:"vault_root"`
	// PublishDir is the git-controlled destination directory.
	PublishDir string `koanf:"publish_dir" yaml:"publish_dir"`
	// Branch is the branch commits are pushed to and pulled from.
	Branch string `koanf:"branch" yaml:"branch"`
	// CommitMessage is the commit message template; {{date}} expands to
	// the current timestamp.
	CommitMessage string `koanf:"commit_message" yaml:"commit_message"`
	// PreviewBeforePublish asks for confirmation with a preview table
	// before publishing.
	PreviewBeforePublish bool `koanf:"preview_before_publish" yaml:"preview_before_publish"`
	// IncludeAttachments publishes non-markdown files referenced by
	// selected notes.
	IncludeAttachments bool `koanf:"include_attachments" yaml:"include_attachments"`
	// ExtraPatterns is a multi-line gitignore-style glob list of extra
	// files to publish.
	ExtraPatterns string `koanf:"extra_patterns" yaml:"extra_patterns"`
	// Criteria is the serialized criterion tree.
	Criteria map[string]interface{} `koanf:"criteria" yaml:"criteria"`
}

// Load reads the configuration for a vault. The first config file found
// under the vault root is layered over the embedded defaults; with no
// file present the defaults alone apply. The criteria tree is
// deserialized eagerly so a corrupt tree fails the load instead of a
// later publish.
func Load(vaultRoot string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(rawbytes.Provider(defaultConfig), yaml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "loading default configuration")
	}

	for _, name := range fileNames {
		path := filepath.Join(vaultRoot, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "loading config from %s", path)
		}
		break
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "unmarshaling configuration")
	}
	if cfg.VaultRoot == "" {
		cfg.VaultRoot = vaultRoot
	}

	// Fail now on an unloadable criteria tree.
	if _, err := cfg.Criterion(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func parserFor(path string) koanf.Parser {
	if filepath.Ext(path) == ".toml" {
		return toml.Parser()
	}
	return yaml.Parser()
}

// Criterion deserializes the configured criteria tree. An empty tree
// yields nil, meaning no note is selected by criteria alone.
func (c *Config) Criterion() (criteria.Criterion, error) {
	if len(c.Criteria) == 0 {
		return nil, nil
	}
	return criteria.Deserialize(c.Criteria)
}

// Validate checks the fields a publish operation depends on.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.VaultRoot, validation.Required),
		validation.Field(&c.PublishDir, validation.Required),
		validation.Field(&c.Branch, validation.Required),
		validation.Field(&c.CommitMessage, validation.Required),
	)
	if err != nil {
		return errors.Wrap(err, errors.ErrConfigValid, "invalid configuration")
	}
	return nil
}

// Clone returns a deep copy. Editors change the copy and persist it
// atomically with Save; the live configuration is never mutated in
// place.
func (c *Config) Clone() *Config {
	out := *c
	out.Criteria = cloneValue(c.Criteria).(map[string]interface{})
	return &out
}

func cloneValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		m := make(map[string]interface{}, len(t))
		for k, val := range t {
			m[k] = cloneValue(val)
		}
		return m
	case []interface{}:
		s := make([]interface{}, len(t))
		for i, val := range t {
			s[i] = cloneValue(val)
		}
		return s
	default:
		return v
	}
}

// Save writes the configuration as YAML to path via a temp file and
// rename, so a crash never leaves a half-written config behind.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "marshaling configuration")
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".vaultpub-config*")
	if err != nil {
		return errors.Wrap(err, errors.ErrConfigLoad, "creating temp config file")
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return errors.Wrap(err, errors.ErrConfigLoad, "writing config")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return errors.Wrap(err, errors.ErrConfigLoad, "writing config")
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return errors.Wrap(err, errors.ErrConfigLoad, "replacing config")
	}
	return nil
}
