// Package lexicon loads skills vocabulary extensions from a YAML file.
package lexicon

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kirillkom/resume-analyzer/internal/core/fields"
)

// File is the on-disk override format:
//
//	skills:
//	  words: [elixir, deno]
//	  phrases: ["event sourcing"]
//	  canonical: {deno: Deno}
//	  banned: [synergy]
//	roles: ["site reliability engineer"]
type File struct {
	Skills struct {
		Words     []string          `yaml:"words"`
		Phrases   []string          `yaml:"phrases"`
		Canonical map[string]string `yaml:"canonical"`
		Banned    []string          `yaml:"banned"`
	} `yaml:"skills"`
	Roles []string `yaml:"roles"`
}

func (f File) Overrides() fields.LexiconOverrides {
	return fields.LexiconOverrides{
		Words:     f.Skills.Words,
		Phrases:   f.Skills.Phrases,
		Canonical: f.Skills.Canonical,
		Banned:    f.Skills.Banned,
		Roles:     f.Roles,
	}
}

// Load returns the default lexicon when path is empty, otherwise the
// default extended with the file's overrides.
func Load(path string) (*fields.Lexicon, error) {
	if path == "" {
		return fields.DefaultLexicon(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon file: %w", err)
	}
	f, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	return fields.NewLexicon(f.Overrides()), nil
}

// Parse rejects unknown keys so that typos in the file do not silently
// disable an override.
func Parse(raw []byte) (File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return File{}, fmt.Errorf("decode lexicon file: %w", err)
	}
	return f, nil
}
