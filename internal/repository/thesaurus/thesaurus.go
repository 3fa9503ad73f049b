// Package thesaurus serves synonyms from a YAML word-group file.
//
// File format:
//
//	groups:
//	  - [wireless, cordless]
//	  - [laptop, notebook, notebook_computer]
//
// Every word in a group is a synonym of the others. Words may appear in
// several groups.
package thesaurus

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

type file struct {
	Groups [][]string `yaml:"groups"`
}

// Thesaurus is an immutable word -> synonyms table.
type Thesaurus struct {
	words map[string][]string
}

// Load reads a thesaurus file.
func Load(path string) (*Thesaurus, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read thesaurus %s: %w", path, err)
	}
	return Parse(data)
}

// Parse builds a thesaurus from YAML bytes.
func Parse(data []byte) (*Thesaurus, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse thesaurus: %w", err)
	}
	return New(f.Groups), nil
}

// New builds a thesaurus from word groups.
func New(groups [][]string) *Thesaurus {
	sets := make(map[string]map[string]struct{})
	for _, g := range groups {
		for _, w := range g {
			key := strings.ToLower(strings.TrimSpace(w))
			if key == "" {
				continue
			}
			if sets[key] == nil {
				sets[key] = make(map[string]struct{})
			}
			for _, other := range g {
				o := strings.TrimSpace(other)
				if o != "" && !strings.EqualFold(o, key) {
					sets[key][o] = struct{}{}
				}
			}
		}
	}

	words := make(map[string][]string, len(sets))
	for w, set := range sets {
		syns := make([]string, 0, len(set))
		for s := range set {
			syns = append(syns, s)
		}
		sort.Strings(syns)
		words[w] = syns
	}
	return &Thesaurus{words: words}
}

// Synonyms returns the synonyms of word, or nil if it is unknown.
func (t *Thesaurus) Synonyms(ctx context.Context, word string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("synonyms for %q: %w", word, err)
	}
	return t.words[strings.ToLower(word)], nil
}

// Len returns the number of known words.
func (t *Thesaurus) Len() int { return len(t.words) }
