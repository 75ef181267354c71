package document

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/tmscope/pkg/position"
	"github.com/walteh/tmscope/pkg/tagstream"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// Fixture is the on-disk form of a tokenized document.
//
//	name: source.demo
//	scopes:
//	  1: source.demo
//	  3: string.quoted.double
//	lines:
//	  - text: 'x = "hi"'
//	    tags: [-1, 4, -3, 4, -4, -2]
//	probes:
//	  - {row: 0, column: 5}
type Fixture struct {
	Name   string         `json:"name" yaml:"name"`
	Scopes map[int]string `json:"scopes" yaml:"scopes"`
	Lines  []FixtureLine  `json:"lines" yaml:"lines"`
	Tree   []*FixtureNode `json:"tree,omitempty" yaml:"tree,omitempty"`
	// Probes are cursor positions to resolve in batch runs.
	Probes []position.Place `json:"probes,omitempty" yaml:"probes,omitempty"`
}

type FixtureLine struct {
	Text       string `json:"text" yaml:"text"`
	Tags       []int  `json:"tags" yaml:"tags"`
	OpenScopes []int  `json:"open_scopes,omitempty" yaml:"open_scopes,omitempty"`
}

type FixtureNode struct {
	Kind     string         `json:"kind" yaml:"kind"`
	Scope    string         `json:"scope,omitempty" yaml:"scope,omitempty"`
	Start    position.Place `json:"start" yaml:"start"`
	End      position.Place `json:"end" yaml:"end"`
	Children []*FixtureNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// ParseFixture decodes fixture data. JSON is used for .json files and YAML
// for everything else.
func ParseFixture(path string, data []byte) (*Fixture, error) {
	var fx Fixture

	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(data, &fx); err != nil {
			return nil, errors.Errorf("parsing JSON fixture: %w", err)
		}
		return &fx, nil
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&fx); err != nil {
		return nil, errors.Errorf("parsing YAML fixture: %w", err)
	}
	return &fx, nil
}

// Document converts the fixture. It does not validate.
func (fx *Fixture) Document() *Document {
	scopes := make(map[tagstream.ScopeID]string, len(fx.Scopes))
	for id, name := range fx.Scopes {
		scopes[tagstream.ScopeID(id)] = name
	}

	lines := make([]Line, 0, len(fx.Lines))
	for _, l := range fx.Lines {
		line := Line{Text: l.Text, Tags: make([]tagstream.Tag, len(l.Tags))}
		for i, t := range l.Tags {
			line.Tags[i] = tagstream.Tag(t)
		}
		if l.OpenScopes != nil {
			line.OpenScopes = make([]tagstream.ScopeID, len(l.OpenScopes))
			for i, id := range l.OpenScopes {
				line.OpenScopes[i] = tagstream.ScopeID(id)
			}
		}
		lines = append(lines, line)
	}

	doc := New(fx.Name, scopes, lines)

	if len(fx.Tree) > 0 {
		nodes := make([]*Node, 0, len(fx.Tree))
		for _, n := range fx.Tree {
			nodes = append(nodes, n.node())
		}
		doc.WithTree(nodes...)
	}

	if len(fx.Probes) > 0 {
		doc.WithProbes(fx.Probes...)
	}

	return doc
}

func (fn *FixtureNode) node() *Node {
	if fn == nil {
		return nil
	}
	n := &Node{
		Kind:  fn.Kind,
		Scope: fn.Scope,
		Range: position.Range{Start: fn.Start, End: fn.End},
	}
	for _, c := range fn.Children {
		n.Children = append(n.Children, c.node())
	}
	return n
}

// Load reads, decodes and validates a fixture from fs.
func Load(ctx context.Context, fs afero.Fs, path string) (*Document, error) {
	logger := zerolog.Ctx(ctx)

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Errorf("reading fixture %s: %w", path, err)
	}

	fx, err := ParseFixture(path, data)
	if err != nil {
		return nil, errors.Errorf("decoding fixture %s: %w", path, err)
	}

	doc := fx.Document()
	if err := doc.Validate(); err != nil {
		return nil, errors.Errorf("validating fixture %s: %w", path, err)
	}

	logger.Debug().
		Str("path", path).
		Str("name", doc.Name()).
		Int("rows", len(doc.rows)).
		Bool("tree", doc.SupportsTree()).
		Msg("loaded document")

	return doc, nil
}
