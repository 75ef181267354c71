package config

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/tmscope/pkg/preview"
	"github.com/walteh/tmscope/pkg/scope"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// Settings are the user tunables of the inspector. Fields missing from a
// settings file keep their defaults.
type Settings struct {
	MaxPreviewLength     int    `json:"max_preview_length" yaml:"max_preview_length" hcl:"max_preview_length,optional"`
	PreviewEdgeLength    int    `json:"preview_edge_length" yaml:"preview_edge_length" hcl:"preview_edge_length,optional"`
	ReplaceSpaces        bool   `json:"replace_spaces" yaml:"replace_spaces" hcl:"replace_spaces,optional"`
	SpaceChar            string `json:"space_char" yaml:"space_char" hcl:"space_char,optional"`
	NewlineChar          string `json:"newline_char" yaml:"newline_char" hcl:"newline_char,optional"`
	AdjustEndOfLineScope bool   `json:"adjust_end_of_line_scope" yaml:"adjust_end_of_line_scope" hcl:"adjust_end_of_line_scope,optional"`
}

func Defaults() *Settings {
	return &Settings{
		MaxPreviewLength:     preview.DefaultMaxLength,
		PreviewEdgeLength:    preview.DefaultEdgeLength,
		ReplaceSpaces:        true,
		SpaceChar:            preview.DefaultSpaceChar,
		NewlineChar:          preview.DefaultNewlineChar,
		AdjustEndOfLineScope: false,
	}
}

// Load reads settings from a YAML (.yaml, .yml) or HCL (.hcl) file on top of
// the defaults.
func Load(ctx context.Context, fs afero.Fs, path string) (*Settings, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Errorf("reading settings file: %w", err)
	}

	cfg := Defaults()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(cfg); err != nil {
			return nil, errors.Errorf("parsing YAML: %w", err)
		}
	case ".hcl":
		parser := hclparse.NewParser()
		hclFile, diags := parser.ParseHCL(data, path)
		if diags.HasErrors() {
			return nil, errors.Errorf("parsing HCL: %s", diags.Error())
		}

		evalCtx := &hcl.EvalContext{
			Variables: map[string]cty.Value{},
		}

		diags = gohcl.DecodeBody(hclFile.Body, evalCtx, cfg)
		if diags.HasErrors() {
			return nil, errors.Errorf("decoding HCL: %s", diags.Error())
		}
	default:
		return nil, errors.Errorf("unsupported settings format %q", filepath.Ext(path))
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("invalid settings in %s: %w", path, err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Interface("settings", cfg).Msg("loaded settings")

	return cfg, nil
}

func (s *Settings) Validate() error {
	if s.MaxPreviewLength < 0 {
		return errors.Errorf("max_preview_length must not be negative, got %d", s.MaxPreviewLength)
	}
	if s.PreviewEdgeLength < 0 {
		return errors.Errorf("preview_edge_length must not be negative, got %d", s.PreviewEdgeLength)
	}
	if s.ReplaceSpaces && (s.SpaceChar == "" || s.NewlineChar == "") {
		return errors.Errorf("replace_spaces needs both space_char and newline_char")
	}
	return nil
}

func (s *Settings) PreviewOptions() preview.Options {
	return preview.Options{
		MaxLength:         s.MaxPreviewLength,
		EdgeLength:        s.PreviewEdgeLength,
		ReplaceWhitespace: s.ReplaceSpaces,
		SpaceChar:         s.SpaceChar,
		NewlineChar:       s.NewlineChar,
	}
}

func (s *Settings) ScopeOptions() scope.Options {
	return scope.Options{AdjustEndOfLine: s.AdjustEndOfLineScope}
}
