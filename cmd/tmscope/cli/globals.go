package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/walteh/tmscope/pkg/config"
	"github.com/walteh/tmscope/pkg/inspect"
	"github.com/walteh/tmscope/pkg/logging"
	"github.com/walteh/tmscope/pkg/position"
	"github.com/walteh/tmscope/pkg/preview"
	"gitlab.com/tozd/go/errors"
)

// Globals are the flags shared by every subcommand.
type Globals struct {
	Debug      bool
	ConfigPath string
	AdjustEOL  bool
	JSON       bool

	// Fs is where fixtures and settings are read from.
	Fs afero.Fs
	// LogOutput receives log events, os.Stderr when nil.
	LogOutput io.Writer
}

func NewGlobals() *Globals {
	return &Globals{Fs: afero.NewOsFs()}
}

func (g *Globals) Register(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.BoolVar(&g.Debug, "debug", false, "enable debug logging")
	flags.StringVar(&g.ConfigPath, "config", "", "settings file (.yaml, .yml or .hcl)")
	flags.BoolVar(&g.AdjustEOL, "adjust-eol", false, "reopen scopes closed at the end of the cursor's row")
	flags.BoolVar(&g.JSON, "json", false, "print results as JSON")
}

// Context attaches the command line logger to ctx.
func (g *Globals) Context(ctx context.Context) context.Context {
	out := g.LogOutput
	if out == nil {
		out = os.Stderr
	}
	logger := logging.New(out, logging.Options{
		Debug:   g.Debug,
		Console: true,
		Color:   !color.NoColor,
	})
	return logger.WithContext(ctx)
}

// Settings loads the settings file, if any, and applies flag overrides.
func (g *Globals) Settings(ctx context.Context, cmd *cobra.Command) (*config.Settings, error) {
	settings := config.Defaults()

	if g.ConfigPath != "" {
		loaded, err := config.Load(ctx, g.Fs, g.ConfigPath)
		if err != nil {
			return nil, errors.Errorf("loading settings: %w", err)
		}
		settings = loaded
	}

	if f := cmd.Flags().Lookup("adjust-eol"); f != nil && f.Changed {
		settings.AdjustEndOfLineScope = g.AdjustEOL
	}

	return settings, nil
}

func (g *Globals) Model(settings *config.Settings) *inspect.Model {
	return inspect.NewModel(settings.ScopeOptions(), preview.NewFormatter(settings.PreviewOptions()))
}

// Print writes results as JSON or in the panel layout.
func (g *Globals) Print(w io.Writer, v any, results ...*inspect.Result) error {
	if g.JSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return errors.Errorf("encoding results: %w", err)
		}
		return nil
	}

	for i, r := range results {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return errors.Errorf("writing results: %w", err)
			}
		}
		if err := inspect.Render(w, r, !color.NoColor); err != nil {
			return errors.Errorf("rendering result: %w", err)
		}
	}
	return nil
}

// ParsePlace reads "row:column".
func ParsePlace(s string) (position.Place, error) {
	rowStr, colStr, ok := strings.Cut(s, ":")
	if !ok {
		return position.Place{}, errors.Errorf("position %q: expected row:column", s)
	}
	row, err := strconv.Atoi(strings.TrimSpace(rowStr))
	if err != nil {
		return position.Place{}, errors.Errorf("position %q: row: %w", s, err)
	}
	col, err := strconv.Atoi(strings.TrimSpace(colStr))
	if err != nil {
		return position.Place{}, errors.Errorf("position %q: column: %w", s, err)
	}
	return position.Place{Row: row, Column: col}, nil
}
