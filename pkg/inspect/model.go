package inspect

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/walteh/tmscope/pkg/position"
	"github.com/walteh/tmscope/pkg/preview"
	"github.com/walteh/tmscope/pkg/scope"
	"github.com/walteh/tmscope/pkg/tagstream"
	"gitlab.com/tozd/go/errors"
)

// Mode tells which query path produced a Result.
type Mode int

const (
	ModeTextMate Mode = iota
	ModeTree
)

func (m Mode) String() string {
	switch m {
	case ModeTextMate:
		return "textmate"
	case ModeTree:
		return "tree"
	}
	return "unknown"
}

func (m Mode) MarshalText() ([]byte, error) {
	if m != ModeTextMate && m != ModeTree {
		return nil, errors.Errorf("unknown mode %d", int(m))
	}
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "textmate":
		*m = ModeTextMate
	case "tree":
		*m = ModeTree
	default:
		return errors.Errorf("unknown mode %q", text)
	}
	return nil
}

// Document is what the model needs from a tokenized document.
type Document interface {
	tagstream.LineProvider
	tagstream.ScopeCatalog
	Name() string
	TextInRange(r position.Range) string
	ClipRange(r position.Range) position.Range
}

// Result is everything shown for one cursor position.
type Result struct {
	RunID          string         `json:"run_id"`
	Mode           Mode           `json:"mode"`
	RootLanguage   string         `json:"root_language"`
	Position       position.Place `json:"position"`
	Scopes         []string       `json:"scopes"`
	Path           []string       `json:"path,omitempty"`
	ScopeRange     position.Range `json:"scope_range"`
	ImmediateRange position.Range `json:"immediate_range"`
	Text           string         `json:"text"`
	TextImmediate  string         `json:"text_immediate"`
	Ambiguous      bool           `json:"ambiguous,omitempty"`
}

// Model computes Results. It holds no per-document state, so one Model can
// serve every document.
type Model struct {
	opts    scope.Options
	preview *preview.Formatter
}

func NewModel(opts scope.Options, formatter *preview.Formatter) *Model {
	if formatter == nil {
		formatter = preview.NewFormatter(preview.DefaultOptions())
	}
	return &Model{opts: opts, preview: formatter}
}

// Update inspects the document at p. Documents that answer tree queries are
// served by the tree and get no ranges; all others go through the tag stream
// resolver.
func (m *Model) Update(ctx context.Context, doc Document, p position.Place) *Result {
	res := &Result{
		RunID:        uuid.NewString(),
		RootLanguage: doc.Name(),
		Position:     p,
	}

	logger := zerolog.Ctx(ctx).With().Str("run_id", res.RunID).Logger()
	ctx = logger.WithContext(ctx)

	if tree, ok := doc.(tagstream.TreeProvider); ok && tree.SupportsTree() {
		res.Mode = ModeTree
		res.Scopes = tree.ScopesAtPosition(p)
		res.Path = tree.PathToPosition(p)
	} else {
		res.Mode = ModeTextMate
		resolved := scope.Resolve(ctx, doc, p, m.opts)

		res.Scopes = make([]string, 0, len(resolved.Stack))
		for _, id := range resolved.Stack {
			res.Scopes = append(res.Scopes, doc.ScopeName(id))
		}
		res.ScopeRange = resolved.Enclosing
		res.ImmediateRange = resolved.Immediate
		res.Ambiguous = resolved.Ambiguous
	}

	// the walk may step outside the document on malformed streams
	res.ScopeRange = doc.ClipRange(res.ScopeRange)
	res.ImmediateRange = doc.ClipRange(res.ImmediateRange)

	res.Text = m.preview.Format(doc.TextInRange(res.ScopeRange))
	res.TextImmediate = m.preview.Format(doc.TextInRange(res.ImmediateRange))

	logger.Debug().
		Stringer("mode", res.Mode).
		Stringer("position", p).
		Strs("scopes", res.Scopes).
		Msg("inspected position")

	return res
}
