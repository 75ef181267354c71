package batch

import (
	"context"
	"path"
	"runtime"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/walteh/tmscope/cmd/tmscope/cli"
	"github.com/walteh/tmscope/pkg/document"
	"github.com/walteh/tmscope/pkg/inspect"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

type Handler struct {
	globals *cli.Globals
	jobs    int
}

// FileResults are the probe results of one fixture.
type FileResults struct {
	Path    string            `json:"path"`
	Results []*inspect.Result `json:"results"`
}

func NewBatchCommand(globals *cli.Globals) *cobra.Command {
	me := &Handler{globals: globals}

	cmd := &cobra.Command{
		Use:   "batch <pattern>...",
		Short: "resolve the probes of every fixture matching the glob patterns",
		Args:  cobra.MinimumNArgs(1),
	}

	cmd.Flags().IntVar(&me.jobs, "jobs", runtime.GOMAXPROCS(0), "fixtures resolved at once")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context(), cmd, args)
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context, cmd *cobra.Command, patterns []string) error {
	ctx = me.globals.Context(ctx)
	logger := zerolog.Ctx(ctx)

	settings, err := me.globals.Settings(ctx, cmd)
	if err != nil {
		return err
	}

	paths, err := Expand(me.globals.Fs, patterns...)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return errors.Errorf("no fixtures match %v", patterns)
	}

	logger.Debug().Strs("paths", paths).Msg("resolving fixtures")

	model := me.globals.Model(settings)
	out := make([]FileResults, len(paths))

	grp, gctx := errgroup.WithContext(ctx)
	if me.jobs > 0 {
		grp.SetLimit(me.jobs)
	}

	for i, p := range paths {
		grp.Go(func() error {
			doc, err := document.Load(gctx, me.globals.Fs, p)
			if err != nil {
				return errors.Errorf("loading document: %w", err)
			}

			res := FileResults{Path: p, Results: make([]*inspect.Result, 0, len(doc.Probes()))}
			for _, probe := range doc.Probes() {
				res.Results = append(res.Results, model.Update(gctx, doc, probe))
			}
			out[i] = res
			return nil
		})
	}

	if err := grp.Wait(); err != nil {
		return err
	}

	var flat []*inspect.Result
	for _, fr := range out {
		flat = append(flat, fr.Results...)
	}

	return me.globals.Print(cmd.OutOrStdout(), out, flat...)
}

// Expand resolves doublestar patterns against fs, returning sorted unique
// paths. Patterns may be absolute or relative.
func Expand(fs afero.Fs, patterns ...string) ([]string, error) {
	seen := map[string]bool{}
	var paths []string

	for _, pattern := range patterns {
		base, rel := doublestar.SplitPattern(pattern)

		root := fs
		if base != "." {
			root = afero.NewBasePathFs(fs, base)
		}

		matches, err := doublestar.Glob(afero.NewIOFS(root), rel, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Errorf("expanding %q: %w", pattern, err)
		}

		for _, m := range matches {
			if base != "." {
				m = path.Join(base, m)
			}
			if !seen[m] {
				seen[m] = true
				paths = append(paths, m)
			}
		}
	}

	sort.Strings(paths)
	return paths, nil
}
