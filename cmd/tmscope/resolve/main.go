package resolve

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/tmscope/cmd/tmscope/cli"
	"github.com/walteh/tmscope/pkg/document"
	"github.com/walteh/tmscope/pkg/inspect"
	"github.com/walteh/tmscope/pkg/position"
	"gitlab.com/tozd/go/errors"
)

type Handler struct {
	globals *cli.Globals
	at      []string
}

func NewResolveCommand(globals *cli.Globals) *cobra.Command {
	me := &Handler{globals: globals}

	cmd := &cobra.Command{
		Use:   "resolve <fixture>",
		Short: "show the scopes and ranges at cursor positions in a tokenized document",
		Long: "Each --at position is treated as a cursor move, in order. Without --at the " +
			"fixture's probes are used.",
		Args: cobra.ExactArgs(1),
	}

	cmd.Flags().StringSliceVar(&me.at, "at", nil, "cursor position as row:column, repeatable")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context(), cmd, args[0])
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context, cmd *cobra.Command, path string) error {
	ctx = me.globals.Context(ctx)

	settings, err := me.globals.Settings(ctx, cmd)
	if err != nil {
		return err
	}

	doc, err := document.Load(ctx, me.globals.Fs, path)
	if err != nil {
		return errors.Errorf("loading document: %w", err)
	}

	places := doc.Probes()
	if len(me.at) > 0 {
		places = make([]position.Place, 0, len(me.at))
		for _, s := range me.at {
			p, err := cli.ParsePlace(s)
			if err != nil {
				return err
			}
			places = append(places, p)
		}
	}
	if len(places) == 0 {
		return errors.Errorf("no positions: pass --at or add probes to %s", path)
	}

	session := inspect.NewSession(me.globals.Model(settings))

	results := make([]*inspect.Result, 0, len(places))
	for _, p := range places {
		res, current := session.Trigger(ctx, doc, p)
		if !current {
			zerolog.Ctx(ctx).Debug().Stringer("position", p).Msg("result superseded")
			continue
		}
		results = append(results, res)
	}

	return me.globals.Print(cmd.OutOrStdout(), results, results...)
}
