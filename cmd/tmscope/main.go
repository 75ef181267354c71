package main

import (
	"context"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/walteh/tmscope/cmd/tmscope/batch"
	"github.com/walteh/tmscope/cmd/tmscope/cli"
	"github.com/walteh/tmscope/cmd/tmscope/resolve"
	"gitlab.com/tozd/go/errors"
)

func main() {
	if err := run(); err != nil {
		println(err.Error())
		os.Exit(1)
	}
}

func run() error {
	rootCmd := newRootCommand(cli.NewGlobals())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		return errors.Errorf("failed to execute command: %w", err)
	}

	return nil
}

func newRootCommand(globals *cli.Globals) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tmscope",
		Short:         "Inspect the syntax scopes around a cursor in tokenized text",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		rootCmd.Version = "unknown"
	} else {
		rootCmd.Version = info.Main.Version
	}

	cmdVersion := &cobra.Command{
		Use: "raw-version",
		Run: func(cmdz *cobra.Command, args []string) {
			cmdz.Println(rootCmd.Version)
		},
		Hidden: true,
	}

	globals.Register(rootCmd)

	rootCmd.AddCommand(cmdVersion)
	rootCmd.AddCommand(resolve.NewResolveCommand(globals))
	rootCmd.AddCommand(batch.NewBatchCommand(globals))

	return rootCmd
}
