package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/saraswati-lib/saraswati"
	"github.com/saraswati-lib/saraswati/build"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newWatchCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <dir|files>...",
		Short: "Recompile files whenever they change",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, v, args)
		},
	}
	cmd.Flags().StringP("out-dir", "o", "", "write results under this directory")
	return cmd
}

func runWatch(cmd *cobra.Command, v *viper.Viper, args []string) error {
	c, logger, err := newCompiler(v)
	if err != nil {
		return err
	}
	b, err := build.New(c,
		build.WithJobs(v.GetInt("jobs")),
		build.WithOutDir(v.GetString("out-dir"), ""),
		build.WithLogger(logger))
	if err != nil {
		return err
	}
	defer b.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return watch(ctx, cmd, b, args)
}

func watch(ctx context.Context, cmd *cobra.Command, b *build.Builder, paths []string) error {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	return b.Watch(ctx, paths, func(r *build.Report) {
		for _, f := range r.Files {
			h := newHandler(stderr, f.Path, f.Source)
			if f.Err != nil {
				saraswati.Emit(h, f.Err)
				continue
			}
			saraswati.EmitDiagnostics(h, f.Result.Diagnostics)
		}
		r.Render(stdout)
	})
}
