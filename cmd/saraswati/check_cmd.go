package main

import (
	"fmt"
	"os"

	"github.com/saraswati-lib/saraswati"
	"github.com/saraswati-lib/saraswati/build"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newCheckCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [files...]",
		Short: "Report misplaced target calls without rewriting",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, v, args)
		},
	}
	addInputFlags(cmd)
	return cmd
}

func runCheck(cmd *cobra.Command, v *viper.Viper, args []string) error {
	c, _, err := newCompiler(v)
	if err != nil {
		return err
	}
	src, inline, err := inlineSource(cmd, args)
	if err != nil {
		return err
	}
	var sources []source
	if inline {
		sources = append(sources, src)
	} else {
		files, err := build.Expand(args)
		if err != nil {
			return err
		}
		for _, path := range files {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			sources = append(sources, source{name: path, code: string(data)})
		}
	}

	stderr := cmd.ErrOrStderr()
	var errs, warnings int
	for _, s := range sources {
		h := newHandler(stderr, s.name, s.code)
		diags, err := c.Check(cmd.Context(), s.code, s.name)
		if err != nil {
			saraswati.Emit(h, err)
		} else {
			saraswati.EmitDiagnostics(h, diags)
		}
		errs += h.ErrorCount()
		warnings += h.WarningCount()
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d %s checked: %d %s, %d %s\n",
		len(sources), plural(len(sources), "file"),
		errs, plural(errs, "error"),
		warnings, plural(warnings, "warning"))
	if errs > 0 {
		return &exitError{}
	}
	return nil
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
