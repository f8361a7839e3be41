package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/saraswati-lib/saraswati"
	"github.com/saraswati-lib/saraswati/build"
	saraswatierrors "github.com/saraswati-lib/saraswati/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newCompileCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile [files...]",
		Short: "Rewrite target calls and print or write the result",
		Long: `Rewrite target calls and print or write the result.

Directories are searched for .js, .mjs and .cjs files. By default the
output is printed to stdout; use --write to update files in place or
--out-dir to write a mirrored tree.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd, v, args)
		},
	}
	addInputFlags(cmd)
	cmd.Flags().Bool("diff", false, "print a unified diff against the input instead of the output")
	cmd.Flags().BoolP("write", "w", false, "write results back to the source files")
	cmd.Flags().StringP("out-dir", "o", "", "write results under this directory")
	return cmd
}

func runCompile(cmd *cobra.Command, v *viper.Viper, args []string) error {
	c, logger, err := newCompiler(v)
	if err != nil {
		return err
	}
	src, inline, err := inlineSource(cmd, args)
	if err != nil {
		return err
	}
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	showDiff := v.GetBool("diff")

	if inline {
		h := newHandler(stderr, src.name, src.code)
		res, err := c.CompileSource(cmd.Context(), src.code, src.name)
		if err != nil {
			saraswati.Emit(h, err)
			return &exitError{}
		}
		saraswati.EmitDiagnostics(h, res.Diagnostics)
		if showDiff {
			if err := writeDiff(stdout, src.name, src.code, res.Code); err != nil {
				return err
			}
		} else {
			fmt.Fprint(stdout, res.Code)
		}
		if res.Diagnostics.HasErrors() {
			return &exitError{}
		}
		return nil
	}

	write, outDir := v.GetBool("write"), v.GetString("out-dir")
	if write && outDir != "" {
		return errors.New("--write and --out-dir cannot be used together")
	}
	b, err := build.New(c,
		build.WithJobs(v.GetInt("jobs")),
		build.WithOutDir(outDir, ""),
		build.WithLogger(logger))
	if err != nil {
		return err
	}
	defer b.Close()

	report, err := b.Build(cmd.Context(), args...)
	if err != nil {
		return err
	}
	for _, f := range report.Files {
		h := newHandler(stderr, f.Path, f.Source)
		if f.Err != nil {
			saraswati.Emit(h, f.Err)
			continue
		}
		saraswati.EmitDiagnostics(h, f.Result.Diagnostics)
		switch {
		case showDiff:
			if err := writeDiff(stdout, f.Path, f.Source, f.Result.Code); err != nil {
				return err
			}
		case write:
			if f.Failed() || f.Result.Code == f.Source {
				continue
			}
			if err := os.WriteFile(f.Path, []byte(f.Result.Code), 0o644); err != nil {
				return err
			}
			logger.Info().Str("file", f.Path).Msg("wrote file")
		case outDir != "":
		default:
			if len(report.Files) > 1 {
				fmt.Fprintf(stdout, "// %s\n", f.Path)
			}
			fmt.Fprint(stdout, f.Result.Code)
		}
	}
	if outDir != "" {
		report.Render(stdout)
	}
	if report.HasErrors() {
		return &exitError{}
	}
	return nil
}

func newHandler(w io.Writer, filename, src string) *saraswatierrors.Handler {
	h := saraswatierrors.NewHandler(w, filename, src)
	if color.NoColor {
		h.SetColor(false)
	}
	return h
}

// writeDiff prints a unified diff from the input to the compiled output.
// Nothing is printed when they are identical.
func writeDiff(w io.Writer, name, before, after string) error {
	return difflib.WriteUnifiedDiff(w, difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: name,
		ToFile:   name + " (compiled)",
		Context:  3,
	})
}
