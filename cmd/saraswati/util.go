package main

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var red = color.New(color.FgRed).SprintFunc()

func setColor(v *viper.Viper) {
	if v.GetBool("no-color") || os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}
}

func useColor(f *os.File) bool {
	if color.NoColor {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func newLogger(v *viper.Viper) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(v.GetString("log-level")))
	if err != nil {
		return zerolog.Nop(), err
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr, NoColor: !useColor(os.Stderr)}
	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}

// source is one unit of input.
type source struct {
	name string
	code string
}

// addInputFlags registers the flags that select inline input.
func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("code", "c", "", "source code to process")
	cmd.Flags().Bool("stdin", false, "read source code from stdin")
}

// inlineSource returns the source given with --code or --stdin. ok is false
// when neither was used, in which case the input comes from args.
func inlineSource(cmd *cobra.Command, args []string) (src source, ok bool, err error) {
	codeSet := cmd.Flags().Changed("code")
	stdinSet, _ := cmd.Flags().GetBool("stdin")
	if codeSet && stdinSet {
		return source{}, false, errors.New("multiple input sources specified")
	}
	if (codeSet || stdinSet) && len(args) > 0 {
		return source{}, false, errors.New("multiple input sources specified")
	}
	switch {
	case stdinSet:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return source{}, false, err
		}
		return source{name: "<stdin>", code: string(data)}, true, nil
	case codeSet:
		code, _ := cmd.Flags().GetString("code")
		return source{name: "<code>", code: code}, true, nil
	case len(args) == 0:
		return source{}, false, errors.New("no input provided")
	}
	return source{}, false, nil
}
