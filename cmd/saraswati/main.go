package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var exit *exitError
		if !errors.As(err, &exit) {
			fmt.Fprintln(os.Stderr, red(err.Error()))
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	cmd := &cobra.Command{
		Use:           "saraswati",
		Short:         "Rewrite target calls in JavaScript source",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd, v)
		},
	}

	pf := cmd.PersistentFlags()
	pf.String("config", "", "config file (default .saraswati.yaml)")
	pf.String("mode", "direct", "compilation mode: direct, lowered or continuation")
	pf.String("callee", "yield", "target callee, such as yield or sched.yield")
	pf.String("runtime", "__rt.yield", "runtime function target calls are rewritten to")
	pf.String("placement", "statement", "where target calls may appear: statement or expression")
	pf.String("context", "function", "required enclosing context: anywhere, block or function")
	pf.Int("min-args", 0, "minimum number of arguments")
	pf.Int("max-args", -1, "maximum number of arguments (-1 for no limit)")
	pf.Bool("allow-nested-functions", false, "accept target calls inside nested functions")
	pf.Bool("respect-shadowing", true, "leave calls to a locally bound callee alone")
	pf.Bool("strict", false, "fail on the first misplaced target call")
	pf.String("syntax", "full", "syntax preset: full, portable or continuation-safe")
	pf.Int("indent", 2, "spaces per indentation level in output")
	pf.Bool("no-color", false, "disable colored output")
	pf.String("log-level", "warn", "log level: debug, info, warn or error")
	pf.Int("jobs", 0, "files compiled at once (0 for one per CPU)")

	cmd.AddCommand(
		newCompileCmd(v),
		newCheckCmd(v),
		newASTCmd(v),
		newWatchCmd(v),
		newVersionCmd(v),
	)
	return cmd
}

// initConfig layers the config file and SARASWATI_* environment variables
// under the command line flags.
func initConfig(cmd *cobra.Command, v *viper.Viper) error {
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	v.SetEnvPrefix("saraswati")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName(".saraswati")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return fmt.Errorf("read config: %w", err)
			}
		}
	}
	setColor(v)
	return nil
}

// exitError signals a failure that has already been reported.
type exitError struct{}

func (*exitError) Error() string { return "exit status 1" }
