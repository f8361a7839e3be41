package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/hokaccha/go-prettyjson"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newVersionCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch format := v.GetString("output"); format {
			case "json":
				info := map[string]string{"version": version, "commit": commit, "date": date}
				var data []byte
				var err error
				if useColor(os.Stdout) {
					data, err = prettyjson.Marshal(info)
				} else {
					data, err = json.MarshalIndent(info, "", "  ")
				}
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
			case "", "text":
				fmt.Fprintf(out, "saraswati %s (commit %s, built %s)\n", version, commit, date)
			default:
				return fmt.Errorf("unknown output format: %s", format)
			}
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "text", "output format: text or json")
	return cmd
}
