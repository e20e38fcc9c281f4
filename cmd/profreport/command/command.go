// Package command implements the profreport command line.
package command

import (
	"github.com/jom-io/gorig-prof/src/conf"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// flag name to config key
var flagKeys = map[string]string{
	"source":    "db",
	"table":     "table",
	"min-calls": "min_calls",
	"top-n":     "top_n",
	"host":      "host",
	"port":      "port",
	"debug":     "debug",
}

// loadConfig resolves flags over environment over gorig configuration.
func loadConfig(cmd *cobra.Command) (conf.Config, error) {
	v := conf.Viper()
	if err := bindFlags(v, cmd.Flags()); err != nil {
		return conf.Config{}, err
	}
	return conf.FromViper(v), nil
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}

// MakeCommand returns the profreport root command.
func MakeCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "profreport [command]",
		Short:        "Find slow endpoints in flask-profiler measurements",
		SilenceUsage: true,
	}
	pf := root.PersistentFlags()
	pf.StringP("source", "s", "", "profiler database: sqlite file, .jsonl dump, postgres:// or s3:// location")
	pf.StringP("table", "t", "", "measurement table, detected when empty")
	pf.Int("min-calls", 0, "calls needed before an endpoint can be flagged for its average")
	pf.Int("top-n", 0, "slowest endpoints reported as candidates")

	root.AddCommand(serveCommand(), analyzeCommand(), exportCommand(), watchCommand())
	return root
}
