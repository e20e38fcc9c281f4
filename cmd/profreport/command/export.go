package command

import (
	"fmt"
	"github.com/jom-io/gorig-prof/src/report"
	"github.com/spf13/cobra"
	"os"
)

func exportCommand() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the endpoint totals as a pprof profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			rep, e := report.New(c).Report(cmd.Context())
			if e != nil {
				return e
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := report.ExportProfile(f, rep); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s, open it with: go tool pprof %s\n", out, out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "profiler.pb.gz", "output file")
	return cmd
}
