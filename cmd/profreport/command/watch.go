package command

import (
	"github.com/jom-io/gorig-prof/src/report"
	"github.com/spf13/cobra"
	"os/signal"
	"syscall"
)

func watchCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print a new report whenever the local source changes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return report.New(c).Watch(ctx, func(rep *report.Report) error {
				return write(cmd.OutOrStdout(), rep, format)
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format: table, json or html")
	return cmd
}
