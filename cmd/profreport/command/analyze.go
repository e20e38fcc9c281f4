package command

import (
	"encoding/json"
	"fmt"
	"github.com/jom-io/gorig-prof/src/report"
	"github.com/spf13/cobra"
	"io"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatHTML  = "html"
)

func analyzeCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Print the report once",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			rep, e := report.New(c).Report(cmd.Context())
			if e != nil {
				return e
			}
			return write(cmd.OutOrStdout(), rep, format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format: table, json or html")
	return cmd
}

func write(w io.Writer, rep *report.Report, format string) error {
	switch format {
	case formatTable:
		report.WriteTable(w, rep)
		return nil
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	case formatHTML:
		return report.WriteHTML(w, rep)
	}
	return fmt.Errorf("unknown format %q", format)
}
