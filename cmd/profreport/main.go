// profreport analyses flask-profiler measurements and serves the report.
package main

import (
	"github.com/jom-io/gorig-prof/cmd/profreport/command"
	_ "github.com/jom-io/gorig-prof/src/defaults" // gorig config fallback
	"os"
)

func main() {
	if err := command.MakeCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
