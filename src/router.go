package prof

import (
	"github.com/gin-gonic/gin"
	"github.com/jom-io/gorig-prof/src/conf"
	_ "github.com/jom-io/gorig-prof/src/defaults" // gorig config fallback
	"github.com/jom-io/gorig-prof/src/mid"
	"github.com/jom-io/gorig-prof/src/report"
	"github.com/jom-io/gorig/cronx"
	"github.com/jom-io/gorig/httpx"
	configure "github.com/jom-io/gorig/utils/cofigure"
	"time"
)

func init() {
	Setup()
}

// Setup mounts the report under om/profiler when om.profiler.enable is set.
func Setup() {
	if !conf.ParseBool(configure.GetString("om.profiler.enable", "")) {
		return
	}
	s := report.S()
	c := s.Config()
	httpx.RegisterRouter(func(groupRouter *gin.RouterGroup) {
		prof := groupRouter.Group("om/profiler")
		prof.Use(mid.BasicAuth(c.PasswordHash))
		report.Mount(prof, s)
	})
	if c.Refresh != "" {
		cronx.AddCronTask(c.Refresh, s.Refresh, 30*time.Second)
	}
}
