package report

import (
	"bytes"
	"fmt"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/jom-io/gorig/apix"
	"github.com/jom-io/gorig/global/consts"
	"github.com/jom-io/gorig/utils/errors"
	"github.com/jom-io/gorig/utils/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"net/http"
)

// Mount registers the report routes on group.
func Mount(group *gin.RouterGroup, s *Serv) {
	group.GET("", s.Index)
	group.GET("report", s.JSON)
	group.GET("report/profile", s.Profile)
	group.GET("report/watch", s.Monitor)
	group.GET("health", s.HealthCheck)
	group.GET("metrics", gin.WrapH(promhttp.Handler()))
}

// Index renders the HTML report, failures included.
func (s *Serv) Index(ctx *gin.Context) {
	defer apix.HandlePanic(ctx)
	rep := s.Load(ctx)
	ctx.Render(http.StatusOK, render.HTML{Template: Page(), Name: "report", Data: rep})
}

func (s *Serv) JSON(ctx *gin.Context) {
	defer apix.HandlePanic(ctx)
	table := ctx.DefaultQuery("table", s.conf.Table)
	rep, err := s.ReportTable(ctx, table)
	apix.HandleData(ctx, consts.CurdSelectFailCode, rep, err)
}

// Profile downloads the report as a gzipped pprof file.
func (s *Serv) Profile(ctx *gin.Context) {
	defer apix.HandlePanic(ctx)
	rep, err := s.Report(ctx)
	if err != nil {
		apix.HandleData(ctx, consts.CurdSelectFailCode, nil, err)
		return
	}
	var buf bytes.Buffer
	if e := ExportProfile(&buf, rep); e != nil {
		logger.Error(ctx, "Export profile failed", zap.Error(e))
		apix.HandleData(ctx, consts.CurdSelectFailCode, nil, errors.Sys("Export profile failed", e))
		return
	}
	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="profiler-%s.pb.gz"`, rep.ID))
	ctx.Data(http.StatusOK, "application/octet-stream", buf.Bytes())
}

// Monitor streams a brief report over SSE whenever the source changes.
func (s *Serv) Monitor(ctx *gin.Context) {
	defer apix.HandlePanic(ctx)
	ctx.Writer.Header().Set("Content-Type", "text/event-stream")
	ctx.Writer.Header().Set("Cache-Control", "no-cache")
	ctx.Writer.Header().Set("Connection", "keep-alive")
	ctx.Writer.Flush()

	ctx.SSEvent("message", "monitoring started")
	ctx.Writer.Flush()
	defer func() {
		ctx.SSEvent("message", "monitoring stopped")
		ctx.Writer.Flush()
	}()

	err := s.Watch(ctx.Request.Context(), func(rep *Report) error {
		ctx.SSEvent("report", rep.Brief())
		ctx.Writer.Flush()
		return nil
	})
	if err != nil {
		logger.Warn(ctx, "Report watch stopped", zap.Error(err))
		ctx.SSEvent("error", err.Error())
	}
}

func (s *Serv) HealthCheck(ctx *gin.Context) {
	defer apix.HandlePanic(ctx)
	apix.HandleData(ctx, consts.CurdSelectFailCode, s.Health(ctx), nil)
}
