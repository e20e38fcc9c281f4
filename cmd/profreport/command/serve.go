package command

import (
	"context"
	stderrors "errors"
	"github.com/gin-gonic/gin"
	"github.com/jom-io/gorig-prof/src/mid"
	"github.com/jom-io/gorig-prof/src/report"
	"github.com/jom-io/gorig/utils/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"net/http"
	"os/signal"
	"syscall"
	"time"
)

func serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTML and JSON report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, report.New(c))
		},
	}
	cmd.Flags().String("host", "", "listen host")
	cmd.Flags().Int("port", 0, "listen port")
	cmd.Flags().Bool("debug", false, "gin debug mode")
	return cmd
}

func serve(ctx context.Context, s *report.Serv) error {
	c := s.Config()
	if !c.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	group := engine.Group("/")
	group.Use(mid.BasicAuth(c.PasswordHash))
	report.Mount(group, s)

	srv := &http.Server{
		Addr:              c.Addr(),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "Profiler report listening", zap.String("addr", c.Addr()), zap.String("source", c.Source))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	logger.Info(shutdownCtx, "Profiler report shutting down")
	return srv.Shutdown(shutdownCtx)
}
