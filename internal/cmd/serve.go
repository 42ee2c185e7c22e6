package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/devspell/cli/internal/cmdtypes"
	"github.com/devspell/cli/internal/cmdutil"
	"github.com/devspell/cli/internal/output"
	"github.com/devspell/cli/internal/server"
	"github.com/devspell/cli/internal/version"
)

// shutdownTimeout bounds graceful shutdown, including outstanding saves.
const shutdownTimeout = 15 * time.Second

// NewServeCmd creates the serve command.
func NewServeCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	var addrFlag string

	c := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP download service",
		Long: `Run the HTTP service that scaffolds, plans and generates projects.

Routes:
  GET  /healthz                        liveness
  GET  /api/v1/templates               built-in technologies
  GET  /api/v1/projects                saved projects of X-User-ID
  POST /api/v1/projects/scaffold       template-only zip
  POST /api/v1/projects/plan           plan draft
  POST /api/v1/projects/generate       full generation, zip download
  POST /api/v1/projects/recommend      stack recommendation
  POST /api/v1/projects/compatibility  stack compatibility check
  POST /api/v1/wizard                  wizard transition

The listen address is resolved using precedence:
  --addr flag > DEVSPELL_SERVER_ADDR env > server.addr in config > :8080

Examples:
  devspell serve
  devspell serve --addr :9000`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runServe(c.Context(), gc, addrFlag)
		},
	}

	c.Flags().StringVar(&addrFlag, "addr", "", "Listen address (default: from config)")
	return c
}

func runServe(ctx context.Context, gc *cmdtypes.GlobalConfig, addrFlag string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := cmdutil.NewServices(ctx, gc, cmdutil.ServiceOptions{LLM: true, Persistence: true})
	if err != nil {
		return cmdtypes.Exit(err)
	}

	addr := gc.Config.Server.Addr
	if addrFlag != "" {
		addr = addrFlag
	}

	if !gc.Verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	router := server.BuildRouter(server.RouterDeps{
		ServiceName: "devspell",
		Version:     version.Version,
		Pipeline:    svc.Pipeline,
		Advisor:     svc.Advisor,
		Registry:    svc.Registry,
		Sink:        svc.Sink,
		CORSOrigins: gc.Config.Server.CORSOrigins,
	})
	srv := server.New(addr, router)
	output.Debug("services ready", "llm", svc.Client.Name(), "store", gc.Config.Store.Kind, "export", gc.Config.Export.Kind)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		_ = svc.Close()
		return cmdtypes.Exit(err)
	case <-ctx.Done():
	}

	output.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		output.Warn("server shutdown", "error", err)
	}
	if err := svc.Close(); err != nil {
		output.Warn("closing services", "error", err)
	}
	return nil
}
