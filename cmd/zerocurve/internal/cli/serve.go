package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/meenmo/zerocurve/config"
	"github.com/meenmo/zerocurve/server"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP calibration and pricing service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, logger := rootOpts.App, rootOpts.Logger
			if addr == "" {
				addr = app.Server.Addr
			}
			method, err := resolveMethod("", app)
			if err != nil {
				return err
			}

			if app.App.Env == "prod" {
				gin.SetMode(gin.ReleaseMode)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			repo, cleanup, err := openRepository(ctx, app, logger)
			if err != nil {
				return &ExitError{Code: ExitCommandError, Err: err}
			}
			defer cleanup()

			h := server.NewCurveHandler(repo, method, config.GetConfig(), logger)
			return server.Run(ctx, addr, server.NewRouter(h, logger), logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address; defaults to server.addr")
	return cmd
}
