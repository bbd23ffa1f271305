package main

import (
	"fmt"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zephyrtronium/calc/internal/server"
)

func newServeCmd(o *options) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve expression evaluation over HTTP",
		Long: `serve runs the HTTP API until SIGINT, SIGTERM or SIGHUP, then waits up to
the configured shutdown timeout for open requests to finish.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, closeLog, err := o.setup()
			if err != nil {
				return err
			}
			defer closeLog()
			if addr != "" {
				cfg.Server.Address = addr
			}

			srv := server.New(cfg.Server, log)
			// Canceling the command's context also shuts the server down.
			wait := gfshutdown.GracefulShutdown(
				cmd.Context(),
				cfg.Server.ShutdownTimeout,
				map[string]gfshutdown.Operation{
					"http": srv.Shutdown,
				},
			)
			listenErr := make(chan error, 1)
			go func() {
				listenErr <- srv.Listen()
			}()

			select {
			case err := <-listenErr:
				if err != nil {
					return fmt.Errorf("listening on %s: %w", cfg.Server.Address, err)
				}
				// Listen returns nil as soon as shutdown closes the listener,
				// before open requests finish.
				return exited(log, <-wait)
			case code := <-wait:
				return exited(log, code)
			}
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "address to listen on (overrides the config file)")
	return cmd
}

func exited(log *zap.Logger, code int) error {
	log.Info("server exited", zap.Int("code", code))
	if code != 0 {
		return fmt.Errorf("shutdown timed out with code %d", code)
	}
	return nil
}
