package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/joshjon/kit/log"
	"github.com/joshjon/kit/server"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// Serve starts the server and blocks until ctx is cancelled, then stops the
// server gracefully.
func Serve(ctx context.Context, srv *server.Server, logger log.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	logger.Info("starting server", "address", srv.Address())
	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("start server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		stopCtx, stopCancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer stopCancel()
		if err := srv.Stop(stopCtx); err != nil {
			return fmt.Errorf("stop server: %w", err)
		}
		logger.Info("server stopped")
		return nil
	})

	logger.Info("waiting for server to be healthy")
	if err := srv.WaitHealthy(15, time.Second); err != nil {
		cancel()
		return errors.Join(err, g.Wait())
	}
	logger.Info("server healthy")

	return g.Wait()
}
