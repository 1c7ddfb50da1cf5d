// Package httpserver runs an HTTP handler with sane timeouts and graceful
// shutdown, and provides liveness and readiness handlers.
//
//	srv := httpserver.New(cfg, httpserver.WithLogger(log))
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//	if err := srv.Run(ctx, router); err != nil {
//		return err
//	}
//
// Run and Serve wrap listener failures with ErrStart and drain failures with
// ErrShutdown.
package httpserver
