// Package logger builds *slog.Logger values through functional options and
// provides attribute helpers so every component logs the same keys.
//
// New picks a text or JSON handler and wraps it with LogHandlerDecorator,
// which runs the registered ContextExtractor callbacks on each record.
// WithEnvironment selects the development (text, debug) or the staging and
// production (JSON, info) preset.
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.Env, "parking"),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "vehicle entered",
//	    logger.Plate(session.LicensePlate),
//	    logger.SpaceID(session.SpaceID),
//	    logger.SessionID(session.SessionID),
//	)
//
// Error and Errors return an empty attribute for nil errors, so they can be
// passed unconditionally.
package logger
