// Package logger provides a context-aware wrapper around Go's slog package
// adding functional options for configuration, helper attribute constructors,
// and transparent injection of values stored in context.Context.
//
// The package standardises structured logging across the module through one
// factory, New, which creates a *slog.Logger configured by Option functions:
//
//   - Select an output format (text or json)
//   - Set the minimum log level
//   - Supply default slog.Attr values applied to every record
//   - Register ContextExtractor callbacks that inject attributes pulled from
//     a context value (for example a request id) every time Handle is invoked
//
// # Architecture
//
// New picks the concrete slog.Handler, slog.NewTextHandler or
// slog.NewJSONHandler, based on the configured Format, then wraps it with
// LogHandlerDecorator, which runs the registered ContextExtractor callbacks
// before delegating to the underlying handler.
//
// Helper constructors such as Entity, FromState, ToState, and Error live in
// attr.go and return commonly-used slog.Attr instances to keep attribute
// naming consistent across the codebase.
//
// # Usage
//
//	import "github.com/dmitrymomot/statekit/pkg/logger"
//
//	func main() {
//	    log := logger.New(
//	        logger.WithProduction("content-service"),
//	        logger.WithContextValue("request_id", ctxKeyRequestID),
//	    )
//	    logger.SetAsDefault(log)
//
//	    log.InfoContext(ctx, "transition executed",
//	        logger.Entity("article", "a-123"),
//	        logger.FromState("draft"),
//	        logger.ToState("review"),
//	    )
//	}
package logger
