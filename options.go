package canvas

import "log/slog"

// Option configures a Canvas during creation.
//
// Example:
//
//	// Unbounded canvas
//	c := canvas.New()
//
//	// Culled to an 800x600 surface, warnings to a custom logger
//	c := canvas.New(canvas.WithCullRect(canvas.MakeXYWH(0, 0, 800, 600)),
//	    canvas.WithLogger(logger))
type Option func(*options)

// options holds optional configuration for Canvas creation.
type options struct {
	cullRect *Rect
	logger   *slog.Logger
}

// WithCullRect sets the initial cull rect. Draws entirely outside it are
// dropped.
func WithCullRect(r Rect) Option {
	return func(o *options) {
		o.cullRect = &r
	}
}

// WithLogger sets the logger contract violations of this canvas are
// reported to. By default the package logger is used; see SetLogger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
