package app

import (
	"context"
	"io"
)

type outputKey struct{}

// WithOutput returns a context carrying w as the callback output writer.
func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, w)
}

// Output returns the writer callbacks should print to. Inside a running
// daemon, lines written to it are forwarded to the logger at debug level.
// Without one, output is discarded.
func Output(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(outputKey{}).(io.Writer); ok && w != nil {
		return w
	}
	return io.Discard
}
