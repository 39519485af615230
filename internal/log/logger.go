package log

import (
	"context"
	"fmt"
	stdlog "log"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/go-logr/stdr"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

func FromContext(ctx context.Context) logr.Logger {
	return logr.FromContextOrDiscard(ctx)
}

func WithLogger(ctx context.Context, logger logr.Logger) context.Context {
	return logr.NewContext(ctx, logger)
}

// WithValues returns ctx whose logger carries the given key/value pairs.
func WithValues(ctx context.Context, keysAndValues ...interface{}) context.Context {
	return logr.NewContext(ctx, FromContext(ctx).WithValues(keysAndValues...))
}

// New builds the process logger. text output goes through stdr, json through funcr.
func New(format string, verbosity int) (logr.Logger, error) {
	switch format {
	case "", FormatText:
		stdr.SetVerbosity(verbosity)
		return stdr.New(stdlog.New(os.Stderr, "", stdlog.LstdFlags|stdlog.Lmicroseconds)), nil
	case FormatJSON:
		return funcr.NewJSON(func(obj string) {
			fmt.Fprintln(os.Stderr, obj)
		}, funcr.Options{
			LogTimestamp: true,
			Verbosity:    verbosity,
		}), nil
	default:
		return logr.Discard(), fmt.Errorf("unknown log format: %q", format)
	}
}
