package renderopts

import (
	"time"

	"go.uber.org/zap"
)

// BuildLogEvent describes one option resolution for logging.
type BuildLogEvent struct {
	ResolutionID    string
	InputKind       InputKind
	MetadataEntries int
	Keys            []string
	Duration        time.Duration
	// Err holds a non-fatal failure, such as an activity hook error.
	Err error
}

// BuildLogger records build events.
type BuildLogger interface {
	LogBuild(BuildLogEvent)
}

// BuildLoggerFunc adapts a function to BuildLogger.
type BuildLoggerFunc func(BuildLogEvent)

// LogBuild implements BuildLogger.
func (f BuildLoggerFunc) LogBuild(event BuildLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopBuildLogger struct{}

func (noopBuildLogger) LogBuild(BuildLogEvent) {}

// WithLogger attaches a build logger to the Builder.
func WithLogger(logger BuildLogger) Option {
	return func(cfg *builderConfig) {
		if logger == nil {
			cfg.logger = noopBuildLogger{}
			return
		}
		cfg.logger = logger
	}
}

// NewZapBuildLogger logs builds at debug level and failures at warn level.
func NewZapBuildLogger(logger *zap.Logger) BuildLogger {
	if logger == nil {
		return noopBuildLogger{}
	}
	return BuildLoggerFunc(func(event BuildLogEvent) {
		fields := []zap.Field{
			zap.String("resolution_id", event.ResolutionID),
			zap.Stringer("input_kind", event.InputKind),
			zap.Int("metadata_entries", event.MetadataEntries),
			zap.Strings("keys", event.Keys),
			zap.Duration("duration", event.Duration),
		}
		if event.Err != nil {
			logger.Warn("render options resolved with errors", append(fields, zap.Error(event.Err))...)
			return
		}
		logger.Debug("render options resolved", fields...)
	})
}
