package log

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the process-wide logger. It discards everything until InitLogger runs.
var Logger = zap.NewNop()

// InitLogger replaces Logger with a development logger when dev is set and a
// JSON production logger otherwise.
func InitLogger(level string, dev bool) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	if dev {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	l, err := cfg.Build()
	if err != nil {
		return err
	}
	Logger = l
	return nil
}

func Sync() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}
