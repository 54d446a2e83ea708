package log

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestInitLogger(t *testing.T) {
	prev := Logger
	t.Cleanup(func() { Logger = prev })

	tests := []struct {
		name    string
		level   string
		dev     bool
		wantErr bool
		enabled zapcore.Level
	}{
		{name: "production info", level: "info", enabled: zapcore.InfoLevel},
		{name: "development debug", level: "debug", dev: true, enabled: zapcore.DebugLevel},
		{name: "unknown level", level: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Logger = zap.NewNop()
			err := InitLogger(tt.level, tt.dev)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !Logger.Core().Enabled(tt.enabled) {
				t.Errorf("level %v not enabled", tt.enabled)
			}
			if Logger.Core().Enabled(tt.enabled - 1) {
				t.Errorf("level %v unexpectedly enabled", tt.enabled-1)
			}
		})
	}
}
