package logger

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewFileLogger returns a JSON zap logger appending outbound HTTP records to
// filePath. The parent directory must already exist.
func NewFileLogger(filePath string) (*zap.Logger, error) {
	sink, _, err := zap.Open(filepath.Clean(filePath))
	if err != nil {
		return nil, fmt.Errorf("open http log %q: %w", filePath, err)
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	encoderCfg.EncodeDuration = zapcore.StringDurationEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		sink,
		zap.NewAtomicLevelAt(zap.InfoLevel),
	)
	return zap.New(core, zap.Fields(zap.String("stream", "outbound_http"))), nil
}
