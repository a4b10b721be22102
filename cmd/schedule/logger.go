package main

import (
	"context"
	"io"
	"log"
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/reugn/go-schedule/internal/config"
	"github.com/reugn/go-schedule/logger"
)

// newLogger builds the logger selected by the configuration.
func newLogger(cfg config.LogConfig, w io.Writer) (logger.Logger, error) {
	level, err := logger.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	switch cfg.Format {
	case config.FormatText:
		return logger.NewSimpleLogger(log.New(w, "", log.LstdFlags), level), nil

	case config.FormatJSON:
		handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:       logger.SlogLevel(level),
			ReplaceAttr: logger.ReplaceLevelAttr,
		})
		return logger.NewSlogLogger(context.Background(), slog.New(handler)), nil

	case config.FormatZerolog:
		zl := zerolog.New(w).Level(logger.ZerologLevel(level)).With().Timestamp().Logger()
		return logger.NewZerologLogger(zl), nil

	case config.FormatZap:
		encoderConfig := zap.NewProductionEncoderConfig()
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(w),
			logger.ZapLevel(level))
		return logger.NewZapLogger(zap.New(core).Sugar()), nil
	}
	return nil, errors.Newf("unknown log format %q", cfg.Format)
}
