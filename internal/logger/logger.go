package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Log struct {
	*zap.SugaredLogger
	closeFn func()
}

// NewLogger создает логгер.
// target: "console" (stderr), "file" или "both"; level: debug, info, warn, error.
func NewLogger(target, level, filename string) (*Log, error) {
	var lvl zapcore.Level
	if level == "" {
		level = "info"
	}
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return nil, fmt.Errorf("unknown log level %q: %w", level, err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	var cores []zapcore.Core
	closeFn := func() {}

	if target == "" || target == "console" || target == "both" {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(encCfg),
			zapcore.Lock(os.Stderr),
			lvl,
		))
	}
	if target == "file" || target == "both" {
		f, err := os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("error opening log file: %w", err)
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encCfg),
			zapcore.AddSync(f),
			lvl,
		))
		closeFn = func() { _ = f.Close() }
	}
	if len(cores) == 0 {
		return nil, fmt.Errorf("unknown log target %q", target)
	}

	l := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	return &Log{SugaredLogger: l.Sugar(), closeFn: closeFn}, nil
}

// Nop логгер, который ничего не пишет
func Nop() *Log {
	return &Log{SugaredLogger: zap.NewNop().Sugar(), closeFn: func() {}}
}

func (l *Log) Close() {
	_ = l.Sync()
	l.closeFn()
}
