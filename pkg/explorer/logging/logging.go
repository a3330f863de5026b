// Package logging builds the zap logger behind the logr.Logger handed to
// every component.
package logging

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	FormatJSON    = "json"
	FormatConsole = "console"

	OutputStdout = "stdout"
	OutputFile   = "file"
	OutputBoth   = "both"
)

type Config struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`

	// Rotation settings for file output, sizes in megabytes and ages in days.
	FilePath   string `yaml:"filePath"`
	MaxSize    int    `yaml:"maxSize"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAge     int    `yaml:"maxAge"`
	Compress   bool   `yaml:"compress"`
}

func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Format:     FormatConsole,
		Output:     OutputStdout,
		FilePath:   "logs/explorer.log",
		MaxSize:    100,
		MaxBackups: 5,
		MaxAge:     30,
	}
}

func (c Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Level); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Level, err)
	}
	switch c.Format {
	case FormatJSON, FormatConsole:
	default:
		return fmt.Errorf("invalid log format %q (must be json or console)", c.Format)
	}
	switch c.Output {
	case OutputStdout:
	case OutputFile, OutputBoth:
		if c.FilePath == "" {
			return fmt.Errorf("log file path is required for %s output", c.Output)
		}
	default:
		return fmt.Errorf("invalid log output %q (must be stdout, file or both)", c.Output)
	}
	return nil
}

// Logger owns the zap logger and the rotating file it may write to.
type Logger struct {
	zap  *zap.Logger
	file *lumberjack.Logger
}

// New builds a logger from cfg. Callers should Close it on exit.
func New(cfg Config) (*Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	level, _ := zapcore.ParseLevel(cfg.Level)

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var cores []zapcore.Core
	if cfg.Output == OutputStdout || cfg.Output == OutputBoth {
		consoleCfg := encoderCfg
		if cfg.Format == FormatConsole {
			consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
		cores = append(cores, zapcore.NewCore(encoder(cfg.Format, consoleCfg), zapcore.Lock(os.Stdout), level))
	}

	l := &Logger{}
	if cfg.Output == OutputFile || cfg.Output == OutputBoth {
		l.file = &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
		// files always get JSON so they stay machine readable
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(l.file), level))
	}

	l.zap = zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	return l, nil
}

func encoder(format string, cfg zapcore.EncoderConfig) zapcore.Encoder {
	if format == FormatJSON {
		return zapcore.NewJSONEncoder(cfg)
	}
	return zapcore.NewConsoleEncoder(cfg)
}

// Logr returns the logger as a logr.Logger.
func (l *Logger) Logr() logr.Logger {
	return zapr.NewLogger(l.zap)
}

// Close flushes buffered entries and closes the log file.
func (l *Logger) Close() error {
	// syncing stdout fails on some terminals; only file errors matter
	_ = l.zap.Sync()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// ParseLevel reports whether level names a zap level, ignoring case.
func ParseLevel(level string) (string, error) {
	l := strings.ToLower(strings.TrimSpace(level))
	if _, err := zapcore.ParseLevel(l); err != nil {
		return "", fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return l, nil
}
