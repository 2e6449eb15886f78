// Copyright (c) 2025 马晓璐
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of
// the Software, and to permit persons to whom the Software is furnished to do so,
// subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS
// FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR
// COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
// IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
// CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

/*
log:log.go
基于 zap 的日志封装。包级函数（Infof、Infow、Errorf 等）使用全局日志器，
Init 根据 Options 重新构建全局日志器；WithValues/WithName 派生子日志器，
L(ctx) 从上下文中取出携带 requestID 等字段的日志器。
Init 同时把 klog 与标准库 log 的输出重定向到 zap。
*/
package log

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/maxiaolu1981/light/pkg/log/klog"
)

// Logger 日志接口，隔离业务代码与 zap.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugw(msg string, keysAndValues ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
	WithValues(keysAndValues ...interface{}) Logger
	WithName(name string) Logger
	WithContext(ctx context.Context) context.Context
	Flush()
}

var _ Logger = &zapLogger{}

type zapLogger struct {
	zapLogger *zap.Logger
}

var (
	mu      sync.RWMutex
	std     = &zapLogger{zapLogger: zap.NewNop()}
	options *Options
)

// nolint: gochecknoinits
func init() {
	Init(NewOptions())
}

// Init 使用给定配置初始化全局日志器.
func Init(opts *Options) {
	l, err := New(opts)
	if err != nil {
		panic(err)
	}

	mu.Lock()
	defer mu.Unlock()
	options = opts
	std = l
	klog.InitLogger(l.zapLogger)
	zap.RedirectStdLog(l.zapLogger)
}

// New 根据配置创建日志器，不修改全局日志器.
func New(opts *Options) (*zapLogger, error) {
	if opts == nil {
		opts = NewOptions()
	}

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(opts.Level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	encodeLevel := zapcore.CapitalLevelEncoder
	if opts.Format == consoleFormat && opts.EnableColor && isatty.IsTerminal(os.Stdout.Fd()) {
		encodeLevel = zapcore.CapitalColorLevelEncoder
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    encodeLevel,
		EncodeTime:     timeEncoder,
		EncodeDuration: milliSecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var encoder zapcore.Encoder
	switch strings.ToLower(opts.Format) {
	case consoleFormat:
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	case jsonFormat:
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	default:
		return nil, fmt.Errorf("unsupported log format: %s", opts.Format)
	}

	out, err := openSinks(opts.OutputPaths)
	if err != nil {
		return nil, err
	}
	errOut, err := openSinks(opts.ErrorOutputPaths)
	if err != nil {
		return nil, err
	}

	// 错误级别以下写 OutputPaths，错误级别及以上写 ErrorOutputPaths
	core := zapcore.NewTee(
		zapcore.NewCore(encoder, out, zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
			return lvl < zapcore.ErrorLevel && lvl >= zapLevel
		})),
		zapcore.NewCore(encoder, errOut, zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
			return lvl >= zapcore.ErrorLevel && lvl >= zapLevel
		})),
	)

	zapOpts := []zap.Option{zap.AddCallerSkip(1)}
	if !opts.DisableCaller {
		zapOpts = append(zapOpts, zap.AddCaller())
	}
	if !opts.DisableStacktrace {
		zapOpts = append(zapOpts, zap.AddStacktrace(zapcore.PanicLevel))
	}
	if opts.Development {
		zapOpts = append(zapOpts, zap.Development())
	}

	l := zap.New(core, zapOpts...)
	if opts.Name != "" {
		l = l.Named(opts.Name)
	}

	return &zapLogger{zapLogger: l}, nil
}

func openSinks(paths []string) (zapcore.WriteSyncer, error) {
	writers := make([]zapcore.WriteSyncer, 0, len(paths))
	for _, path := range paths {
		switch path {
		case "stdout":
			writers = append(writers, zapcore.AddSync(os.Stdout))
		case "stderr":
			writers = append(writers, zapcore.AddSync(os.Stderr))
		default:
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return nil, fmt.Errorf("create log directory failed: %w", err)
			}
			f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return nil, fmt.Errorf("open log file failed: %w", err)
			}
			writers = append(writers, zapcore.AddSync(f))
		}
	}

	return zapcore.NewMultiWriteSyncer(writers...), nil
}

func current() *zapLogger {
	mu.RLock()
	defer mu.RUnlock()

	return std
}

// StdErrLogger 返回写入 error 级别的标准库 logger，供 http.Server.ErrorLog 使用.
func StdErrLogger() *log.Logger {
	if l, err := zap.NewStdLogAt(current().zapLogger, zapcore.ErrorLevel); err == nil {
		return l
	}

	return nil
}

// ZapLogger 返回底层 zap.Logger.
func ZapLogger() *zap.Logger {
	return current().zapLogger
}

// GetOptions 返回最近一次 Init 使用的配置.
func GetOptions() *Options {
	mu.RLock()
	defer mu.RUnlock()

	return options
}

func (l *zapLogger) Debugf(format string, args ...interface{}) {
	l.zapLogger.Sugar().Debugf(format, args...)
}

func (l *zapLogger) Infof(format string, args ...interface{}) {
	l.zapLogger.Sugar().Infof(format, args...)
}

func (l *zapLogger) Warnf(format string, args ...interface{}) {
	l.zapLogger.Sugar().Warnf(format, args...)
}

func (l *zapLogger) Errorf(format string, args ...interface{}) {
	l.zapLogger.Sugar().Errorf(format, args...)
}

func (l *zapLogger) Debugw(msg string, keysAndValues ...interface{}) {
	l.zapLogger.Sugar().Debugw(msg, keysAndValues...)
}

func (l *zapLogger) Infow(msg string, keysAndValues ...interface{}) {
	l.zapLogger.Sugar().Infow(msg, keysAndValues...)
}

func (l *zapLogger) Warnw(msg string, keysAndValues ...interface{}) {
	l.zapLogger.Sugar().Warnw(msg, keysAndValues...)
}

func (l *zapLogger) Errorw(msg string, keysAndValues ...interface{}) {
	l.zapLogger.Sugar().Errorw(msg, keysAndValues...)
}

func (l *zapLogger) WithValues(keysAndValues ...interface{}) Logger {
	return &zapLogger{zapLogger: l.zapLogger.Sugar().With(keysAndValues...).Desugar()}
}

func (l *zapLogger) WithName(name string) Logger {
	return &zapLogger{zapLogger: l.zapLogger.Named(name)}
}

func (l *zapLogger) Flush() {
	_ = l.zapLogger.Sync()
}

// WithValues 基于全局日志器派生携带键值对的子日志器.
func WithValues(keysAndValues ...interface{}) Logger { return current().WithValues(keysAndValues...) }

// WithName 基于全局日志器派生命名子日志器.
func WithName(name string) Logger { return current().WithName(name) }

// Flush 刷新缓冲的日志，进程退出前调用.
func Flush() { current().Flush() }

func Debug(msg string, fields ...Field) { current().zapLogger.Debug(msg, fields...) }

func Debugf(format string, v ...interface{}) { current().zapLogger.Sugar().Debugf(format, v...) }

func Debugw(msg string, keysAndValues ...interface{}) {
	current().zapLogger.Sugar().Debugw(msg, keysAndValues...)
}

func Info(msg string, fields ...Field) { current().zapLogger.Info(msg, fields...) }

func Infof(format string, v ...interface{}) { current().zapLogger.Sugar().Infof(format, v...) }

func Infow(msg string, keysAndValues ...interface{}) {
	current().zapLogger.Sugar().Infow(msg, keysAndValues...)
}

func Warn(msg string, fields ...Field) { current().zapLogger.Warn(msg, fields...) }

func Warnf(format string, v ...interface{}) { current().zapLogger.Sugar().Warnf(format, v...) }

func Warnw(msg string, keysAndValues ...interface{}) {
	current().zapLogger.Sugar().Warnw(msg, keysAndValues...)
}

func Error(msg string, fields ...Field) { current().zapLogger.Error(msg, fields...) }

func Errorf(format string, v ...interface{}) { current().zapLogger.Sugar().Errorf(format, v...) }

func Errorw(msg string, keysAndValues ...interface{}) {
	current().zapLogger.Sugar().Errorw(msg, keysAndValues...)
}

func Fatal(msg string, fields ...Field) { current().zapLogger.Fatal(msg, fields...) }

func Fatalf(format string, v ...interface{}) { current().zapLogger.Sugar().Fatalf(format, v...) }
