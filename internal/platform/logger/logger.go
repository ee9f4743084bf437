// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package logger builds the process-wide [*zap.Logger].

Output is JSON on stdout. When a file path is configured the same entries
are teed into a size-rotated file. Debug mode switches to the console
encoder at debug level.
*/
package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls the sinks and verbosity of the root logger.
type Options struct {
	// App is attached to every entry as the "app" field.
	App string
	// Debug enables the development encoder at debug level.
	Debug bool
	// File, when set, adds a rotating file sink.
	File string
	// Stdout overrides the console sink. Defaults to os.Stdout.
	Stdout io.Writer
}

// New creates the root logger.
func New(opts Options) *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	if opts.Debug {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.CallerKey = "caller"
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	level := zap.InfoLevel
	encoder := zapcore.NewJSONEncoder(encoderConfig)
	if opts.Debug {
		level = zap.DebugLevel
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.AddSync(stdout), level),
	}

	if opts.File != "" {
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // MB
			MaxBackups: 7,
			MaxAge:     28, // days
			Compress:   true,
		})
		// The file always gets JSON so it can be shipped as-is.
		fileEncoder := zapcore.NewJSONEncoder(encoderConfig)
		cores = append(cores, zapcore.NewCore(fileEncoder, fileWriter, level))
	}

	log := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	if opts.App != "" {
		log = log.With(zap.String("app", opts.App))
	}
	return log
}
