package logging

import (
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LogConfig struct {
	Level        zapcore.Level `json:"level"`          // minimum level, DEBUG<INFO<WARN<ERROR<FATAL
	FileName     string        `json:"file_name"`      // log file location
	MaxSize      int           `json:"max_size"`       // max size in MB before rotation
	MaxAge       int           `json:"max_age"`        // max days to retain rotated files
	MaxBackups   int           `json:"max_backups"`    // max number of rotated files to keep
	IsStdout     bool          `json:"is_stdout"`      // also write to stdout
	IsStackTrace bool          `json:"is_stack_trace"` // attach stack traces at error level
}

// InitLogger builds the process-wide zap logger and installs it as the global.
func InitLogger(lCfg *LogConfig) (err error) {
	writeSyncer := getLogWriter(lCfg.FileName, lCfg.MaxSize, lCfg.MaxBackups, lCfg.MaxAge, lCfg.IsStdout)
	encoder := getEncoder()

	core := zapcore.NewCore(encoder, writeSyncer, lCfg.Level)
	var logger *zap.Logger
	if lCfg.IsStackTrace {
		logger = zap.New(core, zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel))
	} else {
		logger = zap.New(core, zap.AddCaller())
	}
	zap.ReplaceGlobals(logger)
	return
}

// getEncoder configures the JSON encoding of log records.
func getEncoder() zapcore.Encoder {
	encodeConfig := zap.NewProductionEncoderConfig()
	encodeConfig.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.Format("2006-01-02 15:04:05.000"))
	}
	encodeConfig.TimeKey = "time"
	encodeConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encodeConfig.EncodeCaller = zapcore.ShortCallerEncoder
	return zapcore.NewJSONEncoder(encodeConfig)
}

// getLogWriter wires file rotation and the optional stdout mirror.
func getLogWriter(filename string, maxsize, maxBackup, maxAge int, isStdout bool) zapcore.WriteSyncer {
	lumberJackLogger := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    maxsize,
		MaxAge:     maxAge,
		MaxBackups: maxBackup,
		Compress:   true,
	}
	if isStdout {
		return zapcore.NewMultiWriteSyncer(zapcore.AddSync(lumberJackLogger), zapcore.AddSync(os.Stdout))
	} else {
		return zapcore.AddSync(lumberJackLogger)
	}
}
