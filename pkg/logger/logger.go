package logger

import (
	"os"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New builds the production json logger. when log.file is set, entries are also written to a
// size-rotated file.
func New() (*zap.Logger, error) {
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.file", "")
	viper.SetDefault("log.max_size_mb", 100)
	viper.SetDefault("log.max_backups", 5)
	viper.SetDefault("log.max_age_days", 14)

	level, err := zapcore.ParseLevel(viper.GetString("log.level"))
	if err != nil {
		return nil, err
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	sinks := []zapcore.WriteSyncer{zapcore.Lock(os.Stdout)}
	if file := viper.GetString("log.file"); file != "" {
		sinks = append(sinks, zapcore.AddSync(&lumberjack.Logger{
			Filename:   file,
			MaxSize:    viper.GetInt("log.max_size_mb"),
			MaxBackups: viper.GetInt("log.max_backups"),
			MaxAge:     viper.GetInt("log.max_age_days"),
			Compress:   true,
		}))
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.NewMultiWriteSyncer(sinks...),
		zap.NewAtomicLevelAt(level),
	)

	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}
