package common

import (
	"log"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger     *zap.SugaredLogger
	loggerOnce sync.Once
)

// Logger returns the process-wide sugared logger, building it on first use
func Logger() *zap.SugaredLogger {
	loggerOnce.Do(func() {
		config := zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

		l, err := config.Build()
		if err != nil {
			log.Panic(err)
		}

		logger = l.Sugar()
	})
	return logger
}
