package util

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Logger *zap.Logger

func InitLogger(logLevel string) {
	config := zap.NewProductionConfig()
	level, err := zapcore.ParseLevel(logLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}
	config.Level.SetLevel(level)
	// 所有日志都带上服务名，便于在聚合平台按服务筛选
	config.InitialFields = map[string]interface{}{
		"service": "entrehive-backend",
	}
	Logger, _ = config.Build()
}

// Error 返回一个 zap.Field，用于记录错误
func Error(err error) zap.Field {
	return zap.Error(err)
}

// Int 返回一个 zap.Field，用于记录整数
func Int(key string, value int) zap.Field {
	return zap.Int(key, value)
}

// UserID 返回记录用户ID的 zap.Field，统一字段名
func UserID(id int) zap.Field {
	return zap.Int("user_id", id)
}
