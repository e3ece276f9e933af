package logger

import (
	"go.uber.org/zap"
)

// New は GO_ENV に合わせた zap.Logger を返す（prod は JSON、それ以外は開発向け）。
func New(env string) (*zap.Logger, error) {
	if env == "prod" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
