package logger

import "go.uber.org/zap"

// New создает логгер приложения. В режиме отладки используется
// development-конфигурация с человекочитаемым выводом.
func New(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
