package logging

import (
	"go.uber.org/zap"
)

// New builds the process logger and installs it as zap's global.
func New(development bool) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if development {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}

func fieldsOf(fields map[string]any) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		out = append(out, zap.Any(k, v))
	}
	return out
}

func Info(msg string, fields map[string]any)  { zap.L().Info(msg, fieldsOf(fields)...) }
func Warn(msg string, fields map[string]any)  { zap.L().Warn(msg, fieldsOf(fields)...) }
func Error(msg string, fields map[string]any) { zap.L().Error(msg, fieldsOf(fields)...) }
