package logger

import (
	"go.uber.org/zap"
)

// New creates a zap logger configured for the given environment.
// "production" gets JSON output at info level, everything else gets the
// development console encoder at debug level.
func New(appEnv string) (*zap.Logger, error) {
	if appEnv == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// NewNamed creates an environment-appropriate logger named after the service.
func NewNamed(appEnv, service string) (*zap.Logger, error) {
	log, err := New(appEnv)
	if err != nil {
		return nil, err
	}
	return log.Named(service), nil
}
