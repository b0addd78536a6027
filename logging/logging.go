package logging

import (
	logging "github.com/textileio/go-log/v2"
	"go.uber.org/zap/zapcore"
)

// Loggers are the subsystems of tenderd.
var Loggers = []string{
	"tenderd",
	"tender/ledger",
	"tender/store",
	"tender/dsstore",
	"tender/auth",
	"tender/http-api",
	"tender/service",
}

// SetLogLevels sets levels for the given systems. The "*" system sets the level
// of every registered subsystem.
func SetLogLevels(systems map[string]logging.LogLevel) error {
	for sys, level := range systems {
		l := zapcore.Level(level).CapitalString()
		if sys != "*" {
			if err := logging.SetLogLevel(sys, l); err != nil {
				return err
			}
			continue
		}
		for _, s := range logging.GetSubsystems() {
			if err := logging.SetLogLevel(s, l); err != nil {
				return err
			}
		}
	}
	return nil
}
