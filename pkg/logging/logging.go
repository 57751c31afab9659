package logging

import (
	"go.uber.org/zap"
)

// Setup builds the application logger. Verbose runs get the development
// config (debug level, console encoding); everything else uses the
// production config capped at Warn so per-entry diagnostics stay visible
// without drowning normal runs. The logger is installed as zap's global.
func Setup(verbose bool, appName, appVersion string) (*zap.Logger, error) {
	var cfg zap.Config

	if verbose {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}

	cfg.InitialFields = map[string]interface{}{
		"appName":    appName,
		"appVersion": appVersion,
	}

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop(), err
	}

	zap.ReplaceGlobals(logger)
	return logger, nil
}
