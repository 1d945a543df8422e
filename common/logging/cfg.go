package logging

import "go.uber.org/zap/zapcore"

// Config controls the verbosity of every pktcore logger.
type Config struct {
	// Level is the minimum severity that will be emitted.
	Level zapcore.Level `yaml:"level"`
}
