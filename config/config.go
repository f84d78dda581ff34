package config

// Config holds curve calibration solver parameters.
type Config struct {
	// ConvergenceTolerance is the absolute NPV tolerance for the secant solve.
	ConvergenceTolerance float64

	// MaxBootstrapIterations caps secant iterations per pillar.
	MaxBootstrapIterations int

	// SecantStep is the offset from the closed-form zero rate used as the
	// second secant starting point.
	SecantStep float64
}

// DefaultConfig provides production-ready default values.
var DefaultConfig = Config{
	ConvergenceTolerance:   1e-12,
	MaxBootstrapIterations: 100,
	SecantStep:             1e-4,
}

// cfg is the active configuration. Defaults to DefaultConfig.
var cfg = DefaultConfig

// SetConfig replaces the active configuration.
func SetConfig(c Config) {
	cfg = c
}

// GetConfig returns the active configuration.
func GetConfig() Config {
	return cfg
}
