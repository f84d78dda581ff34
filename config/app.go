package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. ZEROCURVE_SERVER_ADDR.
const EnvPrefix = "ZEROCURVE"

// App holds process-level settings for the CLI and the HTTP service.
type App struct {
	App    AppSection    `mapstructure:"app"`
	Log    LogSection    `mapstructure:"log"`
	Server ServerSection `mapstructure:"server"`
	DB     DBSection     `mapstructure:"db"`
	Redis  RedisSection  `mapstructure:"redis"`
	Cache  CacheSection  `mapstructure:"cache"`
	Solver SolverSection `mapstructure:"solver"`
	Market MarketSection `mapstructure:"market"`
	Export ExportSection `mapstructure:"export"`
}

type AppSection struct {
	Env string `mapstructure:"env"` // "local", "prod"
}

type LogSection struct {
	Level string `mapstructure:"level"`
}

type ServerSection struct {
	Addr string `mapstructure:"addr"`
}

// DBSection selects the snapshot database. Path is the sqlite file; DSN the postgres
// connection string.
type DBSection struct {
	Driver string `mapstructure:"driver"` // "sqlite" | "postgres"
	Path   string `mapstructure:"path"`
	DSN    string `mapstructure:"dsn"`
}

// Target returns the driver and data source to open.
func (d DBSection) Target() (driver, dsn string) {
	if d.Driver == "postgres" {
		return d.Driver, d.DSN
	}
	return "sqlite", d.Path
}

// RedisSection configures the optional curve cache. An empty Addr disables it.
type RedisSection struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type CacheSection struct {
	TTL time.Duration `mapstructure:"ttl"`
}

type SolverSection struct {
	Method        string  `mapstructure:"method"` // "closed-form" | "secant"
	Tolerance     float64 `mapstructure:"tolerance"`
	MaxIterations int     `mapstructure:"max_iterations"`
}

type MarketSection struct {
	File string `mapstructure:"file"`
}

type ExportSection struct {
	Dir string `mapstructure:"dir"`
}

// Load reads configuration from defaults, an optional file, a .env file and the
// environment, in increasing order of precedence.
func Load(path string) (*App, error) {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config.Load: read %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range v.AllKeys() {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("config.Load: bind %s: %w", key, err)
		}
	}

	var app App
	if err := v.Unmarshal(&app); err != nil {
		return nil, fmt.Errorf("config.Load: decode: %w", err)
	}
	if err := app.Validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &app, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "local")
	v.SetDefault("log.level", "info")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.path", "zerocurve.db")
	v.SetDefault("db.dsn", "")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("cache.ttl", 10*time.Minute)
	v.SetDefault("solver.method", "closed-form")
	v.SetDefault("solver.tolerance", DefaultConfig.ConvergenceTolerance)
	v.SetDefault("solver.max_iterations", DefaultConfig.MaxBootstrapIterations)
	v.SetDefault("market.file", "")
	v.SetDefault("export.dir", ".")
}

// Validate checks values that viper cannot type-check on its own.
func (a *App) Validate() error {
	switch a.Solver.Method {
	case "closed-form", "secant":
	default:
		return fmt.Errorf("solver.method %q must be closed-form or secant", a.Solver.Method)
	}
	switch a.DB.Driver {
	case "sqlite":
	case "postgres":
		if a.DB.DSN == "" {
			return errors.New("db.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("db.driver %q must be sqlite or postgres", a.DB.Driver)
	}
	if a.Solver.Tolerance <= 0 {
		return errors.New("solver.tolerance must be positive")
	}
	if a.Solver.MaxIterations <= 0 {
		return errors.New("solver.max_iterations must be positive")
	}
	return nil
}

// SolverConfig returns DefaultConfig with the file/env solver overrides applied.
func (a *App) SolverConfig() Config {
	c := DefaultConfig
	c.ConvergenceTolerance = a.Solver.Tolerance
	c.MaxBootstrapIterations = a.Solver.MaxIterations
	return c
}
