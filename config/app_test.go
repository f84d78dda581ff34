package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/zerocurve/config"
)

func TestLoad_Defaults(t *testing.T) {
	app, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "local", app.App.Env)
	assert.Equal(t, ":8080", app.Server.Addr)
	assert.Equal(t, "closed-form", app.Solver.Method)
	assert.Equal(t, 10*time.Minute, app.Cache.TTL)
	assert.Empty(t, app.Redis.Addr)

	solver := app.SolverConfig()
	assert.Equal(t, config.DefaultConfig, solver)
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "zerocurve.yaml")
	body := []byte(`
server:
  addr: ":9090"
solver:
  method: secant
  max_iterations: 25
cache:
  ttl: 30s
`)
	require.NoError(t, os.WriteFile(path, body, 0o600))

	t.Setenv("ZEROCURVE_SERVER_ADDR", ":7070")
	t.Setenv("ZEROCURVE_REDIS_ADDR", "localhost:6379")

	app, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7070", app.Server.Addr, "env wins over file")
	assert.Equal(t, "localhost:6379", app.Redis.Addr)
	assert.Equal(t, "secant", app.Solver.Method)
	assert.Equal(t, 25, app.Solver.MaxIterations)
	assert.Equal(t, 30*time.Second, app.Cache.TTL)
	assert.Equal(t, 25, app.SolverConfig().MaxBootstrapIterations)
}

func TestLoad_RejectsUnknownSolver(t *testing.T) {
	t.Setenv("ZEROCURVE_SOLVER_METHOD", "newton")

	_, err := config.Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "solver.method")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestSetConfig(t *testing.T) {
	orig := config.GetConfig()
	defer config.SetConfig(orig)

	c := config.DefaultConfig
	c.MaxBootstrapIterations = 7
	config.SetConfig(c)
	assert.Equal(t, 7, config.GetConfig().MaxBootstrapIterations)
}

func TestLoad_DatabaseTarget(t *testing.T) {
	app, err := config.Load("")
	require.NoError(t, err)
	driver, dsn := app.DB.Target()
	assert.Equal(t, "sqlite", driver)
	assert.Equal(t, "zerocurve.db", dsn)

	t.Setenv("ZEROCURVE_DB_DRIVER", "postgres")
	_, err = config.Load("")
	require.Error(t, err, "postgres needs a dsn")

	t.Setenv("ZEROCURVE_DB_DSN", "postgres://curves@localhost:5432/curves")
	app, err = config.Load("")
	require.NoError(t, err)
	driver, dsn = app.DB.Target()
	assert.Equal(t, "postgres", driver)
	assert.Equal(t, "postgres://curves@localhost:5432/curves", dsn)

	t.Setenv("ZEROCURVE_DB_DRIVER", "mysql")
	_, err = config.Load("")
	require.Error(t, err)
}
