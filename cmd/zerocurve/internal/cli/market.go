package cli

import (
	"context"

	"go.uber.org/zap"

	"github.com/meenmo/zerocurve/bootstrap"
	"github.com/meenmo/zerocurve/config"
	"github.com/meenmo/zerocurve/marketdata"
	"github.com/meenmo/zerocurve/store"
)

// loadMarket reads path, falling back to market.file and then to the built-in data set.
func loadMarket(path string, app *config.App) (*marketdata.Set, error) {
	if path == "" {
		path = app.Market.File
	}
	if path == "" {
		return marketdata.Default(), nil
	}
	set, err := marketdata.Load(path)
	if err != nil {
		return nil, commandError("%v", err)
	}
	return set, nil
}

// resolveMethod prefers the flag value over solver.method.
func resolveMethod(flag string, app *config.App) (bootstrap.Method, error) {
	if flag == "" {
		flag = app.Solver.Method
	}
	m, err := bootstrap.ParseMethod(flag)
	if err != nil {
		return "", commandError("%v", err)
	}
	return m, nil
}

// openRepository opens the configured database and, when redis.addr is set, fronts it with the
// redis cache. An unreachable redis only costs the cache.
func openRepository(ctx context.Context, app *config.App, logger *zap.Logger) (store.Repository, func(), error) {
	db, err := store.Open(app.DB.Target())
	if err != nil {
		return nil, nil, err
	}
	closers := []func(){func() { _ = store.Close(db) }}
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var repo store.Repository = store.NewGormRepository(db)
	if app.Redis.Addr != "" {
		rdb, err := store.NewRedisClient(ctx, app.Redis.Addr, app.Redis.Password, app.Redis.DB)
		if err != nil {
			logger.Warn("redis unavailable, running without cache", zap.String("addr", app.Redis.Addr), zap.Error(err))
		} else {
			closers = append(closers, func() { _ = rdb.Close() })
			repo = store.NewCachingRepository(rdb, app.Cache.TTL, repo, "zerocurve:curves", logger)
		}
	}
	return repo, cleanup, nil
}
