package cli

import (
	"context"

	"github.com/lazharichir/pokerodds/cache"
	"github.com/lazharichir/pokerodds/odds"
	"github.com/lazharichir/pokerodds/server"
)

func (a *app) serve(ctx context.Context, args []string) error {
	fs := a.flagSet("serve", "[flags]")
	addr := fs.String("addr", a.cfg.Addr, "listen address")
	redisURL := fs.String("redis", a.cfg.RedisURL, "redis:// URL of a shared result cache")
	rest, err := parse(fs, args)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return usagef("unexpected arguments %v", rest)
	}

	cfg, err := a.cfg.Odds()
	if err != nil {
		return err
	}

	var resultCache cache.ResultCache
	if *redisURL != "" {
		r, err := cache.NewRedis(*redisURL, a.cfg.CacheTTL)
		if err != nil {
			return err
		}
		defer r.Close()
		if err := r.Ping(ctx); err != nil {
			return err
		}
		a.logger.Info("using redis result cache")
		resultCache = r
	} else {
		resultCache = cache.NewMemory(a.cfg.CacheTTL)
	}

	calc := odds.NewCalculator(cfg, odds.WithLogger(a.logger))
	return server.NewServer(calc, resultCache, a.logger, server.WithAdvisorConfig(a.cfg.Advisor())).Start(ctx, *addr)
}
