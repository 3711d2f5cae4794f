package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"payment-engine/config"
	"payment-engine/metrics"
	"payment-engine/oracle"
	"payment-engine/repository"
	"payment-engine/service"
)

// engine bundles the services shared by the HTTP API and the CLI commands.
type engine struct {
	ranker          *service.Ranker
	recommendations *service.RecommendationService
	payoff          *service.PayoffService
	metrics         *metrics.Registry
	closers         []func() error
}

func buildEngine(cfg config.Config, withMetrics bool) (*engine, error) {
	eng := &engine{}
	if withMetrics {
		eng.metrics = metrics.New()
	}

	policy, err := service.ParseShortfallPolicy(cfg.Engine.ShortfallPolicy)
	if err != nil {
		return nil, err
	}

	balanced, err := balancedPrioritizer(cfg.Oracle, eng.metrics)
	if err != nil {
		return nil, err
	}
	eng.ranker = service.NewRanker(balanced, nil)

	opts := []service.Option{service.WithMetrics(eng.metrics)}
	if cfg.Cache.Enabled {
		cache, err := resultCache(cfg.Cache)
		if err != nil {
			return nil, err
		}
		if rc, ok := cache.(*repository.RedisCache); ok {
			eng.closers = append(eng.closers, rc.Close)
		}
		opts = append(opts, service.WithCache(cache, cfg.Cache.TTL))
	}

	eng.recommendations = service.NewRecommendationService(eng.ranker, service.NewFundAllocator(policy), opts...)
	eng.payoff = service.NewPayoffService(nil)
	return eng, nil
}

// balancedPrioritizer picks the ordering used for the balanced goal: a local
// model, then a model server, then the fixed weighted score.
func balancedPrioritizer(cfg config.OracleConfig, m *metrics.Registry) (service.Prioritizer, error) {
	switch {
	case cfg.ModelPath != "":
		model, err := oracle.LoadLinearModel(cfg.ModelPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load oracle model: %w", err)
		}
		log.Info().Str("path", cfg.ModelPath).Str("version", model.Version).Msg("oracle model loaded")
		return service.NewOraclePrioritizer(model, nil, m), nil
	case cfg.URL != "":
		remote := oracle.NewRemote(oracle.RemoteConfig{
			URL:                 cfg.URL,
			Timeout:             cfg.Timeout,
			ConsecutiveFailures: cfg.ConsecutiveFailures,
			OpenTimeout:         cfg.OpenTimeout,
		})
		log.Info().Str("url", cfg.URL).Msg("using remote oracle")
		return service.NewOraclePrioritizer(remote, nil, m), nil
	default:
		return nil, nil
	}
}

// resultCache prefers Redis and falls back to process memory when Redis is
// not configured or does not answer.
func resultCache(cfg config.CacheConfig) (repository.CacheRepository, error) {
	if cfg.RedisAddr == "" {
		return repository.NewMemoryCache(), nil
	}

	cache := repository.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := cache.Ping(ctx); err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable, using in-memory cache")
		_ = cache.Close()
		return repository.NewMemoryCache(), nil
	}
	return cache, nil
}

func (e *engine) Close() {
	for _, c := range e.closers {
		if err := c(); err != nil {
			log.Warn().Err(err).Msg("error releasing resource")
		}
	}
}
