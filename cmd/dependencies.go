package cmd

import (
	"context"
	"fmt"
	"lot-intelligence/config"
	"lot-intelligence/pkg/cache"
	"lot-intelligence/pkg/common"
	"lot-intelligence/pkg/logger"
	"lot-intelligence/pkg/postgres"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type AppDependency struct {
	db        *postgres.DB
	cfg       *config.Config
	log       *logger.Logger
	validator *goValidator.Validate
	echo      *echo.Echo
	cache     cache.Cache
	redis     *redis.Client
}

func NewAppDependency(ctx context.Context) (*AppDependency, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return nil, err
	}

	db, err := postgres.NewDB(cfg.DB, log)
	if err != nil {
		log.Error("Failed to connect to database", zap.Error(err))
		return nil, err
	}

	appDep := &AppDependency{
		cfg:       cfg,
		log:       log,
		validator: goValidator.New(),
		db:        db,
		echo:      echo.New(),
	}
	appDep.echo.HideBanner = true

	if err := appDep.setupCache(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return appDep, nil
}

func (d *AppDependency) setupCache(ctx context.Context) error {
	switch d.cfg.Cache.Driver {
	case "", common.CACHE_DRIVER_MEMORY:
		d.cache = cache.NewCache(d.cfg.Cache.DefaultExpiration, d.cfg.Cache.CleanupInterval)
	case common.CACHE_DRIVER_REDIS:
		client := redis.NewClient(&redis.Options{
			Addr:     d.cfg.Cache.Redis.Addr,
			Password: d.cfg.Cache.Redis.Password,
			DB:       d.cfg.Cache.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			d.log.Error("Failed to connect to redis", zap.Error(err))
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		d.redis = client
		d.cache = cache.NewRedisCache(client, d.cfg.Cache.Redis.KeyPrefix, d.cfg.Cache.Redis.Timeout, d.log)
	default:
		return fmt.Errorf("unknown cache driver %q, expected one of %v", d.cfg.Cache.Driver, common.GetCacheDriverList())
	}

	d.log.Info("Cache ready", zap.String("driver", d.cfg.Cache.Driver))
	return nil
}

func (d *AppDependency) Close() error {
	d.log.Info("Closing app dependency")
	if d.redis != nil {
		if err := d.redis.Close(); err != nil {
			d.log.Error("Failed to close redis client", zap.Error(err))
		}
	}
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}
