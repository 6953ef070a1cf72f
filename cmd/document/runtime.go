package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gogotex/docstore/internal/config"
	"github.com/gogotex/docstore/internal/database"
	"github.com/gogotex/docstore/internal/document/service"
	"github.com/gogotex/docstore/internal/storage"
	"github.com/gogotex/docstore/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// runtime holds the wired service and the clients readiness checks ping.
type runtime struct {
	cfg       *config.Config
	svc       service.Service
	mongo     *mongo.Client
	redis     *redis.Client
	exporter  bool
	startTime time.Time
}

func buildRuntime(ctx context.Context, cfg *config.Config) (*runtime, error) {
	rt := &runtime{cfg: cfg, startTime: time.Now()}

	if cfg.Redis.Host != "" {
		rt.redis = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr(), Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rt.redis.Ping(ctx).Err(); err != nil {
			if cfg.Storage.Backend == config.BackendRedis || cfg.RateLimit.UseRedis {
				return nil, fmt.Errorf("redis %s: %w", cfg.Redis.Addr(), err)
			}
			logger.Warnf("redis %s unreachable, continuing without it: %v", cfg.Redis.Addr(), err)
			_ = rt.redis.Close()
			rt.redis = nil
		}
	}

	var opts []service.Option
	if cfg.MinIO.Enabled() {
		objects, err := storage.NewMinIOStorage(ctx, &cfg.MinIO)
		if err != nil {
			logger.Warnf("export disabled: %v", err)
		} else {
			opts = append(opts, service.WithExporter(objects))
			rt.exporter = true
			logger.Infow("export storage ready", "endpoint", cfg.MinIO.Endpoint, "bucket", objects.Bucket())
		}
	}

	switch cfg.Storage.Backend {
	case config.BackendMongo:
		client, err := database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5, time.Second)
		if err != nil {
			rt.close(ctx)
			return nil, err
		}
		rt.mongo = client
		col := client.Database(cfg.MongoDB.Database).Collection(cfg.MongoDB.Collection)
		rt.svc = service.NewMongoService(ctx, col, opts...)
	case config.BackendRedis:
		rt.svc = service.NewRedisService(rt.redis, cfg.Redis.Prefix, opts...)
	default:
		rt.svc = service.NewMemoryService(opts...)
	}
	logger.Infow("document store ready", "backend", cfg.Storage.Backend)
	return rt, nil
}

// ready pings the backends this process depends on.
func (rt *runtime) ready(ctx context.Context) (bool, map[string]bool) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	deps := map[string]bool{"store": rt.svc != nil, "export": rt.exporter}
	ok := rt.svc != nil
	if rt.mongo != nil {
		deps["mongo"] = rt.mongo.Ping(ctx, nil) == nil
		ok = ok && deps["mongo"]
	}
	if rt.redis != nil {
		deps["redis"] = rt.redis.Ping(ctx).Err() == nil
		ok = ok && deps["redis"]
	}
	return ok, deps
}

func (rt *runtime) close(ctx context.Context) {
	if rt.mongo != nil {
		_ = rt.mongo.Disconnect(ctx)
	}
	if rt.redis != nil {
		_ = rt.redis.Close()
	}
}
