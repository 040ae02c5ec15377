// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/workhub/internal/app/store/audit"
	"github.com/dalemusser/workhub/internal/app/system/dircache"
	"github.com/dalemusser/workhub/internal/app/system/events"
	"github.com/dalemusser/workhub/internal/app/system/indexes"
	"github.com/dalemusser/workhub/internal/app/system/ratelimit"
	"github.com/dalemusser/workhub/internal/app/system/timeouts"
	"github.com/dalemusser/workhub/internal/app/system/workers"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// directoryCacheTTL bounds how stale a cached directory snapshot can be
// when another instance changed areas or positions.
const directoryCacheTTL = 5 * time.Minute

const auditPruneInterval = time.Hour

// ConnectDB connects MongoDB and the optional Redis and Kafka backends.
// Redis and Kafka are best effort: when unset the app runs with an
// in-process cache and no event stream.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetAppName("workhub")
	if appCfg.MongoMaxPoolSize > 0 {
		opts.SetMaxPoolSize(appCfg.MongoMaxPoolSize)
	}
	if appCfg.MongoMinPoolSize > 0 {
		opts.SetMinPoolSize(appCfg.MongoMinPoolSize)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}
	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))

	deps := DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
		Cache:         dircache.NewMemory(directoryCacheTTL),
		Events:        events.Nop{},
		AuthLimiter:   ratelimit.NewAuthLimiter(),
	}

	if appCfg.AuditLogRetentionDays > 0 {
		retention := time.Duration(appCfg.AuditLogRetentionDays) * 24 * time.Hour
		deps.AuditRetention = workers.NewAuditRetention(audit.New(deps.MongoDatabase, logger), logger, auditPruneInterval, retention)
	}

	if appCfg.RedisURL != "" {
		rctx, rcancel := context.WithTimeout(ctx, timeouts.Ping())
		rdb, err := dircache.Connect(rctx, appCfg.RedisURL)
		rcancel()
		if err != nil {
			logger.Warn("redis unavailable; using in-process directory cache", zap.Error(err))
		} else {
			deps.Redis = rdb
			deps.Cache = dircache.NewRedis(rdb, directoryCacheTTL, logger)
			logger.Info("directory cache backed by Redis")
		}
	}

	if len(appCfg.KafkaBrokers) > 0 {
		deps.Events = events.NewKafka(appCfg.KafkaBrokers, appCfg.KafkaTopic, logger)
		logger.Info("publishing domain events to Kafka",
			zap.Strings("brokers", appCfg.KafkaBrokers),
			zap.String("topic", appCfg.KafkaTopic))
	}

	return deps, nil
}

// EnsureSchema creates the indexes every store relies on, including the
// unique ones that back duplicate-name and duplicate-email detection.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("index setup failed", zap.Error(err))
		return err
	}
	logger.Info("indexes ensured")
	return nil
}
