// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/workhub/internal/app/system/dircache"
	"github.com/dalemusser/workhub/internal/app/system/events"
	"github.com/dalemusser/workhub/internal/app/system/ratelimit"
	"github.com/dalemusser/workhub/internal/app/system/workers"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
// Redis is nil when no redis_url is configured; Cache and Events are never
// nil.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	Redis  *redis.Client
	Cache  dircache.Cache
	Events events.Publisher

	AuthLimiter *ratelimit.AuthLimiter

	// Nil when audit retention is disabled.
	AuditRetention *workers.AuditRetention
}
