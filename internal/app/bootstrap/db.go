// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"

	"github.com/giftgrove/giftgrove/internal/app/system/indexes"
	"github.com/giftgrove/giftgrove/internal/app/system/timeouts"
	"github.com/giftgrove/giftgrove/internal/app/system/validators"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB establishes the MongoDB connection and verifies it with a ping
// before the rest of startup proceeds.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return DBDeps{}, err
	}

	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase))

	db := client.Database(appCfg.MongoDatabase)
	return DBDeps{
		MongoClient:   client,
		MongoDatabase: db,
		Services:      NewServices(db, appCfg, logger),
	}, nil
}

// EnsureSchema reconciles the collections at startup: JSON-Schema
// validators where the server supports them, then the indexes the stores
// rely on (unique folded usernames and group names, the unique
// (user_id, group_id) membership pair, and the lookup indexes).
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	schemaCtx, cancel := context.WithTimeout(ctx, timeouts.Long())
	defer cancel()
	if err := validators.EnsureAll(schemaCtx, deps.MongoDatabase); err != nil {
		return err
	}
	return indexes.EnsureAll(schemaCtx, deps.MongoDatabase)
}
