// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"

	"github.com/giftgrove/giftgrove/internal/app/perm"
	"github.com/giftgrove/giftgrove/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
//
// GiftGrove validates the permission tables (a bad table edit fails the
// boot rather than silently changing authorization answers), applies the
// configured store deadlines, and optionally promotes a configured user to
// the global admin role.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := perm.ValidateTables(); err != nil {
		return err
	}

	timeouts.Configure(timeouts.Config{
		Short:  appCfg.StoreTimeoutShort,
		Medium: appCfg.StoreTimeoutMedium,
	})

	if appCfg.AdminUsername != "" {
		if err := promoteAdmin(ctx, deps, appCfg.AdminUsername, logger); err != nil {
			return err
		}
	}

	return nil
}

func promoteAdmin(ctx context.Context, deps DBDeps, username string, logger *zap.Logger) error {
	opCtx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	users := deps.Services.Users
	u, err := users.GetByUsername(opCtx, username)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Account provisioning is external; the user may not exist yet.
		logger.Warn("admin user not found, skipping promotion",
			zap.String("username", username))
		return nil
	}
	if err != nil {
		return err
	}
	if u.GlobalRole == perm.GlobalRoleAdmin {
		return nil
	}
	if _, err := users.SetGlobalRole(opCtx, u.ID, perm.GlobalRoleAdmin); err != nil {
		return err
	}
	// A startup promotion has no acting user; the zero actor id marks it.
	deps.Services.Audit.GlobalRoleChanged(opCtx, primitive.NilObjectID, u.ID, string(perm.GlobalRoleAdmin))
	logger.Info("promoted user to global admin",
		zap.String("username", username),
		zap.String("user_id", u.ID.Hex()))
	return nil
}
