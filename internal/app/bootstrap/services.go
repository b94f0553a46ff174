// internal/app/bootstrap/services.go
package bootstrap

import (
	"github.com/giftgrove/giftgrove/internal/app/policy/grouppolicy"
	"github.com/giftgrove/giftgrove/internal/app/policy/resourcepolicy"
	"github.com/giftgrove/giftgrove/internal/app/service/groupsvc"
	"github.com/giftgrove/giftgrove/internal/app/service/wishlistsvc"
	auditstore "github.com/giftgrove/giftgrove/internal/app/store/audit"
	groupstore "github.com/giftgrove/giftgrove/internal/app/store/groups"
	membershipstore "github.com/giftgrove/giftgrove/internal/app/store/memberships"
	userstore "github.com/giftgrove/giftgrove/internal/app/store/users"
	wishliststore "github.com/giftgrove/giftgrove/internal/app/store/wishlist"
	"github.com/giftgrove/giftgrove/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Services is the assembled service graph: stores, guards, audit logging,
// and the group/wishlist services on top. The embedding web layer takes
// this from DBDeps and mounts its own routes over it.
type Services struct {
	Users       *userstore.Store
	Groups      *groupstore.Store
	Memberships *membershipstore.Store
	Wishlist    *wishliststore.Store

	GroupGuard    *grouppolicy.Guard
	ResourceGuard *resourcepolicy.Guard
	Audit         *auditlog.Logger

	GroupSvc    *groupsvc.Service
	WishlistSvc *wishlistsvc.Service
}

// NewServices wires the full graph over one database handle. The
// membership store doubles as the group guard's role resolver and the user
// store as the resource guard's global-role resolver.
func NewServices(db *mongo.Database, appCfg AppConfig, logger *zap.Logger) *Services {
	users := userstore.New(db)
	groups := groupstore.New(db)
	memberships := membershipstore.New(db)
	wishlist := wishliststore.New(db)

	audit := auditlog.New(auditstore.New(db), logger, auditlog.Config{
		Admin:    appCfg.AuditLogAdmin,
		Security: appCfg.AuditLogSecurity,
	})

	groupGuard := grouppolicy.New(memberships, audit, logger)
	resourceGuard := resourcepolicy.New(users, audit, logger)

	return &Services{
		Users:       users,
		Groups:      groups,
		Memberships: memberships,
		Wishlist:    wishlist,

		GroupGuard:    groupGuard,
		ResourceGuard: resourceGuard,
		Audit:         audit,

		GroupSvc:    groupsvc.New(groups, memberships, groupGuard, audit, logger),
		WishlistSvc: wishlistsvc.New(wishlist, resourceGuard, audit, logger),
	}
}
