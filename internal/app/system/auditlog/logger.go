// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"strconv"

	"github.com/giftgrove/giftgrove/internal/app/store/audit"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
type Config struct {
	// Admin controls logging for admin action events (group CRUD, membership
	// changes, wishlist mutations).
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Admin string
	// Security controls logging for access-denied events.
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Security string
}

// Logger provides convenience methods for logging audit events.
// It logs to both MongoDB (via audit.Store) and structured logs (via zap).
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// NewCorrelationID returns a fresh id for tying together the events of one
// logical operation.
func NewCorrelationID() string {
	return uuid.NewString()
}

// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
	}

	if event.CorrelationID != "" {
		fields = append(fields, zap.String("correlation_id", event.CorrelationID))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.TargetUserID != nil {
		fields = append(fields, zap.String("target_user_id", event.TargetUserID.Hex()))
	}
	if event.GroupID != nil {
		fields = append(fields, zap.String("group_id", event.GroupID.Hex()))
	}
	if event.ResourceID != nil {
		fields = append(fields, zap.String("resource_id", event.ResourceID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// If the logger is nil, this is a no-op (allows tests to use nil audit logger).
// Logging destination is controlled by config: "all", "db", "log", or "off".
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAdmin:
		setting = l.config.Admin
	case audit.CategorySecurity:
		setting = l.config.Security
	default:
		setting = "all"
	}

	if setting == "off" {
		return
	}

	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}

	if setting == "all" || setting == "db" {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// --- Admin Events ---

// GroupCreated logs creation of a gift group.
func (l *Logger) GroupCreated(ctx context.Context, actorID, groupID primitive.ObjectID, name string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventGroupCreated,
		ActorID:   &actorID,
		GroupID:   &groupID,
		Success:   true,
		Details:   map[string]string{"name": name},
	})
}

// GroupUpdated logs an update to a gift group's name or description.
func (l *Logger) GroupUpdated(ctx context.Context, actorID, groupID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventGroupUpdated,
		ActorID:   &actorID,
		GroupID:   &groupID,
		Success:   true,
	})
}

// GroupDeleted logs deletion of a gift group and its membership rows.
func (l *Logger) GroupDeleted(ctx context.Context, actorID, groupID primitive.ObjectID, correlationID string, membershipsRemoved int64) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAdmin,
		EventType:     audit.EventGroupDeleted,
		CorrelationID: correlationID,
		ActorID:       &actorID,
		GroupID:       &groupID,
		Success:       true,
		Details: map[string]string{
			"memberships_removed": strconv.FormatInt(membershipsRemoved, 10),
		},
	})
}

// MemberAdded logs adding a user to a group.
func (l *Logger) MemberAdded(ctx context.Context, actorID, targetUserID, groupID primitive.ObjectID, role string) {
	l.Log(ctx, audit.Event{
		Category:     audit.CategoryAdmin,
		EventType:    audit.EventMemberAddedToGroup,
		ActorID:      &actorID,
		TargetUserID: &targetUserID,
		GroupID:      &groupID,
		Success:      true,
		Details:      map[string]string{"role": role},
	})
}

// MemberRemoved logs removing a user from a group.
func (l *Logger) MemberRemoved(ctx context.Context, actorID, targetUserID, groupID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:     audit.CategoryAdmin,
		EventType:    audit.EventMemberRemovedFromGroup,
		ActorID:      &actorID,
		TargetUserID: &targetUserID,
		GroupID:      &groupID,
		Success:      true,
	})
}

// MemberRoleChanged logs a change to a member's group role.
func (l *Logger) MemberRoleChanged(ctx context.Context, actorID, targetUserID, groupID primitive.ObjectID, role string) {
	l.Log(ctx, audit.Event{
		Category:     audit.CategoryAdmin,
		EventType:    audit.EventMemberRoleChanged,
		ActorID:      &actorID,
		TargetUserID: &targetUserID,
		GroupID:      &groupID,
		Success:      true,
		Details:      map[string]string{"role": role},
	})
}

// WishlistItemCreated logs creation of a wishlist item.
func (l *Logger) WishlistItemCreated(ctx context.Context, actorID, itemID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:   audit.CategoryAdmin,
		EventType:  audit.EventWishlistItemCreated,
		ActorID:    &actorID,
		ResourceID: &itemID,
		Success:    true,
	})
}

// WishlistItemUpdated logs an update to a wishlist item.
func (l *Logger) WishlistItemUpdated(ctx context.Context, actorID, itemID primitive.ObjectID, scope string) {
	l.Log(ctx, audit.Event{
		Category:   audit.CategoryAdmin,
		EventType:  audit.EventWishlistItemUpdated,
		ActorID:    &actorID,
		ResourceID: &itemID,
		Success:    true,
		Details:    map[string]string{"scope": scope},
	})
}

// WishlistItemDeleted logs deletion of a wishlist item.
func (l *Logger) WishlistItemDeleted(ctx context.Context, actorID, itemID primitive.ObjectID, scope string) {
	l.Log(ctx, audit.Event{
		Category:   audit.CategoryAdmin,
		EventType:  audit.EventWishlistItemDeleted,
		ActorID:    &actorID,
		ResourceID: &itemID,
		Success:    true,
		Details:    map[string]string{"scope": scope},
	})
}

// GlobalRoleChanged logs a change to a user's global role.
func (l *Logger) GlobalRoleChanged(ctx context.Context, actorID, targetUserID primitive.ObjectID, role string) {
	l.Log(ctx, audit.Event{
		Category:     audit.CategoryAdmin,
		EventType:    audit.EventGlobalRoleChanged,
		ActorID:      &actorID,
		TargetUserID: &targetUserID,
		Success:      true,
		Details:      map[string]string{"role": role},
	})
}

// --- Security Events ---

// AccessDenied logs a refused authorization check. requirement names the
// missing role or permission as the guard rendered it.
func (l *Logger) AccessDenied(ctx context.Context, actorID primitive.ObjectID, groupID *primitive.ObjectID, requirement, reason string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategorySecurity,
		EventType:     audit.EventAccessDenied,
		ActorID:       &actorID,
		GroupID:       groupID,
		Success:       false,
		FailureReason: reason,
		Details:       map[string]string{"requirement": requirement},
	})
}
