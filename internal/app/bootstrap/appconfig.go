// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig handles
// framework-level settings (ports, TLS, logging level); AppConfig is
// everything specific to GiftGrove.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Store operation deadlines
	StoreTimeoutShort  time.Duration // single-document reads/writes
	StoreTimeoutMedium time.Duration // multi-document operations (cascades)

	// Audit logging destinations: "all" (db+log), "db", "log", or "off"
	AuditLogAdmin    string
	AuditLogSecurity string

	// AdminUsername names a user to promote to the global admin role on
	// startup (blank disables the promotion).
	AdminUsername string
}
