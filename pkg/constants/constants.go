// Package constants defines application-wide constants for timeouts, limits, and storage keys.
package constants

import "time"

// Time-related constants
const (
	// GracefulShutdownTimeout is the timeout for graceful server shutdown
	GracefulShutdownTimeout = 30 * time.Second

	// RedisHealthCheckInterval is the interval between background Redis pings
	RedisHealthCheckInterval = 10 * time.Second

	// StoreOperationTimeout bounds a single keyed-store read or write
	StoreOperationTimeout = 5 * time.Second
)

// Database connection constants
const (
	// MaxConnLifetime is the maximum lifetime of a database connection
	MaxConnLifetime = 1 * time.Hour

	// MaxConnIdleTime is the maximum idle time for a database connection
	MaxConnIdleTime = 30 * time.Minute

	// HealthCheckPeriod is the interval between database health checks
	HealthCheckPeriod = 1 * time.Minute
)

// Call store constants
const (
	// TeamCallKeyPrefix prefixes the keyed-store key of a team's call record
	TeamCallKeyPrefix = "team_call_"

	// CallIDPrefix prefixes generated call identifiers
	CallIDPrefix = "call_"
)

// Store backend names
const (
	StoreBackendMemory = "memory"
	StoreBackendRedis  = "redis"
	StoreBackendSQLite = "sqlite"
)

// Validation constants
const (
	// MaxIdentifierLength is the maximum length of team and participant identifiers
	MaxIdentifierLength = 128

	// MaxDisplayNameLength is the maximum allowed display name length
	MaxDisplayNameLength = 100

	// MaxAvatarLength is the maximum length of an avatar reference
	MaxAvatarLength = 2048
)

// ResetTableOrder lists the hackathon schema tables, children before parents,
// in the order rows must be deleted to satisfy foreign keys.
var ResetTableOrder = []string{
	"messages",
	"votes",
	"ideas",
	"memberships",
	"teams",
	"participants",
	"hackathons",
	"profiles",
}
