package sql

// Supported drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds SQL connection settings
type Config struct {
	// Driver is either "sqlite" or "postgres"
	Driver string

	// DSN is the driver specific data source name,
	// e.g. "duel.db?_busy_timeout=5000" or "host=localhost user=duel dbname=duel"
	DSN string

	// MaxTxRetries bounds conditional update retries per write
	MaxTxRetries int
}

// DefaultConfig returns a file backed sqlite configuration
func DefaultConfig() Config {
	return Config{
		Driver:       DriverSQLite,
		DSN:          "kafanski-duel.db?_busy_timeout=5000",
		MaxTxRetries: 10,
	}
}
