package sqlite

import "time"

type Config struct {
	Path            string        `env:"SQLITE_PATH" envDefault:"parking.db"`
	BusyTimeout     time.Duration `env:"SQLITE_BUSY_TIMEOUT" envDefault:"5s"`
	MigrationsTable string        `env:"SQLITE_MIGRATIONS_TABLE" envDefault:"schema_migrations"`
}
