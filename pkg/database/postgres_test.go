package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/notify-admin-api/pkg/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{
		Host:     "db",
		Port:     5433,
		User:     "console",
		Password: "secret",
		Name:     "admin_console",
		SSLMode:  "require",
	})
	assert.Equal(t, "host=db port=5433 user=console password=secret dbname=admin_console sslmode=require", dsn)
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	assert.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Contains(t, names, "000001_create_announcements.up.sql")
	assert.Contains(t, names, "000002_create_audit_logs.up.sql")
}
