package auth

import (
	"embed"
)

//go:embed data/sql/migrations
var migrationsFS embed.FS

// GetMigrationsFS returns the administradores and convites migrations so
// host applications can run them with their own migrator.
func GetMigrationsFS() embed.FS {
	return migrationsFS
}
