// Package migrations embeds the SQL schema migrations into the binary.
//
// Migration files follow the naming convention
// YYYYMMDD_HHMMSS_description.{up,down}.sql and are applied in version
// order by the database package.
package migrations

import (
	"embed"

	"github.com/avops/captrack/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "."
}
