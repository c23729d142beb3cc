package driver

import (
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"

	"student-marksheets/config"
)

// ConnectDB opens the store named by the configuration and verifies it is
// reachable. The returned *sql.DB is a pooled handle shared by every
// request; callers close it on shutdown.
func ConnectDB(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open(cfg.StoreDriver, cfg.StoreConnectionString)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping store: %w", err)
	}
	return db, nil
}

// EnsureSchema creates the Students table if it does not exist yet. The
// auto-increment syntax differs between the supported dialects.
func EnsureSchema(db *sql.DB, driverName string) error {
	// Roll numbers must be store-assigned and monotonic.
	var pk string
	switch driverName {
	case "mysql":
		pk = "INT NOT NULL AUTO_INCREMENT PRIMARY KEY"
	default:
		pk = "INTEGER PRIMARY KEY AUTOINCREMENT"
	}
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS Students (
		roll_number %s,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		marks_file_path TEXT NOT NULL DEFAULT ''
	)`, pk)
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("ensure Students table: %w", err)
	}
	return nil
}
