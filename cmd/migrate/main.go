package main

import (
	"flag"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/shared/config"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	var module string
	var command string
	var driver string

	flag.StringVar(&module, "module", "usage", "Module to migrate (usage)")
	flag.StringVar(&command, "cmd", "up", "Migration command (up, down, version, force)")
	flag.StringVar(&driver, "driver", "", "Database driver (postgres, sqlite); defaults to USAGE_DB_DRIVER")
	flag.Parse()

	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}
	if driver == "" {
		driver = cfg.Usage.Driver
	}

	databaseURL, err := migrateURL(driver, cfg.Usage.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	// Migration path
	migrationPath := fmt.Sprintf("file://migrations/%s/%s", module, driver)

	log.Printf("🔄 Running migrations for module: %s", module)
	log.Printf("📂 Migration path: %s", migrationPath)
	log.Printf("💾 Database: %s", maskDatabaseURL(databaseURL))

	// Create migrate instance
	m, err := migrate.New(migrationPath, databaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to create migrate instance: %v", err)
	}
	defer m.Close()

	// Execute command
	switch command {
	case "up":
		log.Println("⬆️  Running UP migrations...")
		if err := m.Up(); err != nil && err != migrate.ErrNoChange {
			log.Fatalf("❌ Migration UP failed: %v", err)
		}
		log.Println("✅ Migrations UP completed!")

	case "down":
		log.Println("⬇️  Running DOWN migrations...")
		if err := m.Down(); err != nil && err != migrate.ErrNoChange {
			log.Fatalf("❌ Migration DOWN failed: %v", err)
		}
		log.Println("✅ Migrations DOWN completed!")

	case "version":
		version, dirty, err := m.Version()
		if err != nil && err != migrate.ErrNilVersion {
			log.Fatalf("❌ Failed to get version: %v", err)
		}
		log.Printf("📌 Current version: %d (dirty: %t)", version, dirty)

	case "force":
		if len(flag.Args()) < 1 {
			log.Fatal("❌ Please provide version number for force command")
		}
		var forceVersion int
		fmt.Sscanf(flag.Arg(0), "%d", &forceVersion)
		if err := m.Force(forceVersion); err != nil {
			log.Fatalf("❌ Force failed: %v", err)
		}
		log.Printf("✅ Forced version to: %d", forceVersion)

	default:
		log.Fatalf("❌ Unknown command: %s (use: up, down, version, force)", command)
	}
}

// migrateURL turns the usage store DSN into a URL golang-migrate understands.
// Postgres URLs pass through; a sqlite file path gets the sqlite:// scheme.
func migrateURL(driver, dsn string) (string, error) {
	if dsn == "" {
		return "", fmt.Errorf("DATABASE_URL is not set")
	}
	switch driver {
	case "postgres":
		return dsn, nil
	case "sqlite":
		if strings.HasPrefix(dsn, "sqlite://") {
			return dsn, nil
		}
		return "sqlite://" + strings.TrimPrefix(dsn, "file:"), nil
	default:
		return "", fmt.Errorf("unsupported driver %q (use: postgres, sqlite)", driver)
	}
}

// maskDatabaseURL hides password in database URL for logging
func maskDatabaseURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "***")
	}
	return u.String()
}
