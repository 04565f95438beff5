package database

import (
	"io/fs"
	"strings"
	"testing"

	"airspring/internal/config"
)

func readMigration(t *testing.T, name string) string {
	t.Helper()
	content, err := fs.ReadFile(migrationsFS, MigrationsDir+"/"+name)
	if err != nil {
		t.Fatalf("Failed to read migration file %s: %v", name, err)
	}
	return string(content)
}

func TestMigrationFilesExist(t *testing.T) {
	expectedMigrations := []string{
		"00001_create_inquiries_table.sql",
		"00002_index_inquiries_created_at.sql",
	}

	for _, migration := range expectedMigrations {
		if _, err := fs.Stat(migrationsFS, MigrationsDir+"/"+migration); err != nil {
			t.Errorf("Migration file %s is not embedded", migration)
		}
	}
}

func TestMigrationFilesHaveUpAndDown(t *testing.T) {
	files, err := fs.ReadDir(migrationsFS, MigrationsDir)
	if err != nil {
		t.Fatalf("Failed to read migrations directory: %v", err)
	}

	sqlFileCount := 0
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		sqlFileCount++
		contentStr := readMigration(t, file.Name())

		for _, directive := range []string{
			"-- +goose Up",
			"-- +goose Down",
			"-- +goose StatementBegin",
			"-- +goose StatementEnd",
		} {
			if !strings.Contains(contentStr, directive) {
				t.Errorf("Migration file %s missing '%s' directive", file.Name(), directive)
			}
		}
	}

	if sqlFileCount == 0 {
		t.Error("No SQL migration files found")
	}
}

func TestInquiriesTableHasRequiredColumns(t *testing.T) {
	contentStr := readMigration(t, "00001_create_inquiries_table.sql")

	requiredColumns := []string{
		"CREATE TABLE IF NOT EXISTS inquiries",
		"id UUID PRIMARY KEY",
		"name VARCHAR",
		"phone VARCHAR",
		"marka VARCHAR",
		"vin VARCHAR",
		"message TEXT",
		"status VARCHAR",
		"error TEXT",
		"created_at TIMESTAMP",
		"DROP TABLE IF EXISTS inquiries",
	}

	for _, column := range requiredColumns {
		if !strings.Contains(contentStr, column) {
			t.Errorf("Inquiries migration missing: %s", column)
		}
	}

	for _, status := range []string{"'sent'", "'failed'"} {
		if !strings.Contains(contentStr, status) {
			t.Errorf("Inquiries status constraint missing value %s", status)
		}
	}
}

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{
		Host:     "db",
		Port:     "5432",
		User:     "site",
		Password: "p@ss word",
		Database: "airspring",
		Schema:   "public",
	})

	if !strings.HasPrefix(dsn, "postgres://site:p%40ss%20word@db:5432/airspring?") {
		t.Errorf("unexpected DSN prefix: %s", dsn)
	}
	if !strings.Contains(dsn, "sslmode=disable") || !strings.Contains(dsn, "search_path=public") {
		t.Errorf("DSN missing query parameters: %s", dsn)
	}
}
