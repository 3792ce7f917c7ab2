// File: internal/database/migrations.go
package database

import (
	"database/sql"
	"embed"

	"github.com/golang-migrate/migrate/v4"
	dbdriver "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	src "github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type migrateInstance interface {
	Up() error
	Down() error
}

var (
	sqlOpenDB              = sql.Open
	postgresWithInstanceFn = postgres.WithInstance
	iofsNewFn              = iofs.New
	migrateNewWithInstance = func(sourceName string, sourceDriver src.Driver, databaseName string, databaseDriver dbdriver.Driver) (migrateInstance, error) {
		m, err := migrate.NewWithInstance(sourceName, sourceDriver, databaseName, databaseDriver)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
)

func newMigrator(dbURL string) (migrateInstance, func(), error) {
	// 建立 *sql.DB 使用 pgx stdlib driver
	sqlDB, err := sqlOpenDB("pgx", dbURL)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() { sqlDB.Close() }

	// 建立 migrate driver for postgres
	driver, err := postgresWithInstanceFn(sqlDB, &postgres.Config{})
	if err != nil {
		closeDB()
		return nil, nil, err
	}

	// embed migrations from migrationsFS
	sourceDriver, err := iofsNewFn(migrationsFS, "migrations")
	if err != nil {
		closeDB()
		return nil, nil, err
	}

	m, err := migrateNewWithInstance("iofs", sourceDriver, "postgres", driver)
	if err != nil {
		closeDB()
		return nil, nil, err
	}
	return m, closeDB, nil
}

// RunMigrations 嵌入並執行 SQL migration (up all)；已是最新版本時視為成功，
// 每次啟動呼叫皆安全
func RunMigrations(dbURL string) error {
	m, closeDB, err := newMigrator(dbURL)
	if err != nil {
		return err
	}
	defer closeDB()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}

// RollbackAll 退回所有 migration (down to version 0)
func RollbackAll(dbURL string) error {
	m, closeDB, err := newMigrator(dbURL)
	if err != nil {
		return err
	}
	defer closeDB()

	if err := m.Down(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
