package repositories

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"

	"github.com/Brownbull/ayni-be/infra"
	"github.com/Brownbull/ayni-be/utils"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
)

// embed migrations sql folder
//
//go:embed migrations/*.sql
var embedMigrations embed.FS

type Migrater struct {
	pgConfig infra.PgConfig
}

func NewMigrater(pgConfig infra.PgConfig) *Migrater {
	return &Migrater{pgConfig: pgConfig}
}

func (m *Migrater) Run(ctx context.Context) error {
	logger := utils.LoggerFromContext(ctx)

	db, err := m.setupDbConnection()
	if err != nil {
		return fmt.Errorf("setupDbConnection error: %w", err)
	}
	defer db.Close()

	if err := m.runGooseMigrations(db, logger); err != nil {
		return fmt.Errorf("runGooseMigrations error: %w", err)
	}
	if err := m.runRiverMigrations(ctx, logger); err != nil {
		return fmt.Errorf("runRiverMigrations error: %w", err)
	}
	return nil
}

func (m *Migrater) setupDbConnection() (*sql.DB, error) {
	connectionString := m.pgConfig.GetConnectionString()

	migrationDB, err := sql.Open("pgx", connectionString)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := migrationDB.Ping(); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}
	return migrationDB, nil
}

func (m *Migrater) runGooseMigrations(db *sql.DB, logger *slog.Logger) error {
	// start goose migrations
	logger.Info("Migrations starting to setup DB")
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("unable to run migrations: %w", err)
	}
	return nil
}

// runRiverMigrations sets up the tables used by the task queue.
func (m *Migrater) runRiverMigrations(ctx context.Context, logger *slog.Logger) error {
	pool, err := pgxpool.New(ctx, m.pgConfig.GetConnectionString())
	if err != nil {
		return fmt.Errorf("unable to connect to database: %w", err)
	}
	defer pool.Close()

	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		return err
	}

	res, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, &rivermigrate.MigrateOpts{})
	if err != nil {
		return fmt.Errorf("unable to run river migrations: %w", err)
	}
	for _, version := range res.Versions {
		logger.Info(fmt.Sprintf("Applied river migration version %d", version.Version))
	}
	return nil
}
