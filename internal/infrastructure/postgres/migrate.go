package postgres

import (
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/jhoicas/Estoque-api/pkg/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// MigrationsDir directorio de las migraciones dentro del FS embebido.
const MigrationsDir = "migrations"

// RunMigrations ejecuta las migraciones goose pendientes sobre el pool.
func RunMigrations(pool *pgxpool.Pool, log *logger.Logger) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}

	before, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("leer versión de esquema: %w", err)
	}
	if err := goose.Up(db, MigrationsDir); err != nil {
		return fmt.Errorf("ejecutar migraciones: %w", err)
	}
	after, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("leer versión de esquema: %w", err)
	}
	log.Info().Int64("from", before).Int64("to", after).Msg("migraciones aplicadas")
	return nil
}
