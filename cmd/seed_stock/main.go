// seed_stock carga el stock inicial desde la planilla exportada a CSV.
//
// Uso: go run ./cmd/seed_stock <archivo.csv> [charset] [separador]
// Ejemplo: go run ./cmd/seed_stock estoque.csv iso-8859-1 ";"
//
// Usa la misma configuración que la API (DATABASE_URL / DB_*). Los SKU ya registrados se omiten.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/jhoicas/Estoque-api/internal/application/registry"
	"github.com/jhoicas/Estoque-api/internal/domain"
	"github.com/jhoicas/Estoque-api/internal/infrastructure/csvimport"
	"github.com/jhoicas/Estoque-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Estoque-api/pkg/config"
	"github.com/jhoicas/Estoque-api/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "uso: seed_stock <archivo.csv> [charset] [separador]")
		os.Exit(2)
	}
	opts := csvimport.Options{}
	if len(os.Args) > 2 {
		opts.Charset = os.Args[2]
	}
	if len(os.Args) > 3 {
		opts.Comma, _ = utf8.DecodeRuneInString(os.Args[3])
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("seed")

	f, err := os.Open(os.Args[1])
	if err != nil {
		log.Fatal().Err(err).Msg("abrir CSV")
	}
	defer f.Close()

	entries, err := csvimport.LoadStock(f, opts)
	if err != nil {
		log.Fatal().Err(err).Msg("leer CSV")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.RunMigrations(pool, log); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	// Cada alta se difunde por NOTIFY a las instancias de la API en marcha
	reg := registry.New(postgres.NewRepos(pool).Stock, log)
	created, skipped := 0, 0
	for _, e := range entries {
		_, err := reg.Create(ctx, e)
		switch {
		case err == nil:
			created++
		case errors.Is(err, domain.ErrDuplicate):
			skipped++
			log.Warn().Str("sku", e.SKU).Msg("SKU ya registrado, se omite")
		default:
			log.Fatal().Err(err).Str("sku", e.SKU).Msg("registrar entrada")
		}
	}
	log.Info().Int("created", created).Int("skipped", skipped).Msg("carga inicial terminada")
}
