package main

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	auth "github.com/encantar/go-auth"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-router"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// Minimal wiring of the auth API over sqlite. Secrets come from the
// environment; the process refuses to boot on a missing or placeholder
// secret.
func main() {
	ctx := context.Background()

	db, err := openDatabase(ctx)
	if err != nil {
		log.Fatal(err)
	}

	repo := auth.NewRepositoryManager(db)
	repo.MustValidate()

	tokens, err := auth.NewTokenService(auth.TokenConfig{
		AccessSecret:  os.Getenv("JWT_SECRET"),
		RefreshSecret: os.Getenv("JWT_REFRESH_SECRET"),
		AccessTTL:     os.Getenv("JWT_EXPIRES_IN"),
		RefreshTTL:    os.Getenv("JWT_REFRESH_EXPIRES_IN"),
	}, nil)
	if err != nil {
		log.Fatal(err)
	}

	coordinator := auth.NewCoordinator(repo, tokens)
	routeAuth := auth.NewRouteAuthenticator(coordinator, repo, nil)

	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			UnescapePath:      true,
			EnablePrintRoutes: true,
			StrictRouting:     false,
		}))
	})

	auth.RegisterAuthRoutes(srv.Router(),
		auth.WithCoordinator(coordinator),
		auth.WithRouteAuthenticator(routeAuth),
	)

	srv.Serve(":8572")

	waitExitSignal()
}

func openDatabase(ctx context.Context) (*bun.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "file::memory:?cache=shared"
	}

	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, err
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	migrations, err := fs.Sub(auth.GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return nil, err
	}

	entries, err := fs.ReadDir(migrations, ".")
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		ddl, err := fs.ReadFile(migrations, entry.Name())
		if err != nil {
			return nil, err
		}
		if _, err := db.ExecContext(ctx, string(ddl)); err != nil {
			return nil, fmt.Errorf("migration %s: %w", entry.Name(), err)
		}
	}

	return db, nil
}

func waitExitSignal() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
}
