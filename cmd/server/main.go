package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/classware/catalog/auth"
	"github.com/classware/catalog/catalog"
	"github.com/classware/catalog/config"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("server: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.Database.DSN)
	if err != nil {
		return err
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := auth.EnsureSchema(ctx, db); err != nil {
		return err
	}
	if err := catalog.EnsureSchema(ctx, db); err != nil {
		return err
	}

	users := auth.NewUsersRepository(db)
	if err := auth.SeedAdmin(ctx, users, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword); err != nil {
		return err
	}

	authModule := auth.New(users, cfg)

	app := fiber.New(fiber.Config{
		AppName:      "catalog",
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: auth.NewErrorHandler(nil),
	})

	authModule.Controller.RegisterRoutes(app)
	auth.NewUsersController(users, authModule.Strategies).RegisterRoutes(app)

	catalogController := catalog.NewController(
		catalog.NewCoursesRepository(db),
		catalog.NewLessonsRepository(db),
		authModule.Strategies,
	)
	catalogController.RegisterRoutes(app)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(cfg.Server.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return app.ShutdownWithContext(shutdownCtx)
}
