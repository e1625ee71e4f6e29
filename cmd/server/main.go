package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/premsinghsengar10/scan-and-bill/internal/adapter/handler"
	"github.com/premsinghsengar10/scan-and-bill/internal/adapter/storage"
	"github.com/premsinghsengar10/scan-and-bill/internal/config"
	"github.com/premsinghsengar10/scan-and-bill/internal/core/service"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	app := &cli.App{
		Name:  "scanbill",
		Usage: "point-of-sale backend for multi-store retail",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run migrations and start the HTTP server",
				Action: func(c *cli.Context) error {
					return serve(c.Context, log)
				},
			},
			{
				Name:  "migrate",
				Usage: "apply pending schema migrations and exit",
				Action: func(c *cli.Context) error {
					cfg, err := config.Load()
					if err != nil {
						return err
					}
					return runMigrations(cfg, log)
				},
			},
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("terminated")
	}
}

func serve(ctx context.Context, log *logrus.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := runMigrations(cfg, log); err != nil {
		return err
	}

	db, err := sqlx.ConnectContext(ctx, "mysql", cfg.MySQLDSN)
	if err != nil {
		return errors.Wrap(err, "connect mysql")
	}
	defer db.Close()
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)
	log.Info("connected to mysql")

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return errors.Wrap(err, "connect redis")
	}
	defer rdb.Close()
	log.Info("connected to redis")

	mysqlAdapter := storage.NewMySQLAdapter(db)
	redisAdapter := storage.NewRedisAdapter(rdb)

	checkoutService := service.NewCheckoutService(
		mysqlAdapter.Orders(), mysqlAdapter.Carts(), mysqlAdapter.Inventory(), log)
	productService := service.NewProductService(
		mysqlAdapter.Products(), mysqlAdapter.Inventory(), redisAdapter, log)
	cartService := service.NewCartService(
		mysqlAdapter.Carts(), mysqlAdapter.Products(), mysqlAdapter.Inventory(), log)

	httpHandler := handler.NewHTTPHandler(
		checkoutService, productService, cartService, mysqlAdapter.Stores(), log)

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: httpHandler.Router(),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithField("addr", cfg.HTTPAddr).Info("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "http server")
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// runMigrations applies the schema on its own connection; golang-migrate needs
// multiStatements enabled, which the serving pool does not.
func runMigrations(cfg *config.Config, log *logrus.Logger) error {
	db, err := sql.Open("mysql", cfg.MySQLDSN+"&multiStatements=true")
	if err != nil {
		return errors.Wrap(err, "open mysql for migrations")
	}
	defer db.Close()

	driver, err := migratemysql.WithInstance(db, &migratemysql.Config{})
	if err != nil {
		return errors.Wrap(err, "create migration driver")
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+cfg.MigrationsPath, "mysql", driver)
	if err != nil {
		return errors.Wrap(err, "create migrate instance")
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "apply migrations")
	}
	log.Info("migrations up to date")
	return nil
}
