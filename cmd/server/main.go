package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/moneytrail/wallet-api/internal/api"
	"github.com/moneytrail/wallet-api/internal/api/handler"
	"github.com/moneytrail/wallet-api/internal/core/service"
	"github.com/moneytrail/wallet-api/internal/core/token"
	"github.com/moneytrail/wallet-api/internal/infrastructure/db/mongo"
	"github.com/moneytrail/wallet-api/internal/infrastructure/db/redis"
	"github.com/moneytrail/wallet-api/internal/infrastructure/queue"
	"github.com/moneytrail/wallet-api/internal/pkg/config"
	"github.com/moneytrail/wallet-api/internal/pkg/password"
	"github.com/moneytrail/wallet-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title        Wallet API
// @version      1.0
// @description  Personal finance API: accounts, categories, transactions and groups behind cookie sessions.
// @BasePath     /api
func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: !cfg.IsProduction(), Service: "wallet-api"})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo unavailable")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis unavailable")
	}
	defer rdb.Close()

	users := mongo.NewUserRepository(db)
	categories := mongo.NewCategoryRepository(db)
	transactions := mongo.NewTransactionRepository(db)
	groups := mongo.NewGroupRepository(db)
	sessionEvents := mongo.NewSessionEventRepository(db)

	if err := mongo.EnsureIndexes(ctx, users, categories, transactions, groups, sessionEvents); err != nil {
		log.Fatal().Err(err).Msg("ensure indexes")
	}

	// Session audit runs off the request path.
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, service.NewSessionEventService(sessionEvents, log), log)
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	dispatcher.Start(workerCtx)

	codec := token.NewCodec(cfg.JWTSecret)
	idem := redis.NewIdempotencyStore(rdb, cfg.Redis.IdempotencyTTL)

	e := api.NewRouter(api.Services{
		Auth:         service.NewAuthService(users, password.NewHasher(bcrypt.DefaultCost), codec, dispatcher, log),
		Gate:         service.NewAuthGate(codec),
		Users:        service.NewUserService(users, transactions, groups, log),
		Categories:   service.NewCategoryService(categories, transactions, log),
		Transactions: service.NewTransactionService(transactions, users, categories, idem, log),
		Groups:       service.NewGroupService(groups, users, log),
	}, log, map[string]handler.Pinger{
		"mongo": func(ctx context.Context) error { return client.Ping(ctx, nil) },
		"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	}, true)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped unexpectedly")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	cancelWorkers()
	dispatcher.Wait()
	log.Info().Msg("server stopped")
}
