package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pky2203/ecommerce-inventory/internal/adapter/handler"
	"github.com/pky2203/ecommerce-inventory/internal/adapter/notifier"
	"github.com/pky2203/ecommerce-inventory/internal/adapter/storage"
	"github.com/pky2203/ecommerce-inventory/internal/config"
	"github.com/pky2203/ecommerce-inventory/internal/core/service"
	"github.com/pky2203/ecommerce-inventory/internal/port"
)

func main() {
	logger := zap.Must(zap.NewProduction())
	defer logger.Sync()

	cfg := config.Load()
	ctx := context.Background()

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open item store", zap.String("backend", cfg.StoreBackend), zap.Error(err))
	}
	defer closeStore()

	notify, closeNotifier := openNotifier(cfg, logger)
	defer closeNotifier()

	ledger := service.NewStockLedger(store)
	registry := service.NewItemRegistry(store)
	dispatcher := service.NewDispatcher(notify, cfg.NotifyTimeout, logger)
	orders := service.NewOrderService(store, ledger, dispatcher)

	router := gin.Default()
	httpHandler := handler.NewHTTPHandler(registry, orders, cfg.LowStockThreshold)
	httpHandler.Register(router)

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}
	logger.Info("HTTP server stopped")
}

func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (port.ItemStore, func(), error) {
	switch cfg.StoreBackend {
	case config.StoreMySQL:
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			return nil, nil, err
		}
		db.SetMaxOpenConns(50)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		logger.Info("connected to mysql")
		return storage.NewMySQLAdapter(db), func() { db.Close() }, nil

	case config.StoreRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			PoolSize: 100,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, nil, err
		}
		logger.Info("connected to redis")
		return storage.NewRedisAdapter(rdb), func() { rdb.Close() }, nil

	case config.StoreMemory:
		logger.Info("using in-memory item store")
		return storage.NewMemoryAdapter(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// openNotifier falls back to the no-op notifier when RabbitMQ is unreachable:
// the channel is best-effort and must not keep the service from starting.
func openNotifier(cfg config.Config, logger *zap.Logger) (port.Notifier, func()) {
	amqpNotifier, err := notifier.NewAMQPNotifier(cfg.AMQPURL)
	if err != nil {
		logger.Warn("notification channel unavailable, events will be dropped", zap.Error(err))
		return notifier.NewNopNotifier(), func() {}
	}

	logger.Info("connected to rabbitmq")
	return amqpNotifier, amqpNotifier.Close
}
