package main

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pky2203/ecommerce-inventory/internal/adapter/notifier"
	"github.com/pky2203/ecommerce-inventory/internal/adapter/storage"
	"github.com/pky2203/ecommerce-inventory/internal/core/domain"
	"github.com/pky2203/ecommerce-inventory/internal/core/service"
)

const (
	redisAddr     = "localhost:6379"
	initialStock  = 20
	totalRequests = 50
)

// Hammers a Redis-backed store with concurrent orders for one item and
// checks that exactly initialStock of them succeed.
func main() {
	ctx := context.Background()

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	defer rdb.Close()

	store := storage.NewRedisAdapter(rdb)
	ledger := service.NewStockLedger(store)
	dispatcher := service.NewDispatcher(notifier.NewNopNotifier(), time.Second, zap.NewNop())
	orders := service.NewOrderService(store, ledger, dispatcher)

	// A fresh item per run avoids the name constraint across reruns.
	item, err := store.Insert(ctx, domain.Item{
		Name:     "Stress Laptop " + alphaSuffix(),
		Quantity: initialStock,
		Price:    1200,
	})
	if err != nil {
		log.Fatalf("failed to seed item: %v", err)
	}

	var successCount atomic.Int32
	var failCount atomic.Int32

	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func(userID int) {
			defer wg.Done()

			_, err := orders.PlaceOrder(ctx, domain.OrderRequest{ItemID: item.ID, Quantity: 1}, fmt.Sprintf("user-%d", userID))
			if err == nil {
				successCount.Add(1)
			} else {
				failCount.Add(1)
			}
		}(i)
	}

	wg.Wait()
	elapsed := time.Since(start)

	success := successCount.Load()
	fail := failCount.Load()

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Initial Stock:    %d\n", initialStock)
	fmt.Printf("Total Requests:   %d\n", totalRequests)
	fmt.Printf("Successful:       %d\n", success)
	fmt.Printf("Failed:           %d\n", fail)
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	if success == int32(initialStock) && fail == int32(totalRequests-initialStock) {
		fmt.Printf("PASS: Exactly %d orders succeeded, %d failed\n", initialStock, totalRequests-initialStock)
	} else {
		fmt.Printf("FAIL: Expected %d success/%d fail, got %d/%d\n",
			initialStock, totalRequests-initialStock, success, fail)
	}

	final, err := store.FindByID(ctx, item.ID)
	if err != nil || final == nil {
		log.Fatalf("failed to read final stock: %v", err)
	}
	fmt.Printf("Final Stock: %d\n", final.Quantity)

	if final.Quantity == 0 {
		fmt.Println("PASS: Stock depleted to 0")
	} else {
		fmt.Printf("FAIL: Expected stock 0, got %d\n", final.Quantity)
	}
}

// alphaSuffix turns a uuid fragment into letters so the item name passes the
// alphabetic display-name rule.
func alphaSuffix() string {
	raw := uuid.NewString()[:8]
	letters := make([]rune, 0, len(raw))
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z':
			letters = append(letters, r)
		case r >= '0' && r <= '9':
			letters = append(letters, rune('a'+(r-'0')))
		}
	}
	return string(letters)
}
