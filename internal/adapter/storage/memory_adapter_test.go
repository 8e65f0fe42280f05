package storage

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/pky2203/ecommerce-inventory/internal/core/domain"
	"github.com/pky2203/ecommerce-inventory/internal/port"
)

func TestMemoryInsert_AssignsIdentity(t *testing.T) {
	store := NewMemoryAdapter()
	ctx := context.Background()

	first, err := store.Insert(ctx, domain.Item{Name: "Laptop", Quantity: 10, Price: 1200})
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	second, err := store.Insert(ctx, domain.Item{Name: "Mouse", Quantity: 5, Price: 25})
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	if first.ID == 0 || second.ID == first.ID {
		t.Errorf("expected distinct non-zero ids, got %d and %d", first.ID, second.ID)
	}
	if first.Version != 0 {
		t.Errorf("expected version 0, got %d", first.Version)
	}
}

func TestMemoryInsert_NameTaken(t *testing.T) {
	store := NewMemoryAdapter()
	ctx := context.Background()

	if _, err := store.Insert(ctx, domain.Item{Name: "Laptop", Quantity: 10, Price: 1200}); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	_, err := store.Insert(ctx, domain.Item{Name: "Laptop", Quantity: 5, Price: 900})
	if !errors.Is(err, port.ErrNameTaken) {
		t.Errorf("expected ErrNameTaken, got: %v", err)
	}
}

func TestMemoryFind(t *testing.T) {
	store := NewMemoryAdapter()
	ctx := context.Background()

	created, _ := store.Insert(ctx, domain.Item{Name: "Laptop", Quantity: 10, Price: 1200})

	byID, err := store.FindByID(ctx, created.ID)
	if err != nil || byID == nil {
		t.Fatalf("expected item, got %v, err %v", byID, err)
	}

	byName, err := store.FindByName(ctx, "Laptop")
	if err != nil || byName == nil || byName.ID != created.ID {
		t.Fatalf("expected item by name, got %v, err %v", byName, err)
	}

	if missing, _ := store.FindByID(ctx, 999); missing != nil {
		t.Error("expected nil for absent id")
	}
	if missing, _ := store.FindByName(ctx, "laptop"); missing != nil {
		t.Error("name lookup must be case-sensitive")
	}
}

func TestMemoryUpdate_VersionConflict(t *testing.T) {
	store := NewMemoryAdapter()
	ctx := context.Background()

	created, _ := store.Insert(ctx, domain.Item{Name: "Laptop", Quantity: 10, Price: 1200})

	created.Quantity = 7
	if err := store.Update(ctx, *created); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	// Second write with the stale version must be rejected.
	created.Quantity = 4
	err := store.Update(ctx, *created)
	if !errors.Is(err, port.ErrVersionConflict) {
		t.Errorf("expected ErrVersionConflict, got: %v", err)
	}

	stored, _ := store.FindByID(ctx, created.ID)
	if stored.Quantity != 7 {
		t.Errorf("expected quantity 7, got %d", stored.Quantity)
	}
	if stored.Version != 1 {
		t.Errorf("expected version 1, got %d", stored.Version)
	}
}

func TestMemoryUpdate_ConcurrentWritersSerialize(t *testing.T) {
	store := NewMemoryAdapter()
	ctx := context.Background()

	created, _ := store.Insert(ctx, domain.Item{Name: "Laptop", Quantity: 100, Price: 1200})

	// Each goroutine runs a read-modify-CAS loop; the final quantity must
	// reflect every single decrement.
	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				item, _ := store.FindByID(ctx, created.ID)
				item.Quantity--
				if err := store.Update(ctx, *item); err == nil {
					return
				}
			}
		}()
	}
	wg.Wait()

	stored, _ := store.FindByID(ctx, created.ID)
	if stored.Quantity != 100-writers {
		t.Errorf("expected quantity %d, got %d", 100-writers, stored.Quantity)
	}
}
