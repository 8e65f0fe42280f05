package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/pky2203/ecommerce-inventory/internal/core/domain"
	"github.com/pky2203/ecommerce-inventory/internal/port"
)

func getMySQLDB(t *testing.T) *sql.DB {
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(localhost:3306)/inventory?parseTime=true"
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS items (
			item_id    BIGINT AUTO_INCREMENT PRIMARY KEY,
			item_name  VARCHAR(255) COLLATE utf8mb4_bin NOT NULL,
			quantity   INT NOT NULL,
			price      BIGINT NOT NULL,
			version    INT NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE KEY uniq_item_name (item_name)
		)`)
	if err != nil {
		t.Fatalf("create table failed: %v", err)
	}

	return db
}

// testItemName avoids collisions between runs against a shared database.
func testItemName(prefix string) string {
	return fmt.Sprintf("%s %d", prefix, time.Now().UnixNano()%1000000)
}

func TestMySQLInsertAndFind(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	adapter := NewMySQLAdapter(db)
	name := testItemName("Test Laptop")

	created, err := adapter.Insert(ctx, domain.Item{Name: name, Quantity: 10, Price: 1200})
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	defer db.ExecContext(ctx, `DELETE FROM items WHERE item_id = ?`, created.ID)

	if created.ID == 0 {
		t.Fatal("expected store-assigned id")
	}

	found, err := adapter.FindByName(ctx, name)
	if err != nil {
		t.Fatalf("find by name failed: %v", err)
	}
	if found == nil || found.ID != created.ID || found.Quantity != 10 {
		t.Errorf("unexpected item: %+v", found)
	}
}

func TestMySQLInsert_DuplicateName(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	adapter := NewMySQLAdapter(db)
	name := testItemName("Dup Laptop")

	created, err := adapter.Insert(ctx, domain.Item{Name: name, Quantity: 10, Price: 1200})
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	defer db.ExecContext(ctx, `DELETE FROM items WHERE item_id = ?`, created.ID)

	_, err = adapter.Insert(ctx, domain.Item{Name: name, Quantity: 5, Price: 900})
	if !errors.Is(err, port.ErrNameTaken) {
		t.Errorf("expected ErrNameTaken, got: %v", err)
	}
}

func TestMySQLFindByName_CaseSensitive(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	adapter := NewMySQLAdapter(db)
	name := testItemName("Case Laptop")

	created, err := adapter.Insert(ctx, domain.Item{Name: name, Quantity: 10, Price: 1200})
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	defer db.ExecContext(ctx, `DELETE FROM items WHERE item_id = ?`, created.ID)

	// A differently-cased name is a different name: no match, and no
	// unique key violation on insert.
	other := strings.ToLower(name)
	found, err := adapter.FindByName(ctx, other)
	if err != nil {
		t.Fatalf("find by name failed: %v", err)
	}
	if found != nil {
		t.Errorf("lookup for %q matched %q", other, found.Name)
	}

	lowered, err := adapter.Insert(ctx, domain.Item{Name: other, Quantity: 5, Price: 900})
	if err != nil {
		t.Fatalf("insert of differently-cased name failed: %v", err)
	}
	defer db.ExecContext(ctx, `DELETE FROM items WHERE item_id = ?`, lowered.ID)

	if lowered.ID == created.ID {
		t.Error("expected a distinct row for the differently-cased name")
	}
}

func TestMySQLUpdate_VersionConflict(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	adapter := NewMySQLAdapter(db)

	created, err := adapter.Insert(ctx, domain.Item{Name: testItemName("Lock Laptop"), Quantity: 10, Price: 1200})
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	defer db.ExecContext(ctx, `DELETE FROM items WHERE item_id = ?`, created.ID)

	created.Quantity = 7
	if err := adapter.Update(ctx, *created); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	// Stale version must be rejected without a write.
	created.Quantity = 4
	err = adapter.Update(ctx, *created)
	if !errors.Is(err, port.ErrVersionConflict) {
		t.Errorf("expected ErrVersionConflict, got: %v", err)
	}

	stored, _ := adapter.FindByID(ctx, created.ID)
	if stored.Quantity != 7 {
		t.Errorf("expected quantity 7, got %d", stored.Quantity)
	}
	if stored.Version != 1 {
		t.Errorf("expected version 1, got %d", stored.Version)
	}
}

func TestMySQLFindByID_NotFound(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	adapter := NewMySQLAdapter(db)

	item, err := adapter.FindByID(context.Background(), -1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item != nil {
		t.Error("expected nil for nonexistent item")
	}
}
