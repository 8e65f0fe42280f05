package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/pky2203/ecommerce-inventory/internal/core/domain"
	"github.com/pky2203/ecommerce-inventory/internal/port"
)

// mysqlDuplicateEntry is the server error for a unique key violation.
const mysqlDuplicateEntry = 1062

// MySQLAdapter implements ItemStore on MySQL. Name uniqueness rests on the
// unique index over item_name; update atomicity rests on the version column.
// The binary collation keeps name lookups and the unique index case-sensitive,
// matching the other store backends.
//
//	CREATE TABLE items (
//	    item_id    BIGINT AUTO_INCREMENT PRIMARY KEY,
//	    item_name  VARCHAR(255) COLLATE utf8mb4_bin NOT NULL,
//	    quantity   INT NOT NULL,
//	    price      BIGINT NOT NULL,
//	    version    INT NOT NULL DEFAULT 0,
//	    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
//	    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
//	    UNIQUE KEY uniq_item_name (item_name)
//	);
type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

func (m *MySQLAdapter) FindByID(ctx context.Context, id int64) (*domain.Item, error) {
	return m.findOne(ctx, `
		SELECT item_id, item_name, quantity, price, version, created_at, updated_at
		FROM items WHERE item_id = ?`, id)
}

func (m *MySQLAdapter) FindByName(ctx context.Context, name string) (*domain.Item, error) {
	return m.findOne(ctx, `
		SELECT item_id, item_name, quantity, price, version, created_at, updated_at
		FROM items WHERE item_name = ?`, name)
}

func (m *MySQLAdapter) findOne(ctx context.Context, query string, arg interface{}) (*domain.Item, error) {
	var item domain.Item
	err := m.db.QueryRowContext(ctx, query, arg).Scan(
		&item.ID, &item.Name, &item.Quantity, &item.Price,
		&item.Version, &item.CreatedAt, &item.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query item: %w", err)
	}
	return &item, nil
}

func (m *MySQLAdapter) FindAll(ctx context.Context) ([]domain.Item, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT item_id, item_name, quantity, price, version, created_at, updated_at
		FROM items`)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		var item domain.Item
		if err := rows.Scan(
			&item.ID, &item.Name, &item.Quantity, &item.Price,
			&item.Version, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}

	return items, nil
}

func (m *MySQLAdapter) Insert(ctx context.Context, item domain.Item) (*domain.Item, error) {
	result, err := m.db.ExecContext(ctx, `
		INSERT INTO items (item_name, quantity, price, version)
		VALUES (?, ?, ?, 0)`,
		item.Name, item.Quantity, item.Price,
	)
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
		return nil, port.ErrNameTaken
	}
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return m.FindByID(ctx, id)
}

func (m *MySQLAdapter) Update(ctx context.Context, item domain.Item) error {
	result, err := m.db.ExecContext(ctx, `
		UPDATE items
		SET item_name = ?, quantity = ?, price = ?, version = version + 1, updated_at = NOW()
		WHERE item_id = ? AND version = ?`,
		item.Name, item.Quantity, item.Price, item.ID, item.Version,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return port.ErrVersionConflict
	}

	return nil
}
