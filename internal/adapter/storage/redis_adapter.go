package storage

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pky2203/ecommerce-inventory/internal/core/domain"
	"github.com/pky2203/ecommerce-inventory/internal/port"
)

const (
	itemKeyPrefix = "item:"
	nameKeyPrefix = "item:name:"
	itemSeqKey    = "item:seq"
	itemIDsKey    = "item:ids"
)

// insertItemScript claims the name index, assigns the next identity and
// writes the item hash in one atomic step. Returns 0 when the name is taken.
var insertItemScript = redis.NewScript(`
local nameKey = KEYS[1]

if redis.call('EXISTS', nameKey) == 1 then
	return 0
end

local id = redis.call('INCR', KEYS[2])
redis.call('SET', nameKey, id)
redis.call('SADD', KEYS[3], id)
redis.call('HSET', 'item:' .. id,
	'name', ARGV[1],
	'quantity', ARGV[2],
	'price', ARGV[3],
	'version', 0,
	'created_at', ARGV[4],
	'updated_at', ARGV[4])

return id
`)

// updateItemScript overwrites the item hash only when the stored version
// matches, bumping it. Returns 0 on a version conflict.
var updateItemScript = redis.NewScript(`
local itemKey = KEYS[1]

local version = redis.call('HGET', itemKey, 'version')
if not version or tonumber(version) ~= tonumber(ARGV[1]) then
	return 0
end

local current = redis.call('HGET', itemKey, 'name')
if current ~= ARGV[2] then
	redis.call('DEL', 'item:name:' .. current)
	redis.call('SET', 'item:name:' .. ARGV[2], ARGV[5])
end

redis.call('HSET', itemKey,
	'name', ARGV[2],
	'quantity', ARGV[3],
	'price', ARGV[4],
	'updated_at', ARGV[6])
redis.call('HINCRBY', itemKey, 'version', 1)

return 1
`)

// RedisAdapter implements ItemStore on a single Redis node. Items live in
// hashes keyed by identity with a string index per name; both mutations run
// as Lua scripts so concurrent writers always see consistent state.
type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func (r *RedisAdapter) FindByID(ctx context.Context, id int64) (*domain.Item, error) {
	fields, err := r.client.HGetAll(ctx, itemKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("get item %d: %w", id, err)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	return itemFromHash(id, fields)
}

func (r *RedisAdapter) FindByName(ctx context.Context, name string) (*domain.Item, error) {
	id, err := r.client.Get(ctx, nameKeyPrefix+name).Int64()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve item name %q: %w", name, err)
	}
	return r.FindByID(ctx, id)
}

func (r *RedisAdapter) FindAll(ctx context.Context) ([]domain.Item, error) {
	ids, err := r.client.SMembers(ctx, itemIDsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list item ids: %w", err)
	}

	var items []domain.Item
	for _, raw := range ids {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse item id %q: %w", raw, err)
		}
		item, err := r.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if item != nil {
			items = append(items, *item)
		}
	}

	return items, nil
}

func (r *RedisAdapter) Insert(ctx context.Context, item domain.Item) (*domain.Item, error) {
	now := time.Now()
	id, err := insertItemScript.Run(ctx, r.client,
		[]string{nameKeyPrefix + item.Name, itemSeqKey, itemIDsKey},
		item.Name, item.Quantity, item.Price, now.Unix(),
	).Int64()
	if err != nil {
		return nil, fmt.Errorf("insert item %q: %w", item.Name, err)
	}
	if id == 0 {
		return nil, port.ErrNameTaken
	}

	item.ID = id
	item.Version = 0
	item.CreatedAt = now
	item.UpdatedAt = now
	return &item, nil
}

func (r *RedisAdapter) Update(ctx context.Context, item domain.Item) error {
	result, err := updateItemScript.Run(ctx, r.client,
		[]string{itemKey(item.ID)},
		item.Version, item.Name, item.Quantity, item.Price, item.ID, time.Now().Unix(),
	).Int()
	if err != nil {
		return fmt.Errorf("update item %d: %w", item.ID, err)
	}
	if result == 0 {
		return port.ErrVersionConflict
	}
	return nil
}

func itemKey(id int64) string {
	return itemKeyPrefix + strconv.FormatInt(id, 10)
}

func itemFromHash(id int64, fields map[string]string) (*domain.Item, error) {
	quantity, err := strconv.Atoi(fields["quantity"])
	if err != nil {
		return nil, fmt.Errorf("parse quantity for item %d: %w", id, err)
	}
	price, err := strconv.ParseInt(fields["price"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse price for item %d: %w", id, err)
	}
	version, err := strconv.Atoi(fields["version"])
	if err != nil {
		return nil, fmt.Errorf("parse version for item %d: %w", id, err)
	}
	createdAt, _ := strconv.ParseInt(fields["created_at"], 10, 64)
	updatedAt, _ := strconv.ParseInt(fields["updated_at"], 10, 64)

	return &domain.Item{
		ID:        id,
		Name:      fields["name"],
		Quantity:  quantity,
		Price:     price,
		Version:   version,
		CreatedAt: time.Unix(createdAt, 0),
		UpdatedAt: time.Unix(updatedAt, 0),
	}, nil
}
