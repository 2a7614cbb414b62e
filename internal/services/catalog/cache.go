package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rafa3lsilva/Sistema-Inventario/internal/models"
)

const (
	productKeyPrefix = "inventario:produto:"
	choicesKeyPrefix = "inventario:choices:"
	cacheTTL         = 10 * time.Minute
)

// Cache is a cache-aside layer for product lookups and choice lists. A nil
// *Cache or a nil client disables caching; Redis failures are logged and
// treated as misses.
type Cache struct {
	client *redis.Client
}

func NewCache(client *redis.Client) *Cache {
	if client == nil {
		return nil
	}
	return &Cache{client: client}
}

func (c *Cache) GetProduct(ctx context.Context, ean string) (*models.Product, bool) {
	var p models.Product
	if !c.getJSON(ctx, productKeyPrefix+ean, &p) {
		return nil, false
	}
	return &p, true
}

func (c *Cache) SetProduct(ctx context.Context, p *models.Product) {
	c.setJSON(ctx, productKeyPrefix+p.EAN, p)
}

func (c *Cache) GetChoices(ctx context.Context, column string) ([]string, bool) {
	var values []string
	if !c.getJSON(ctx, choicesKeyPrefix+column, &values) {
		return nil, false
	}
	return values, true
}

func (c *Cache) SetChoices(ctx context.Context, column string, values []string) {
	c.setJSON(ctx, choicesKeyPrefix+column, values)
}

// Invalidate drops the given products and every choice list.
func (c *Cache) Invalidate(ctx context.Context, eans ...string) {
	if c == nil {
		return
	}
	keys := []string{
		choicesKeyPrefix + ColumnEmb,
		choicesKeyPrefix + ColumnSecao,
		choicesKeyPrefix + ColumnGrupo,
	}
	for _, e := range eans {
		keys = append(keys, productKeyPrefix+e)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		log.Printf("⚠️ Cache invalidation failed: %v", err)
	}
}

func (c *Cache) getJSON(ctx context.Context, key string, dest interface{}) bool {
	if c == nil {
		return false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("⚠️ Cache read %s failed: %v", key, err)
		}
		return false
	}
	return json.Unmarshal(data, dest) == nil
}

func (c *Cache) setJSON(ctx context.Context, key string, value interface{}) {
	if c == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, data, cacheTTL).Err(); err != nil {
		log.Printf("⚠️ Cache write %s failed: %v", key, err)
	}
}
