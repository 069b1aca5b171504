package memory

import (
	"time"

	"perfumeshop-be/internal/entity"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// ProductCache keeps recently read catalog rows in process memory so the
// order-sheet page does not hit the database for every product lookup.
// Settlement writes never read through it; price snapshots always come from
// the database row inside the transaction.
type ProductCache struct {
	cache *cache.Cache
}

func NewProductCache() *ProductCache {
	// Default expiration of 5 minutes, purging expired items every 10 minutes
	c := cache.New(5*time.Minute, 10*time.Minute)
	return &ProductCache{
		cache: c,
	}
}

func (r *ProductCache) Save(product *entity.Product) {
	r.cache.Set(product.Id.String(), product, cache.DefaultExpiration)
}

func (r *ProductCache) Get(productId uuid.UUID) (*entity.Product, bool) {
	if x, found := r.cache.Get(productId.String()); found {
		return x.(*entity.Product), true
	}
	return nil, false
}

func (r *ProductCache) Delete(productId uuid.UUID) {
	r.cache.Delete(productId.String())
}
