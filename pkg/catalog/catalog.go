// Package catalog holds the product catalog fetched from the upstream api
// and the derived, filtered/sorted views over it. Records are immutable
// between loads, a load replaces the whole collection.
package catalog

import (
	"sync"
	"time"

	"github.com/devxstore/storefront/pkg/types"
)

type Catalog struct {
	mu         sync.RWMutex
	products   []types.Product
	byId       map[uint]int
	categories []types.Category
	loadedAt   time.Time
}

func NewCatalog() *Catalog {
	return &Catalog{
		byId: map[uint]int{},
	}
}

// SetProducts replaces the product collection, preserving upstream order.
func (c *Catalog) SetProducts(items []types.Product) {
	byId := make(map[uint]int, len(items))
	for i := range items {
		byId[items[i].Id] = i
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products = items
	c.byId = byId
	c.loadedAt = time.Now()
}

func (c *Catalog) SetCategories(categories []types.Category) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.categories = categories
}

// Products returns the catalog in upstream order. The returned slice is
// shared, callers must not mutate it.
func (c *Catalog) Products() []types.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.products
}

func (c *Catalog) Categories() []types.Category {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.categories
}

func (c *Catalog) Get(id uint) (types.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	idx, ok := c.byId[id]
	if !ok {
		return types.Product{}, false
	}
	return c.products[idx], true
}

func (c *Catalog) Category(id uint) (types.Category, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, cat := range c.categories {
		if cat.Id == id {
			return cat, true
		}
	}
	return types.Category{}, false
}

func (c *Catalog) InCategory(id uint) []types.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]types.Product, 0)
	for _, p := range c.products {
		if p.CategoryId == id {
			result = append(result, p)
		}
	}
	return result
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.products)
}

func (c *Catalog) LoadedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadedAt
}

// PriceBounds returns the lowest and highest catalog price, used by the
// frontend to seed its range slider.
func (c *Catalog) PriceBounds() (types.Price, types.Price) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.products) == 0 {
		return 0, 0
	}
	lo, hi := c.products[0].Price, c.products[0].Price
	for _, p := range c.products[1:] {
		if p.Price < lo {
			lo = p.Price
		}
		if p.Price > hi {
			hi = p.Price
		}
	}
	return lo, hi
}
