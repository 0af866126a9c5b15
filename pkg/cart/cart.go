// Package cart owns the session scoped shopping cart and favorites state.
// Lines snapshot name, price and image at first add and are never refreshed
// from the catalog. Aggregates are derived and recomputed on every mutation.
package cart

import (
	"errors"

	"github.com/devxstore/storefront/pkg/types"
)

var (
	ErrCartNotFound    = errors.New("cart not found")
	ErrProductNotFound = errors.New("product not found")
	ErrOutOfStock      = errors.New("product is out of stock")
)

type CartLine struct {
	ProductId uint        `json:"id"`
	Name      string      `json:"name"`
	Price     types.Price `json:"price"`
	Image     string      `json:"image,omitempty"`
	Quantity  uint        `json:"quantity"`
}

type Cart struct {
	Id         string      `json:"id"`
	Items      []CartLine  `json:"items"`
	ItemCount  uint        `json:"item_count"`
	TotalPrice types.Price `json:"total_price"`
}

// NewLine snapshots the fields a line keeps from the catalog record.
func NewLine(p *types.Product, quantity uint) *CartLine {
	return &CartLine{
		ProductId: p.Id,
		Name:      p.Name,
		Price:     p.Price,
		Image:     p.MainImage(),
		Quantity:  quantity,
	}
}

func emptyCart(id string) *Cart {
	return &Cart{Id: id, Items: []CartLine{}}
}

// recalculate derives item count and total from the lines. Totals use the
// snapshotted per line price, never a live catalog lookup.
func (c *Cart) recalculate() {
	var count uint
	var total types.Price
	for _, line := range c.Items {
		count += line.Quantity
		total += line.Price * types.Price(line.Quantity)
	}
	c.ItemCount = count
	c.TotalPrice = total
}
