package catalog

import (
	"sort"
	"strings"

	"github.com/devxstore/storefront/pkg/types"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ApplyQuery produces the derived view: filter by search term, stock state
// and price range, then sort by the requested key. The input slice is never
// mutated and equal sort keys keep the catalog order, so the same query over
// the same catalog always yields the same sequence.
func ApplyQuery(products []types.Product, q *types.ProductQuery) []types.Product {
	result := make([]types.Product, 0, len(products))

	term := strings.ToLower(q.Query)
	for _, p := range products {
		if term != "" &&
			!strings.Contains(strings.ToLower(p.Name), term) &&
			!strings.Contains(strings.ToLower(p.Description), term) {
			continue
		}
		switch q.Stock {
		case types.StockIn:
			if p.Stock <= 0 {
				continue
			}
		case types.StockOut:
			if p.Stock != 0 {
				continue
			}
		}
		if float64(p.Price) < q.MinPrice {
			continue
		}
		if q.Bounded() && float64(p.Price) > q.MaxPrice {
			continue
		}
		result = append(result, p)
	}

	sortProducts(result, q.Sort)
	return result
}

func sortProducts(items []types.Product, key string) {
	switch key {
	case types.SortPriceLow:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Price < items[j].Price
		})
	case types.SortPriceHigh:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Price > items[j].Price
		})
	case types.SortStock:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Stock > items[j].Stock
		})
	case types.SortName:
		col := collate.New(language.Portuguese, collate.IgnoreCase)
		sort.SliceStable(items, func(i, j int) bool {
			return col.CompareString(items[i].Name, items[j].Name) < 0
		})
	}
}

// Page cuts the requested page out of the derived view. Page is zero based.
func Page(items []types.Product, page, pageSize int) []types.Product {
	if pageSize <= 0 {
		return items
	}
	start := page * pageSize
	if start >= len(items) {
		return []types.Product{}
	}
	return items[start:min(start+pageSize, len(items))]
}
