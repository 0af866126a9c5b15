package types

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/gorilla/schema"
)

const (
	StockAll = "all"
	StockIn  = "inStock"
	StockOut = "outOfStock"

	SortName      = "name"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortStock     = "stock"
)

// ProductQuery is the view state for the derived product listing: free text,
// stock filter, price range and sort key. It never mutates catalog or cart
// data.
type ProductQuery struct {
	Query    string  `json:"query" schema:"query"`
	Stock    string  `json:"stock" schema:"stock,default:all"`
	Sort     string  `json:"sort" schema:"sort,default:name"`
	MinPrice float64 `json:"minPrice" schema:"minPrice"`
	MaxPrice float64 `json:"maxPrice" schema:"maxPrice"`
	Page     int     `json:"page" schema:"page"`
	PageSize int     `json:"pageSize" schema:"size,default:40"`
}

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

func clamp[T int | float64](value, min, max T) T {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Bounded reports whether an upper price bound is set. MaxPrice <= 0 means
// unbounded so a plain listing needs no knowledge of the catalog price range.
func (q *ProductQuery) Bounded() bool {
	return q.MaxPrice > 0
}

func (q *ProductQuery) Sanitize() {
	q.Page = clamp(q.Page, 0, 100)
	q.PageSize = clamp(q.PageSize, 1, 1000)
	q.MinPrice = max(q.MinPrice, 0)
	if q.Bounded() && q.MaxPrice < q.MinPrice {
		q.MinPrice, q.MaxPrice = q.MaxPrice, q.MinPrice
	}
	switch q.Stock {
	case StockIn, StockOut:
	default:
		q.Stock = StockAll
	}
	switch q.Sort {
	case SortPriceLow, SortPriceHigh, SortStock:
	default:
		q.Sort = SortName
	}
}

func makeBaseProductQuery() *ProductQuery {
	return &ProductQuery{
		Stock:    StockAll,
		Sort:     SortName,
		PageSize: 40,
	}
}

// GetProductQueryFromRequest decodes the listing query from the url for GET
// requests and from the json body otherwise.
func GetProductQueryFromRequest(r *http.Request) (*ProductQuery, error) {
	q := makeBaseProductQuery()
	var err error
	if r.Method == http.MethodGet {
		err = queryFromRequestQuery(r.URL.Query(), q)
	} else {
		err = json.NewDecoder(r.Body).Decode(q)
	}
	q.Sanitize()
	return q, err
}

func queryFromRequestQuery(query url.Values, result *ProductQuery) error {
	return decoder.Decode(result, query)
}
