package types

import (
	"net/http/httptest"
	"testing"
)

func TestQueryFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/products?query=key&stock=inStock&sort=price-low&minPrice=10&maxPrice=100", nil)
	q, err := GetProductQueryFromRequest(r)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if q.Query != "key" || q.Stock != StockIn || q.Sort != SortPriceLow {
		t.Errorf("unexpected query %+v", q)
	}
	if q.MinPrice != 10 || q.MaxPrice != 100 {
		t.Errorf("unexpected price range %v-%v", q.MinPrice, q.MaxPrice)
	}
}

func TestQueryDefaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/products", nil)
	q, err := GetProductQueryFromRequest(r)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if q.Stock != StockAll || q.Sort != SortName || q.PageSize != 40 {
		t.Errorf("unexpected defaults %+v", q)
	}
	if q.Bounded() {
		t.Errorf("default query should be unbounded")
	}
}

func TestSanitize(t *testing.T) {
	q := &ProductQuery{Stock: "bogus", Sort: "bogus", Page: -4, PageSize: 100000, MinPrice: 50, MaxPrice: 10}
	q.Sanitize()
	if q.Stock != StockAll || q.Sort != SortName {
		t.Errorf("invalid enum values should fall back to defaults, got %+v", q)
	}
	if q.Page != 0 || q.PageSize != 1000 {
		t.Errorf("paging not clamped: %+v", q)
	}
	if q.MinPrice != 10 || q.MaxPrice != 50 {
		t.Errorf("inverted range should be swapped, got %v-%v", q.MinPrice, q.MaxPrice)
	}
}
