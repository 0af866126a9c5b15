package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/devxstore/storefront/pkg/catalog"
	"github.com/devxstore/storefront/pkg/types"
)

type listResult struct {
	Items []struct {
		Id           uint    `json:"id"`
		Name         string  `json:"name"`
		Price        float64 `json:"price"`
		DisplayPrice string  `json:"display_price"`
	} `json:"items"`
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"pageSize"`
	PriceRange [2]float64 `json:"priceRange"`
}

func newCatalogServer(t *testing.T) *httptest.Server {
	t.Helper()
	cat := catalog.NewCatalog()
	cat.SetProducts([]types.Product{
		{Id: 1, Name: "Keyboard", Price: 50, Stock: 3, CategoryId: 1},
		{Id: 2, Name: "Mouse", Price: 20, Stock: 0, CategoryId: 1},
		{Id: 3, Name: "Monitor", Price: 200, Stock: 5, CategoryId: 2},
	})
	cat.SetCategories([]types.Category{
		{Id: 1, Name: "Peripherals"},
		{Id: 2, Name: "Displays"},
	})
	ws := &WebServer{Catalog: cat}
	mux := http.NewServeMux()
	ws.Register(mux)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func getList(t *testing.T, url string) *listResult {
	t.Helper()
	res, err := http.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("get %s: status %d", url, res.StatusCode)
	}
	var out listResult
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return &out
}

func TestGetProductsStockFilter(t *testing.T) {
	ts := newCatalogServer(t)

	out := getList(t, ts.URL+"/api/products?stock=outOfStock")
	if out.Total != 1 || len(out.Items) != 1 || out.Items[0].Name != "Mouse" {
		t.Errorf("expected only the out of stock product, got %+v", out.Items)
	}
	if out.PriceRange != [2]float64{20, 200} {
		t.Errorf("expected catalog wide price range, got %v", out.PriceRange)
	}
}

func TestGetProductsSortPriceHigh(t *testing.T) {
	ts := newCatalogServer(t)

	out := getList(t, ts.URL+"/api/products?sort=price-high")
	if len(out.Items) != 3 || out.Items[0].Name != "Monitor" || out.Items[2].Name != "Mouse" {
		t.Errorf("expected descending price order, got %+v", out.Items)
	}
}

func TestGetProductsSubstringSearch(t *testing.T) {
	ts := newCatalogServer(t)

	out := getList(t, ts.URL+"/api/products?query=boar")
	if out.Total != 1 || out.Items[0].Name != "Keyboard" {
		t.Errorf("expected substring match on Keyboard, got %+v", out.Items)
	}
}

func TestGetProductsByCategory(t *testing.T) {
	ts := newCatalogServer(t)

	out := getList(t, ts.URL+"/api/products/category/2")
	if out.Total != 1 || out.Items[0].Name != "Monitor" {
		t.Errorf("expected only category 2 products, got %+v", out.Items)
	}
}

func TestGetProduct(t *testing.T) {
	ts := newCatalogServer(t)

	res, err := http.Get(ts.URL + "/api/get/1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer res.Body.Close()
	var view struct {
		Name         string `json:"name"`
		DisplayPrice string `json:"display_price"`
	}
	if err := json.NewDecoder(res.Body).Decode(&view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.Name != "Keyboard" {
		t.Errorf("expected Keyboard, got %q", view.Name)
	}
	if view.DisplayPrice == "" {
		t.Errorf("expected a converted display price")
	}
}

func TestGetProductNotFound(t *testing.T) {
	ts := newCatalogServer(t)

	res, err := http.Get(ts.URL + "/api/get/999")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for unknown product, got %d", res.StatusCode)
	}
}

func TestGetCategories(t *testing.T) {
	ts := newCatalogServer(t)

	res, err := http.Get(ts.URL + "/api/categories")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer res.Body.Close()
	var categories []types.Category
	if err := json.NewDecoder(res.Body).Decode(&categories); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(categories) != 2 || categories[0].Name != "Peripherals" {
		t.Errorf("unexpected categories %+v", categories)
	}
}

func TestGetCategoryNotFound(t *testing.T) {
	ts := newCatalogServer(t)

	res, err := http.Get(ts.URL + "/api/categories/99")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for unknown category, got %d", res.StatusCode)
	}
}

func TestReloadReplacesCatalog(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/products":
			w.Write([]byte(`[{"id":7,"name":"Webcam","price":"35.50","stock":4}]`))
		case "/api/categories":
			w.Write([]byte(`[{"id":1,"name":"Peripherals"}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer upstream.Close()

	cat := catalog.NewCatalog()
	ws := &WebServer{Catalog: cat, Client: catalog.NewClient(upstream.URL)}
	mux := http.NewServeMux()
	ws.Register(mux)
	ts := httptest.NewServer(mux)
	defer ts.Close()

	res, err := http.Post(ts.URL+"/api/reload", "application/json", nil)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	p, ok := cat.Get(7)
	if !ok || p.Price != 35.5 {
		t.Errorf("expected reloaded product with coerced price, got %+v (%v)", p, ok)
	}
}

func TestReloadFailureLeavesCatalogUntouched(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer upstream.Close()

	cat := catalog.NewCatalog()
	cat.SetProducts([]types.Product{{Id: 1, Name: "Keyboard", Price: 50}})
	ws := &WebServer{Catalog: cat, Client: catalog.NewClient(upstream.URL)}
	mux := http.NewServeMux()
	ws.Register(mux)
	ts := httptest.NewServer(mux)
	defer ts.Close()

	res, err := http.Post(ts.URL+"/api/reload", "application/json", nil)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusBadGateway {
		t.Errorf("expected 502 on upstream failure, got %d", res.StatusCode)
	}
	if cat.Len() != 1 {
		t.Errorf("failed reload must not touch the catalog, got %d products", cat.Len())
	}
}
