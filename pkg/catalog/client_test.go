package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func upstreamStub() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/products", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		// upstream types price inconsistently, both forms must decode
		w.Write([]byte(`[
			{"id":1,"name":"Keyboard","description":"mechanical","price":"50","stock":3,"category_id":1,"images":["kb.jpg"]},
			{"id":2,"name":"Mouse","description":"wireless","price":20,"stock":0,"category_id":1,"images":[]}
		]`))
	})
	mux.HandleFunc("GET /api/products/category/1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"name":"Keyboard","price":"50","stock":3,"category_id":1}]`))
	})
	mux.HandleFunc("GET /api/categories", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"name":"Peripherals","image":"p.jpg"}]`))
	})
	mux.HandleFunc("GET /api/categories/1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":1,"name":"Peripherals"}`))
	})
	return httptest.NewServer(mux)
}

func TestGetProductsCoercesPrices(t *testing.T) {
	srv := upstreamStub()
	defer srv.Close()

	client := NewClient(srv.URL)
	products, err := client.GetProducts(context.Background())
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	if products[0].Price != 50 || products[1].Price != 20 {
		t.Errorf("price coercion failed: %v %v", products[0].Price, products[1].Price)
	}
	if products[0].Currency != "USD" {
		t.Errorf("expected default currency USD, got %q", products[0].Currency)
	}
}

func TestGetCategories(t *testing.T) {
	srv := upstreamStub()
	defer srv.Close()

	client := NewClient(srv.URL)
	categories, err := client.GetCategories(context.Background())
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(categories) != 1 || categories[0].Name != "Peripherals" {
		t.Errorf("unexpected categories %+v", categories)
	}

	category, err := client.GetCategory(context.Background(), 1)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if category.Id != 1 {
		t.Errorf("unexpected category %+v", category)
	}
}

func TestUpstreamErrorIsSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	if _, err := client.GetProducts(context.Background()); err == nil {
		t.Fatalf("expected error for non-2xx upstream response")
	}
}
