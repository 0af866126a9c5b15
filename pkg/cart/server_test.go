package cart

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"github.com/devxstore/storefront/pkg/catalog"
	"github.com/devxstore/storefront/pkg/types"
)

func newTestServer(t *testing.T) (*httptest.Server, *http.Client) {
	t.Helper()
	cat := catalog.NewCatalog()
	cat.SetProducts([]types.Product{
		{Id: 1, Name: "Keyboard", Price: 50, Stock: 3, Images: []string{"kb.jpg"}},
		{Id: 2, Name: "Mouse", Price: 20, Stock: 0},
	})
	srv := &CartServer{
		Storage:   NewMemoryCartStorage(),
		Favorites: NewMemoryFavoriteStorage(),
		Catalog:   cat,
	}
	mux := http.NewServeMux()
	srv.Register(mux)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return ts, &http.Client{Jar: jar}
}

func postJson(t *testing.T, client *http.Client, url string, body any) *http.Response {
	t.Helper()
	data, _ := json.Marshal(body)
	res, err := client.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	return res
}

func putJson(t *testing.T, client *http.Client, url string, body any) *http.Response {
	t.Helper()
	data, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPut, url, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	res, err := client.Do(req)
	if err != nil {
		t.Fatalf("put %s: %v", url, err)
	}
	return res
}

func decodeCart(t *testing.T, res *http.Response) *Cart {
	t.Helper()
	defer res.Body.Close()
	var cart Cart
	if err := json.NewDecoder(res.Body).Decode(&cart); err != nil {
		t.Fatalf("decode cart: %v", err)
	}
	return &cart
}

func TestAddToCartTwiceMergesAndTotals(t *testing.T) {
	ts, client := newTestServer(t)

	res := postJson(t, client, ts.URL+"/api/cart", CartInputItem{ItemId: 1})
	res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d", res.StatusCode)
	}
	cart := decodeCart(t, postJson(t, client, ts.URL+"/api/cart", CartInputItem{ItemId: 1}))

	if len(cart.Items) != 1 || cart.Items[0].Quantity != 2 {
		t.Fatalf("expected single merged line with quantity 2, got %+v", cart.Items)
	}
	if cart.TotalPrice != 100 || cart.ItemCount != 2 {
		t.Errorf("expected total 100 and count 2, got %v / %d", cart.TotalPrice, cart.ItemCount)
	}
	if cart.Items[0].Image != "kb.jpg" {
		t.Errorf("expected snapshotted image, got %q", cart.Items[0].Image)
	}
}

func TestAddOutOfStockIsRejected(t *testing.T) {
	ts, client := newTestServer(t)

	res := postJson(t, client, ts.URL+"/api/cart", CartInputItem{ItemId: 2})
	res.Body.Close()
	if res.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 for zero stock product, got %d", res.StatusCode)
	}
}

func TestAddUnknownProduct(t *testing.T) {
	ts, client := newTestServer(t)

	res := postJson(t, client, ts.URL+"/api/cart", CartInputItem{ItemId: 99})
	res.Body.Close()
	if res.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for unknown product, got %d", res.StatusCode)
	}
}

func TestQuantityUpdateClampsToStock(t *testing.T) {
	ts, client := newTestServer(t)
	postJson(t, client, ts.URL+"/api/cart", CartInputItem{ItemId: 1}).Body.Close()

	res := putJson(t, client, ts.URL+"/api/cart", ChangeQuantity{Id: 1, Quantity: 10})
	if res.Header.Get(ClampedHeader) != "true" {
		t.Errorf("expected %s header", ClampedHeader)
	}
	cart := decodeCart(t, res)
	if cart.Items[0].Quantity != 3 {
		t.Errorf("expected quantity clamped to stock 3, got %d", cart.Items[0].Quantity)
	}
}

func TestQuantityZeroRemovesLine(t *testing.T) {
	ts, client := newTestServer(t)
	postJson(t, client, ts.URL+"/api/cart", CartInputItem{ItemId: 1}).Body.Close()

	cart := decodeCart(t, putJson(t, client, ts.URL+"/api/cart", ChangeQuantity{Id: 1, Quantity: 0}))
	if len(cart.Items) != 0 || cart.ItemCount != 0 {
		t.Errorf("expected empty cart after zero update, got %+v", cart)
	}
}

func TestDeleteRemovesLine(t *testing.T) {
	ts, client := newTestServer(t)
	postJson(t, client, ts.URL+"/api/cart", CartInputItem{ItemId: 1}).Body.Close()

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/cart/1", nil)
	res, err := client.Do(req)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	cart := decodeCart(t, res)
	if len(cart.Items) != 0 {
		t.Errorf("expected line removed, got %+v", cart.Items)
	}
}

func TestGetCartWithoutSession(t *testing.T) {
	ts, client := newTestServer(t)

	res, err := client.Get(ts.URL + "/api/cart")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	cart := decodeCart(t, res)
	if cart.ItemCount != 0 || len(cart.Items) != 0 {
		t.Errorf("fresh session should see an empty cart, got %+v", cart)
	}
}

func TestFavoriteToggleRoundTrip(t *testing.T) {
	ts, client := newTestServer(t)

	res := postJson(t, client, ts.URL+"/api/favorites/5", nil)
	var state FavoriteState
	if err := json.NewDecoder(res.Body).Decode(&state); err != nil {
		t.Fatalf("decode: %v", err)
	}
	res.Body.Close()
	if !state.Active {
		t.Errorf("first toggle should activate")
	}

	res = postJson(t, client, ts.URL+"/api/favorites/5", nil)
	if err := json.NewDecoder(res.Body).Decode(&state); err != nil {
		t.Fatalf("decode: %v", err)
	}
	res.Body.Close()
	if state.Active {
		t.Errorf("second toggle should deactivate")
	}

	res, err := client.Get(ts.URL + "/api/favorites")
	if err != nil {
		t.Fatalf("get favorites: %v", err)
	}
	var favorites []uint
	if err := json.NewDecoder(res.Body).Decode(&favorites); err != nil {
		t.Fatalf("decode favorites: %v", err)
	}
	res.Body.Close()
	if len(favorites) != 0 {
		t.Errorf("expected favorites back to original state, got %v", favorites)
	}
}
