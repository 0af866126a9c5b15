package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/devxstore/storefront/pkg/catalog"
	"github.com/devxstore/storefront/pkg/common"
	"github.com/devxstore/storefront/pkg/common/jsonutil"
	"github.com/devxstore/storefront/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	noSearches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_searches_total",
		Help: "The total number of product listing queries",
	})
	noReloads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_catalog_reloads_total",
		Help: "The total number of catalog reloads",
	})
)

// WebServer serves the catalog to the presentation layer. The catalog itself
// is immutable between loads, every listing answer is a derived view.
type WebServer struct {
	Catalog  *catalog.Catalog
	Client   *catalog.Client
	Tracking types.Tracking
}

func (ws *WebServer) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/products", common.JsonHandler(ws.Tracking, ws.GetProducts))
	mux.HandleFunc("POST /api/products", common.JsonHandler(ws.Tracking, ws.GetProducts))
	mux.HandleFunc("GET /api/products/category/{id}", common.JsonHandler(ws.Tracking, ws.GetProductsByCategory))
	mux.HandleFunc("GET /api/get/{id}", common.JsonHandler(ws.Tracking, ws.GetProduct))
	mux.HandleFunc("GET /api/categories", common.JsonHandler(ws.Tracking, ws.GetCategories))
	mux.HandleFunc("GET /api/categories/{id}", common.JsonHandler(ws.Tracking, ws.GetCategory))
	mux.HandleFunc("POST /api/reload", common.JsonHandler(ws.Tracking, ws.Reload))
}

// productView adds the presentation price (MZN conversion) on top of the
// canonical record.
type productView struct {
	types.Product
	DisplayPrice string `json:"display_price"`
}

type productListResponse struct {
	Items      []productView `json:"items"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"pageSize"`
	PriceRange [2]float64    `json:"priceRange"`
}

func present(items []types.Product) []productView {
	views := make([]productView, len(items))
	for i, p := range items {
		views[i] = productView{Product: p, DisplayPrice: types.DisplayPrice(p.Price)}
	}
	return views
}

func (ws *WebServer) listResponse(items []types.Product, q *types.ProductQuery) *productListResponse {
	lo, hi := ws.Catalog.PriceBounds()
	return &productListResponse{
		Items:      present(catalog.Page(items, q.Page, q.PageSize)),
		Total:      len(items),
		Page:       q.Page,
		PageSize:   q.PageSize,
		PriceRange: [2]float64{float64(lo), float64(hi)},
	}
}

func (ws *WebServer) GetProducts(w http.ResponseWriter, r *http.Request, sessionId int, enc jsonutil.Encoder) error {
	q, err := types.GetProductQueryFromRequest(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return err
	}
	go noSearches.Inc()

	items := catalog.ApplyQuery(ws.Catalog.Products(), q)
	if ws.Tracking != nil {
		go ws.Tracking.TrackSearch(sessionId, q, len(items), r)
	}
	w.Header().Set("Content-Type", "application/json")
	return enc.Encode(ws.listResponse(items, q))
}

func (ws *WebServer) GetProductsByCategory(w http.ResponseWriter, r *http.Request, sessionId int, enc jsonutil.Encoder) error {
	categoryId, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || categoryId < 0 {
		w.WriteHeader(http.StatusBadRequest)
		return fmt.Errorf("invalid category id %q", r.PathValue("id"))
	}
	q, err := types.GetProductQueryFromRequest(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return err
	}
	items := catalog.ApplyQuery(ws.Catalog.InCategory(uint(categoryId)), q)
	w.Header().Set("Content-Type", "application/json")
	return enc.Encode(ws.listResponse(items, q))
}

func (ws *WebServer) GetProduct(w http.ResponseWriter, r *http.Request, sessionId int, enc jsonutil.Encoder) error {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id < 0 {
		w.WriteHeader(http.StatusBadRequest)
		return fmt.Errorf("invalid product id %q", r.PathValue("id"))
	}
	p, ok := ws.Catalog.Get(uint(id))
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return nil
	}
	w.Header().Set("Content-Type", "application/json")
	return enc.Encode(productView{Product: p, DisplayPrice: types.DisplayPrice(p.Price)})
}

func (ws *WebServer) GetCategories(w http.ResponseWriter, r *http.Request, sessionId int, enc jsonutil.Encoder) error {
	w.Header().Set("Content-Type", "application/json")
	return enc.Encode(ws.Catalog.Categories())
}

func (ws *WebServer) GetCategory(w http.ResponseWriter, r *http.Request, sessionId int, enc jsonutil.Encoder) error {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id < 0 {
		w.WriteHeader(http.StatusBadRequest)
		return fmt.Errorf("invalid category id %q", r.PathValue("id"))
	}
	category, ok := ws.Catalog.Category(uint(id))
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return nil
	}
	w.Header().Set("Content-Type", "application/json")
	return enc.Encode(category)
}

// Reload re-fetches catalog and categories from upstream. Fetch failures are
// surfaced to the caller and leave the loaded catalog untouched.
func (ws *WebServer) Reload(w http.ResponseWriter, r *http.Request, sessionId int, enc jsonutil.Encoder) error {
	if err := ws.LoadCatalog(r.Context()); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		enc.Encode(map[string]string{"error": err.Error()})
		return err
	}
	noReloads.Inc()
	w.Header().Set("Content-Type", "application/json")
	return enc.Encode(map[string]int{"products": ws.Catalog.Len()})
}

func (ws *WebServer) LoadCatalog(ctx context.Context) error {
	products, err := ws.Client.GetProducts(ctx)
	if err != nil {
		return err
	}
	categories, err := ws.Client.GetCategories(ctx)
	if err != nil {
		return err
	}
	ws.Catalog.SetProducts(products)
	ws.Catalog.SetCategories(categories)
	return nil
}
