package catalog

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/devxstore/storefront/pkg/common/jsonutil"
	"github.com/devxstore/storefront/pkg/types"
)

// Client consumes the upstream DevxStore catalog api. No pagination, auth or
// retries, that is the whole contract. Failed fetches are returned to the
// caller and never touch already loaded state.
type Client struct {
	BaseUrl string
	Http    *http.Client
	Cache   *Cache
}

const upstreamCacheTtl = 5 * time.Minute

func NewClient(baseUrl string) *Client {
	return &Client{
		BaseUrl: strings.TrimSuffix(baseUrl, "/"),
		Http:    &http.Client{Timeout: 20 * time.Second},
	}
}

func (c *Client) getJson(ctx context.Context, path string, out any) error {
	if c.Cache != nil {
		if err := c.Cache.Get(ctx, path, out); err == nil {
			return nil
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseUrl+path, nil)
	if err != nil {
		return err
	}
	res, err := c.Http.Do(req)
	if err != nil {
		return fmt.Errorf("upstream %s: %w", path, err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("upstream %s: status %d", path, res.StatusCode)
	}
	if err := jsonutil.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("upstream %s: decode: %w", path, err)
	}
	if c.Cache != nil {
		if err := c.Cache.Set(ctx, path, out, upstreamCacheTtl); err != nil {
			log.Printf("Failed to cache %s: %v", path, err)
		}
	}
	return nil
}

func (c *Client) GetCategories(ctx context.Context) ([]types.Category, error) {
	var categories []types.Category
	if err := c.getJson(ctx, "/api/categories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) GetCategory(ctx context.Context, id uint) (*types.Category, error) {
	var category types.Category
	if err := c.getJson(ctx, fmt.Sprintf("/api/categories/%d", id), &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (c *Client) GetProducts(ctx context.Context) ([]types.Product, error) {
	var products []types.Product
	if err := c.getJson(ctx, "/api/products", &products); err != nil {
		return nil, err
	}
	normalize(products)
	return products, nil
}

func (c *Client) GetProductsByCategory(ctx context.Context, id uint) ([]types.Product, error) {
	var products []types.Product
	if err := c.getJson(ctx, fmt.Sprintf("/api/products/category/%d", id), &products); err != nil {
		return nil, err
	}
	normalize(products)
	return products, nil
}

// normalize stamps the canonical currency on records that lack one. Numeric
// price coercion already happened during decoding (types.Price).
func normalize(products []types.Product) {
	for i := range products {
		if products[i].Currency == "" {
			products[i].Currency = types.DefaultCurrency
		}
	}
}
