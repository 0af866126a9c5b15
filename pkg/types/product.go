package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const DefaultCurrency = "USD"

// Price is the canonical numeric price type. The upstream api is inconsistent
// and returns prices both as json numbers and as quoted strings, so coercion
// happens here, once, at decode time.
type Price float64

func (p *Price) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*p = 0
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		if raw == "" {
			*p = 0
			return nil
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("invalid price %q: %w", raw, err)
		}
		*p = Price(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = Price(v)
	return nil
}

type Category struct {
	Id    uint   `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

type Product struct {
	Id          uint     `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       Price    `json:"price"`
	Currency    string   `json:"currency,omitempty"`
	Stock       int      `json:"stock"`
	CategoryId  uint     `json:"category_id"`
	Images      []string `json:"images,omitempty"`
	Badge       string   `json:"badge,omitempty"`
}

func (p *Product) InStock() bool {
	return p.Stock > 0
}

// MainImage is the image snapshotted onto cart lines, empty when the product
// has no images.
func (p *Product) MainImage() string {
	if len(p.Images) > 0 {
		return p.Images[0]
	}
	return ""
}
