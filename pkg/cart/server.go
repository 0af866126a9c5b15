package cart

import (
	"errors"
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
	cartAdds = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_cart_adds_total",
		Help: "The total number of cart add operations",
	})
	cartRejectedAdds = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_cart_rejected_adds_total",
		Help: "Adds rejected because the product was unknown or out of stock",
	})
	cartQuantityChanges = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_cart_quantity_changes_total",
		Help: "The total number of cart quantity changes",
	})
	cartRemovals = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_cart_removals_total",
		Help: "The total number of cart line removals",
	})
	favoriteToggles = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_favorite_toggles_total",
		Help: "The total number of favorite toggles",
	})
)

// ClampedHeader is set on responses where the requested quantity exceeded
// available stock and was lowered.
const ClampedHeader = "X-Quantity-Clamped"

type CartServer struct {
	Storage   CartStorage
	Favorites FavoriteStorage
	Catalog   *catalog.Catalog
	Tracking  types.Tracking
}

func (s *CartServer) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/cart", s.GetSessionCart)
	mux.HandleFunc("POST /api/cart", s.AddSessionItem)
	mux.HandleFunc("PUT /api/cart", s.ChangeQuantitySessionItem)
	mux.HandleFunc("DELETE /api/cart/{id}", s.RemoveSessionItem)
	mux.HandleFunc("GET /api/favorites", s.GetFavorites)
	mux.HandleFunc("POST /api/favorites/{id}", s.ToggleFavorite)
}

type CartInputItem struct {
	ItemId   uint `json:"id"`
	Quantity uint `json:"quantity"`
}

type ChangeQuantity struct {
	Quantity int  `json:"quantity"`
	Id       uint `json:"id"`
}

// snapshotLine resolves the catalog record and takes the denormalized
// snapshot for the cart line. Zero stock products are rejected here, before
// any cart mutation.
func (s *CartServer) snapshotLine(item *CartInputItem) (*CartLine, error) {
	p, ok := s.Catalog.Get(item.ItemId)
	if !ok {
		return nil, ErrProductNotFound
	}
	if !p.InStock() {
		return nil, ErrOutOfStock
	}
	quantity := item.Quantity
	if quantity == 0 {
		quantity = 1
	}
	return NewLine(&p, quantity), nil
}

func writeCart(w http.ResponseWriter, cart *Cart) {
	w.Header().Set("Content-Type", "application/json")
	if err := jsonutil.NewEncoder(w).Encode(cart); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *CartServer) GetSessionCart(w http.ResponseWriter, r *http.Request) {
	common.HandleSessionCookie(s.Tracking, w, r)
	cartId, err := handleCartCookie(nil, w, r)
	if err != nil {
		// no cart cookie yet, an empty cart is still a valid answer
		writeCart(w, emptyCart(""))
		return
	}
	cart, err := s.Storage.GetCart(cartId)
	if err != nil {
		if errors.Is(err, ErrCartNotFound) {
			writeCart(w, emptyCart(cartId))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Error getting cart"))
		return
	}
	writeCart(w, cart)
}

func (s *CartServer) AddSessionItem(w http.ResponseWriter, r *http.Request) {
	sessionId := common.HandleSessionCookie(s.Tracking, w, r)
	cartId, err := handleCartCookie(s.Storage, w, r)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Unable to create cart session"))
		return
	}
	var item CartInputItem
	if err := jsonutil.NewDecoder(r.Body).Decode(&item); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("Invalid item"))
		return
	}
	line, err := s.snapshotLine(&item)
	if err != nil {
		cartRejectedAdds.Inc()
		if errors.Is(err, ErrOutOfStock) {
			w.WriteHeader(http.StatusConflict)
		} else {
			w.WriteHeader(http.StatusNotFound)
		}
		w.Write([]byte(err.Error()))
		return
	}
	cart, err := s.Storage.AddItem(cartId, line)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Error adding item"))
		return
	}
	cartAdds.Inc()
	writeCart(w, cart)
	if s.Tracking != nil {
		s.Tracking.TrackAddToCart(sessionId, line.ProductId, line.Quantity)
	}
}

func (s *CartServer) ChangeQuantitySessionItem(w http.ResponseWriter, r *http.Request) {
	sessionId := common.HandleSessionCookie(s.Tracking, w, r)
	cartId, err := handleCartCookie(nil, w, r)
	if err != nil {
		writeCart(w, emptyCart(""))
		return
	}
	var item ChangeQuantity
	if err := jsonutil.NewDecoder(r.Body).Decode(&item); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("Invalid item"))
		return
	}

	var cart *Cart
	if item.Quantity <= 0 {
		// negative and zero both mean removal
		cart, err = s.Storage.RemoveItem(cartId, item.Id)
	} else {
		maxStock := -1
		if p, ok := s.Catalog.Get(item.Id); ok {
			maxStock = p.Stock
		}
		var clamped bool
		cart, clamped, err = s.Storage.SetQuantity(cartId, item.Id, uint(item.Quantity), maxStock)
		if clamped {
			w.Header().Set(ClampedHeader, "true")
		}
	}
	if err != nil {
		if errors.Is(err, ErrCartNotFound) {
			writeCart(w, emptyCart(cartId))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Error changing quantity"))
		return
	}
	cartQuantityChanges.Inc()
	writeCart(w, cart)
	if s.Tracking != nil {
		s.Tracking.TrackAddToCart(sessionId, item.Id, uint(max(item.Quantity, 0)))
	}
}

func (s *CartServer) RemoveSessionItem(w http.ResponseWriter, r *http.Request) {
	sessionId := common.HandleSessionCookie(s.Tracking, w, r)
	cartId, err := handleCartCookie(nil, w, r)
	if err != nil {
		writeCart(w, emptyCart(""))
		return
	}
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id < 0 {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("Invalid item id"))
		return
	}
	cart, err := s.Storage.RemoveItem(cartId, uint(id))
	if err != nil {
		if errors.Is(err, ErrCartNotFound) {
			writeCart(w, emptyCart(cartId))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Error removing item"))
		return
	}
	cartRemovals.Inc()
	writeCart(w, cart)
	if s.Tracking != nil {
		s.Tracking.TrackAddToCart(sessionId, uint(id), 0)
	}
}

type FavoriteState struct {
	Id     uint `json:"id"`
	Active bool `json:"active"`
}

func (s *CartServer) GetFavorites(w http.ResponseWriter, r *http.Request) {
	sessionId := common.HandleSessionCookie(s.Tracking, w, r)
	favorites, err := s.Favorites.GetFavorites(sessionId)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Error getting favorites"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := jsonutil.NewEncoder(w).Encode(favorites); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *CartServer) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	sessionId := common.HandleSessionCookie(s.Tracking, w, r)
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id < 0 {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("Invalid product id"))
		return
	}
	active, err := s.Favorites.ToggleFavorite(sessionId, uint(id))
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Error toggling favorite"))
		return
	}
	favoriteToggles.Inc()
	w.Header().Set("Content-Type", "application/json")
	if err := jsonutil.NewEncoder(w).Encode(FavoriteState{Id: uint(id), Active: active}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
	if s.Tracking != nil {
		s.Tracking.TrackFavorite(sessionId, uint(id), active)
	}
}
