package cart

import (
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"
)

type CartStorage interface {
	NewCartId() (string, error)
	GetCart(cartId string) (*Cart, error)
	// AddItem merges the line into the cart, creating the cart if needed.
	// An existing line for the same product keeps its snapshot and only has
	// its quantity incremented.
	AddItem(cartId string, line *CartLine) (*Cart, error)
	// SetQuantity replaces the quantity of an existing line verbatim,
	// clamped to maxStock when maxStock >= 0. The bool result reports
	// whether clamping happened. An unknown product id is a no-op.
	SetQuantity(cartId string, productId uint, quantity uint, maxStock int) (*Cart, bool, error)
	RemoveItem(cartId string, productId uint) (*Cart, error)
}

type FavoriteStorage interface {
	GetFavorites(sessionId int) ([]uint, error)
	// ToggleFavorite flips membership and returns the new state.
	ToggleFavorite(sessionId int, productId uint) (bool, error)
}

// MemoryCartStorage keeps carts for the lifetime of the process. There is
// deliberately no persistence, carts die with the session.
type MemoryCartStorage struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

func NewMemoryCartStorage() *MemoryCartStorage {
	return &MemoryCartStorage{carts: map[string]*Cart{}}
}

func (s *MemoryCartStorage) NewCartId() (string, error) {
	return uuid.NewString(), nil
}

// snapshot returns a copy so callers never observe later mutations. Every
// mutation is a full collection replacement from the outside.
func snapshot(cart *Cart) *Cart {
	copied := *cart
	copied.Items = slices.Clone(cart.Items)
	return &copied
}

func (s *MemoryCartStorage) GetCart(cartId string) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart, ok := s.carts[cartId]
	if !ok {
		return nil, ErrCartNotFound
	}
	return snapshot(cart), nil
}

func (s *MemoryCartStorage) AddItem(cartId string, line *CartLine) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart, ok := s.carts[cartId]
	if !ok {
		cart = emptyCart(cartId)
		s.carts[cartId] = cart
	}
	merged := false
	for i := range cart.Items {
		if cart.Items[i].ProductId == line.ProductId {
			cart.Items[i].Quantity += line.Quantity
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, *line)
	}
	cart.recalculate()
	return snapshot(cart), nil
}

func (s *MemoryCartStorage) SetQuantity(cartId string, productId uint, quantity uint, maxStock int) (*Cart, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart, ok := s.carts[cartId]
	if !ok {
		return nil, false, ErrCartNotFound
	}
	clamped := false
	if maxStock >= 0 && quantity > uint(maxStock) {
		quantity = uint(maxStock)
		clamped = true
	}
	for i := range cart.Items {
		if cart.Items[i].ProductId != productId {
			continue
		}
		if quantity == 0 {
			// zero is represented by absence, never stored
			cart.Items = slices.Delete(cart.Items, i, i+1)
		} else {
			cart.Items[i].Quantity = quantity
		}
		cart.recalculate()
		break
	}
	return snapshot(cart), clamped, nil
}

func (s *MemoryCartStorage) RemoveItem(cartId string, productId uint) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart, ok := s.carts[cartId]
	if !ok {
		return nil, ErrCartNotFound
	}
	for i := range cart.Items {
		if cart.Items[i].ProductId == productId {
			cart.Items = slices.Delete(cart.Items, i, i+1)
			cart.recalculate()
			break
		}
	}
	return snapshot(cart), nil
}

// MemoryFavoriteStorage keeps the favorite sets per session. Same lifecycle
// as the carts, toggled membership only.
type MemoryFavoriteStorage struct {
	mu   sync.Mutex
	sets map[int]map[uint]struct{}
}

func NewMemoryFavoriteStorage() *MemoryFavoriteStorage {
	return &MemoryFavoriteStorage{sets: map[int]map[uint]struct{}{}}
}

func (s *MemoryFavoriteStorage) GetFavorites(sessionId int) ([]uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.sets[sessionId]
	if !ok {
		return []uint{}, nil
	}
	return slices.Sorted(maps.Keys(set)), nil
}

func (s *MemoryFavoriteStorage) ToggleFavorite(sessionId int, productId uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.sets[sessionId]
	if !ok {
		set = map[uint]struct{}{}
		s.sets[sessionId] = set
	}
	if _, found := set[productId]; found {
		delete(set, productId)
		return false, nil
	}
	set[productId] = struct{}{}
	return true, nil
}
