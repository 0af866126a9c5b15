package types

import (
	"net/http"
)

// Tracking receives behavioural events from the storefront handlers. A nil
// Tracking disables all of it, callers must tolerate that.
type Tracking interface {
	TrackSession(sessionId int, r *http.Request)
	TrackSearch(sessionId int, query *ProductQuery, resultLen int, r *http.Request)
	TrackAddToCart(sessionId int, productId uint, quantity uint)
	TrackFavorite(sessionId int, productId uint, active bool)
	TrackLogin(sessionId int, username string)
	Close() error
}
