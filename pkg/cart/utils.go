package cart

import (
	"errors"
	"net/http"
)

const cartCookieName = "cartid"

// handleCartCookie resolves the cart id from the cookie. With a nil storage
// no new cart is minted, absence is reported to the caller instead.
func handleCartCookie(storage CartStorage, w http.ResponseWriter, r *http.Request) (string, error) {
	c, err := r.Cookie(cartCookieName)
	if err != nil {
		if storage == nil {
			return "", errors.New("no cart session")
		}
		cartId, err := storage.NewCartId()
		if err != nil {
			return "", err
		}
		http.SetCookie(w, &http.Cookie{
			Name:     cartCookieName,
			Value:    cartId,
			HttpOnly: true,
			Path:     "/",
		})
		return cartId, nil
	}
	return c.Value, nil
}
