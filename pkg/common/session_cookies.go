package common

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/devxstore/storefront/pkg/types"
)

func generateSessionId() int {
	return int(time.Now().UnixNano())
}

func setSessionCookie(w http.ResponseWriter, r *http.Request, session_id int) {
	host := r.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	cookie := &http.Cookie{
		Name:     "sid",
		Value:    fmt.Sprintf("%d", session_id),
		SameSite: http.SameSiteNoneMode,
		HttpOnly: true,
		MaxAge:   2592000,
		Path:     "/",
	}
	// a domain attribute on an IP host is rejected by clients
	if net.ParseIP(host) == nil {
		cookie.Domain = strings.TrimPrefix(host, ".")
	}
	http.SetCookie(w, cookie)
}

// HandleSessionCookie returns the session id from the sid cookie, minting a
// new one (and reporting the fresh session to tracking) when absent.
func HandleSessionCookie(tracking types.Tracking, w http.ResponseWriter, r *http.Request) int {
	session_id := generateSessionId()
	c, err := r.Cookie("sid")
	if err != nil {
		if tracking != nil {
			go tracking.TrackSession(session_id, r)
		}
		setSessionCookie(w, r, session_id)
	} else {
		session_id, err = strconv.Atoi(c.Value)
		if err != nil {
			setSessionCookie(w, r, session_id)
		}
	}
	return session_id
}
