package common

import (
	"log"
	"net/http"

	"github.com/devxstore/storefront/pkg/common/jsonutil"
	"github.com/devxstore/storefront/pkg/types"
)

// JsonHandler wraps a handler that writes a json response. It answers CORS
// preflight, attaches the session cookie and hands the handler a ready
// encoder. Handler errors are logged, the handler is responsible for the
// status code it writes.
func JsonHandler(trk types.Tracking, fn func(w http.ResponseWriter, r *http.Request, sessionId int, enc jsonutil.Encoder) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == "OPTIONS" {
			RespondToOptions(w, r)
			return
		}
		sessionId := HandleSessionCookie(trk, w, r)

		err := fn(w, r, sessionId, jsonutil.NewEncoder(w))
		if err != nil {
			log.Printf("Error handling request: %v", err)
		}
	}
}

func RespondToOptions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=3600")
	origin := r.Header.Get("Origin")
	if origin != "" {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Max-Age", "86400")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
	}
	w.Header().Set("Age", "0")
	w.WriteHeader(http.StatusAccepted)
}
