package server

import (
	"net/http"
	"time"

	"github.com/devxstore/storefront/pkg/common"
	"github.com/devxstore/storefront/pkg/common/jsonutil"
	"github.com/devxstore/storefront/pkg/types"
	"github.com/golang-jwt/jwt/v4"
)

const sessionCookieName = "dx-session"

// SessionAuth turns submitted login/registration form values into a signed
// session cookie. There is no credential verification, the storefront only
// forwards what the user typed into a display session.
type SessionAuth struct {
	serverKey []byte
	Tracking  types.Tracking
}

func NewSessionAuth(key []byte, trk types.Tracking) *SessionAuth {
	return &SessionAuth{serverKey: key, Tracking: trk}
}

func (a *SessionAuth) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/login", a.Login)
	mux.HandleFunc("POST /api/auth/register", a.RegisterUser)
	mux.HandleFunc("GET /api/auth/user", a.User)
	mux.HandleFunc("POST /api/auth/logout", a.Logout)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type SessionUser struct {
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
}

func (a *SessionAuth) createToken(username, name string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256,
		jwt.MapClaims{
			"username": username,
			"name":     name,
			"exp":      time.Now().Add(time.Hour * 24).Unix(),
		})
	return token.SignedString(a.serverKey)
}

func (a *SessionAuth) setSession(w http.ResponseWriter, username, name string) error {
	token, err := a.createToken(username, name)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(time.Hour * 24),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	return nil
}

func (a *SessionAuth) Login(w http.ResponseWriter, r *http.Request) {
	sessionId := common.HandleSessionCookie(a.Tracking, w, r)
	var req LoginRequest
	if err := jsonutil.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("Invalid login form"))
		return
	}
	if err := a.setSession(w, req.Email, ""); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	jsonutil.NewEncoder(w).Encode(SessionUser{Username: req.Email})
	if a.Tracking != nil {
		a.Tracking.TrackLogin(sessionId, req.Email)
	}
}

func (a *SessionAuth) RegisterUser(w http.ResponseWriter, r *http.Request) {
	sessionId := common.HandleSessionCookie(a.Tracking, w, r)
	var req RegisterRequest
	if err := jsonutil.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Name == "" {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("Invalid registration form"))
		return
	}
	if err := a.setSession(w, req.Email, req.Name); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	jsonutil.NewEncoder(w).Encode(SessionUser{Username: req.Email, Name: req.Name})
	if a.Tracking != nil {
		a.Tracking.TrackLogin(sessionId, req.Email)
	}
}

func (a *SessionAuth) parseToken(tokenString string) (*SessionUser, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return a.serverKey, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	user := &SessionUser{}
	if v, ok := claims["username"].(string); ok {
		user.Username = v
	}
	if v, ok := claims["name"].(string); ok {
		user.Name = v
	}
	return user, nil
}

func (a *SessionAuth) User(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	user, err := a.parseToken(cookie.Value)
	if err != nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	jsonutil.NewEncoder(w).Encode(user)
}

func (a *SessionAuth) Logout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:   sessionCookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	w.WriteHeader(http.StatusOK)
}
