package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/41vi4p/MediStock/internal/security"
	"github.com/41vi4p/MediStock/internal/service"
)

// AuthHandler handles registration, login and OAuth sign-in
type AuthHandler struct {
	authService     *service.AuthService
	googleOAuth     *oauth2.Config
	googleInfoURL   string
	redirectBaseURL string
}

// NewAuthHandler creates a new auth handler. googleOAuth may be nil when
// Google sign-in is not configured.
func NewAuthHandler(authService *service.AuthService, googleOAuth *oauth2.Config, redirectBaseURL string) *AuthHandler {
	return &AuthHandler{
		authService:     authService,
		googleOAuth:     googleOAuth,
		googleInfoURL:   "https://www.googleapis.com/oauth2/v2/userinfo",
		redirectBaseURL: redirectBaseURL,
	}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		DisplayName string `json:"displayName"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, err)
		return
	}

	user, err := h.authService.Register(req.Email, req.Password, req.DisplayName)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, newUserView(user))
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, err)
		return
	}

	session, user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		respondWithError(w, err)
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, "session_id", session.ID, session.ExpiresAt))
	respondWithJSON(w, http.StatusOK, newUserView(user))
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie("session_id"); err == nil {
		_ = h.authService.Logout(cookie.Value)
	}
	http.SetCookie(w, security.CreateDeleteCookie(r, "session_id"))
	respondWithJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	respondWithJSON(w, http.StatusOK, newUserView(user))
}

// UpdateTheme handles PUT /api/auth/theme
func (h *AuthHandler) UpdateTheme(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req struct {
		Theme string `json:"theme"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, err)
		return
	}

	if err := h.authService.UpdateTheme(user.ID, req.Theme); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"theme": req.Theme})
}

// IssueToken handles POST /api/auth/token, minting a bearer token for the
// authenticated user
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	token, err := h.authService.IssueAPIToken(user)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"token": token})
}

// StartGoogleOAuth handles GET /auth/google/start
func (h *AuthHandler) StartGoogleOAuth(w http.ResponseWriter, r *http.Request) {
	if h.googleOAuth == nil || h.googleOAuth.ClientID == "" {
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: "oauth_not_configured", Message: "Google sign-in is not configured"})
		return
	}

	state := security.GenerateSessionID()
	h.setTempCookie(w, r, "oauth_state", state, 10*time.Minute)

	config := *h.googleOAuth
	config.RedirectURL = h.oauthRedirectURL(r)

	http.Redirect(w, r, config.AuthCodeURL(state, oauth2.AccessTypeOnline), http.StatusFound)
}

// GoogleOAuthCallback handles GET /auth/google/callback
func (h *AuthHandler) GoogleOAuthCallback(w http.ResponseWriter, r *http.Request) {
	if h.googleOAuth == nil || h.googleOAuth.ClientID == "" {
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: "oauth_not_configured", Message: "Google sign-in is not configured"})
		return
	}

	state := r.URL.Query().Get("state")
	code := r.URL.Query().Get("code")
	stateCookie, err := r.Cookie("oauth_state")
	if code == "" || err != nil || stateCookie.Value == "" || stateCookie.Value != state {
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: "oauth_failed", Message: "invalid OAuth state"})
		return
	}
	h.clearTempCookie(w, r, "oauth_state")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	config := *h.googleOAuth
	config.RedirectURL = h.oauthRedirectURL(r)

	token, err := config.Exchange(ctx, code)
	if err != nil {
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: "oauth_failed", Message: "failed to exchange OAuth code"})
		return
	}

	info, err := h.fetchGoogleUser(ctx, token)
	if err != nil {
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: "oauth_failed", Message: err.Error()})
		return
	}

	session, _, err := h.authService.LoginWithOAuth(info.Email, info.Name, info.Picture)
	if err != nil {
		respondWithError(w, err)
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, "session_id", session.ID, session.ExpiresAt))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type googleUserInfo struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (h *AuthHandler) fetchGoogleUser(ctx context.Context, token *oauth2.Token) (googleUserInfo, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))
	resp, err := client.Get(h.googleInfoURL)
	if err != nil {
		return googleUserInfo{}, fmt.Errorf("failed to fetch Google user info")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return googleUserInfo{}, fmt.Errorf("failed to fetch Google user info")
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return googleUserInfo{}, fmt.Errorf("failed to parse Google user info")
	}
	return info, nil
}

func (h *AuthHandler) oauthRedirectURL(r *http.Request) string {
	baseURL := strings.TrimSpace(h.redirectBaseURL)
	if baseURL == "" {
		scheme := "http"
		if security.IsSecureRequest(r) {
			scheme = "https"
		}
		baseURL = fmt.Sprintf("%s://%s", scheme, r.Host)
	}
	return strings.TrimRight(baseURL, "/") + "/auth/google/callback"
}

func (h *AuthHandler) setTempCookie(w http.ResponseWriter, r *http.Request, name, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   security.IsSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(ttl),
		MaxAge:   int(ttl.Seconds()),
	})
}

func (h *AuthHandler) clearTempCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   security.IsSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
