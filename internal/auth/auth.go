package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/hotel-booking-api/internal/config"
	"github.com/gdg-garage/hotel-booking-api/internal/lib/logger/sl"
	"github.com/gdg-garage/hotel-booking-api/internal/models"
	"github.com/gdg-garage/hotel-booking-api/internal/storage"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const (
	DiscordAuthorizeEndpoint = "https://discord.com/api/oauth2/authorize"
	DiscordTokenEndpoint     = "https://discord.com/api/oauth2/token"
	DiscordUserAPI           = "https://discord.com/api/users/@me"
)

const TokenDuration = 24 * time.Hour

const (
	StateCookieName = "oauth_state"
	stateTTL        = 10 * time.Minute
)

type SessionStore interface {
	CreateSession(ctx context.Context, userID uint, token string) (models.Session, error)
	FindSessionByToken(ctx context.Context, token string) (models.Session, error)
	SaveDiscordUser(ctx context.Context, discordID, username, email, avatar string) (models.User, error)
}

type AuthHandler struct {
	oauthConfig *oauth2.Config
	store       SessionStore
	cfg         *config.Config
	log         *slog.Logger
	userAPI     string
}

func NewAuthHandler(cfg *config.Config, store SessionStore, log *slog.Logger) *AuthHandler {
	return &AuthHandler{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.DiscordClientID,
			ClientSecret: cfg.DiscordClientSecret,
			RedirectURL:  cfg.DiscordRedirectURL,
			Scopes:       []string{"identify", "email"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  DiscordAuthorizeEndpoint,
				TokenURL: DiscordTokenEndpoint,
			},
		},
		store:   store,
		cfg:     cfg,
		log:     log,
		userAPI: DiscordUserAPI,
	}
}

func (h *AuthHandler) tokenTTL() time.Duration {
	if h.cfg.TokenTTL > 0 {
		return h.cfg.TokenTTL
	}
	return TokenDuration
}

func (h *AuthHandler) GenerateToken(userID uint) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(h.tokenTTL()).Unix(),
		"jti":     uuid.NewString(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.cfg.JWTSecret))
}

// IssueSession signs a token for the user and records it as a session.
func (h *AuthHandler) IssueSession(ctx context.Context, userID uint) (string, error) {
	token, err := h.GenerateToken(userID)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	if _, err := h.store.CreateSession(ctx, userID, token); err != nil {
		return "", err
	}

	return token, nil
}

// Authorize resolves an Authorization header to a user id. The token must be
// a valid signed JWT and must belong to an existing session.
func (h *AuthHandler) Authorize(ctx context.Context, authorization string) (uint, error) {
	tokenString, ok := strings.CutPrefix(authorization, "Bearer ")
	if !ok || tokenString == "" {
		return 0, huma.Error401Unauthorized("Unauthorized: No token found")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(h.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, huma.Error401Unauthorized("Unauthorized: Invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, huma.Error401Unauthorized("Unauthorized")
	}
	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return 0, huma.Error401Unauthorized("Unauthorized: Invalid token claims")
	}

	session, err := h.store.FindSessionByToken(ctx, tokenString)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			return 0, huma.Error401Unauthorized("Unauthorized: No session")
		}
		h.log.Error("failed to look up session", sl.Err(err))
		return 0, huma.Error500InternalServerError("Failed to look up session")
	}
	if session.UserID != uint(userIDFloat) {
		return 0, huma.Error401Unauthorized("Unauthorized: Invalid token claims")
	}

	return session.UserID, nil
}

// HandleLogin redirects to Discord with a fresh state, which is also kept in
// a short-lived cookie for HandleCallback to compare against.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     StateCookieName,
		Value:    state,
		Path:     "/auth/discord",
		Expires:  time.Now().Add(stateTTL),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	url := h.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOnline)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

func (h *AuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(StateCookieName)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		http.Error(w, "Invalid state", http.StatusBadRequest)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:   StateCookieName,
		Path:   "/auth/discord",
		MaxAge: -1,
	})

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "Code not found", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	token, err := h.oauthConfig.Exchange(ctx, code)
	if err != nil {
		http.Error(w, "Failed to exchange token", http.StatusInternalServerError)
		return
	}

	resp, err := h.oauthConfig.Client(ctx, token).Get(h.userAPI)
	if err != nil {
		http.Error(w, "Failed to get user info", http.StatusInternalServerError)
		return
	}
	defer resp.Body.Close()

	var discordUser struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Avatar   string `json:"avatar"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&discordUser); err != nil {
		http.Error(w, "Failed to decode user info", http.StatusInternalServerError)
		return
	}

	user, err := h.store.SaveDiscordUser(ctx, discordUser.ID, discordUser.Username, discordUser.Email, discordUser.Avatar)
	if err != nil {
		h.log.Error("failed to save user", sl.Err(err))
		http.Error(w, "Failed to save user", http.StatusInternalServerError)
		return
	}

	sessionToken, err := h.IssueSession(ctx, user.ID)
	if err != nil {
		h.log.Error("failed to issue session", sl.Err(err))
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"token": sessionToken, "userId": user.ID})
}
