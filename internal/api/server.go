// Package api exposes the game over HTTP. Sessions are identified by a
// signed cookie so the browser client never has to thread ids through
// every request.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/qualityslop/backend/internal/config"
	"github.com/qualityslop/backend/internal/events"
	"github.com/qualityslop/backend/internal/game"
	"github.com/qualityslop/backend/internal/llm"
	"github.com/qualityslop/backend/internal/store"
)

// Server wires the HTTP routes to the session store and the game engine.
type Server struct {
	cfg    config.APIConfig
	log    *slog.Logger
	store  *store.Store
	events *events.Catalog
	tutor  *llm.Client
	router chi.Router
}

// New builds a Server with its route table registered.
func New(cfg config.APIConfig, log *slog.Logger, st *store.Store, catalog *events.Catalog, tutor *llm.Client) *Server {
	s := &Server{
		cfg:    cfg,
		log:    log,
		store:  st,
		events: catalog,
		tutor:  tutor,
	}
	s.router = s.routes()
	return s
}

// Handler returns the root http.Handler for the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealthz)

	r.Route("/session", func(r chi.Router) {
		r.Post("/create", s.handleSessionCreate)
		r.Post("/{session_id}/join", s.handleSessionJoin)
		r.Get("/logout", s.handleLogout)
	})

	r.Route("/game", func(r chi.Router) {
		r.Use(s.withPlayer)

		r.Get("/poll", s.handlePoll)
		r.Get("/stock-prices", s.handleStockPrices)
		r.Get("/dividends", s.handleDividends)
		r.Post("/set-monthly-grocery-expense", s.handleSetGroceryBudget)
		r.Post("/set-monthly-leisure-expense", s.handleSetLeisureBudget)
		r.Post("/stock/{symbol}/buy", s.handleBuyStock)
		r.Post("/stock/{symbol}/sell", s.handleSellStock)
		r.Post("/stock/{symbol}/liquidate", s.handleLiquidateStock)

		r.Group(func(r chi.Router) {
			r.Use(s.requireLeader)
			r.Post("/start", s.handleGameStart)
			r.Post("/pause", s.handleGamePause)
			r.Post("/stop", s.handleGameStop)
			r.Post("/set-time-progression-multiplier", s.handleSetMultiplier)
		})
	})

	r.Route("/lifestyle", func(r chi.Router) {
		r.Use(s.withPlayer)
		r.Get("/accommodations", s.handleListAccommodations)
		r.Post("/accommodations/move", s.handleMoveAccommodation)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.withPlayer)
		r.Post("/events/{event_id}/explanation", s.handleExplainEvent)
		r.Post("/explain-text", s.handleExplainText)
	})

	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).String(),
		)
	})
}

// ---- session cookie auth ----

const (
	debugCookieName = "token"
	prodCookieName  = "__Session-token"
)

type sessionClaims struct {
	SessionID string `json:"session_id"`
	Username  string `json:"username"`
	jwt.RegisteredClaims
}

func (s *Server) cookieName() string {
	if s.cfg.Debug {
		return debugCookieName
	}
	return prodCookieName
}

func (s *Server) signToken(sessionID, username string) (string, error) {
	claims := sessionClaims{
		SessionID: sessionID,
		Username:  username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.NewString(),
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *Server) parseToken(raw string) (*sessionClaims, error) {
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims.SessionID == "" || claims.Username == "" {
		return nil, errors.New("token missing session claims")
	}
	return claims, nil
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName(),
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   !s.cfg.Debug,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   !s.cfg.Debug,
		SameSite: http.SameSiteLaxMode,
	})
}

type ctxKey int

const (
	ctxKeySession ctxKey = iota
	ctxKeyPlayer
)

// withPlayer resolves the session cookie to a live player and stores both
// the session and the player on the request context.
func (s *Server) withPlayer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(s.cookieName())
		if err != nil {
			writeError(w, http.StatusUnauthorized, "missing session cookie")
			return
		}
		claims, err := s.parseToken(cookie.Value)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid session token")
			return
		}
		session, err := s.store.Get(claims.SessionID)
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		player, err := session.GetPlayer(claims.Username)
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		ctx := context.WithValue(r.Context(), ctxKeySession, session)
		ctx = context.WithValue(ctx, ctxKeyPlayer, player)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requireLeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !playerFrom(r).IsLeader() {
			writeError(w, http.StatusForbidden, "only the session leader can do that")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func sessionFrom(r *http.Request) *game.Session {
	return r.Context().Value(ctxKeySession).(*game.Session)
}

func playerFrom(r *http.Request) *game.Player {
	return r.Context().Value(ctxKeyPlayer).(*game.Player)
}
