package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/qualityslop/backend/internal/game"
	"github.com/qualityslop/backend/internal/llm"
	"github.com/qualityslop/backend/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps engine errors onto HTTP statuses so handlers can
// return them unwrapped.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	var (
		notFound *game.PlayerNotFoundError
		dupe     *game.PlayerAlreadyExistsError
		unknown  *game.UnknownSymbolError
		under    *game.UnderflowError
	)
	switch {
	case errors.Is(err, store.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &notFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &unknown):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &dupe):
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &under), errors.Is(err, game.ErrInvalidQuantity):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, game.ErrSessionEnded):
		writeError(w, http.StatusConflict, err.Error())
	default:
		s.log.Error("internal error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ---- sessions ----

type createSessionRequest struct {
	Username string `json:"username"`
}

func (s *Server) handleSessionCreate(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeBody(r, &req); err != nil || req.Username == "" {
		writeError(w, http.StatusBadRequest, "username is required")
		return
	}
	session, err := s.store.Create()
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if _, err := session.AddPlayer(req.Username, true); err != nil {
		s.writeDomainError(w, err)
		return
	}
	token, err := s.signToken(session.ID(), req.Username)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.setSessionCookie(w, token)
	s.log.Info("session created", "session_id", session.ID(), "leader", req.Username)
	writeJSON(w, http.StatusCreated, map[string]string{"session_id": session.ID()})
}

func (s *Server) handleSessionJoin(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeBody(r, &req); err != nil || req.Username == "" {
		writeError(w, http.StatusBadRequest, "username is required")
		return
	}
	session, err := s.store.Get(chi.URLParam(r, "session_id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if _, err := session.AddPlayer(req.Username, false); err != nil {
		s.writeDomainError(w, err)
		return
	}
	token, err := s.signToken(session.ID(), req.Username)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.setSessionCookie(w, token)
	s.log.Info("player joined", "session_id", session.ID(), "username", req.Username)
	writeJSON(w, http.StatusOK, map[string]string{"session_id": session.ID()})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// ---- game control ----

func (s *Server) handleGameStart(w http.ResponseWriter, r *http.Request) {
	sessionFrom(r).Start()
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleGamePause(w http.ResponseWriter, r *http.Request) {
	sessionFrom(r).Pause()
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleGameStop(w http.ResponseWriter, r *http.Request) {
	sessionFrom(r).Stop()
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleSetMultiplier(w http.ResponseWriter, r *http.Request) {
	var multiplier int
	if err := decodeBody(r, &multiplier); err != nil || multiplier < 0 {
		writeError(w, http.StatusBadRequest, "multiplier must be a non-negative integer")
		return
	}
	sessionFrom(r).SetTimeProgressionMultiplier(multiplier)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handlePoll(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, playerFrom(r).Snapshot())
}

func (s *Server) handleStockPrices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionFrom(r).StockPrices())
}

func (s *Server) handleDividends(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionFrom(r).Dividends())
}

// ---- budgets ----

func (s *Server) handleSetGroceryBudget(w http.ResponseWriter, r *http.Request) {
	var amount float64
	if err := decodeBody(r, &amount); err != nil || amount < 0 {
		writeError(w, http.StatusBadRequest, "amount must be non-negative")
		return
	}
	playerFrom(r).SetMonthlyGroceryBudget(amount)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleSetLeisureBudget(w http.ResponseWriter, r *http.Request) {
	var amount float64
	if err := decodeBody(r, &amount); err != nil || amount < 0 {
		writeError(w, http.StatusBadRequest, "amount must be non-negative")
		return
	}
	playerFrom(r).SetMonthlyLeisureBudget(amount)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// ---- trading ----

func (s *Server) handleBuyStock(w http.ResponseWriter, r *http.Request) {
	var quantity int
	if err := decodeBody(r, &quantity); err != nil {
		writeError(w, http.StatusBadRequest, "quantity must be an integer")
		return
	}
	if err := playerFrom(r).BuyStock(chi.URLParam(r, "symbol"), quantity); err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleSellStock(w http.ResponseWriter, r *http.Request) {
	var quantity int
	if err := decodeBody(r, &quantity); err != nil {
		writeError(w, http.StatusBadRequest, "quantity must be an integer")
		return
	}
	if err := playerFrom(r).SellStock(chi.URLParam(r, "symbol"), quantity); err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleLiquidateStock(w http.ResponseWriter, r *http.Request) {
	playerFrom(r).LiquidateStock(chi.URLParam(r, "symbol"))
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// ---- lifestyle ----

func (s *Server) handleListAccommodations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, AccommodationCatalog())
}

type moveAccommodationRequest struct {
	AccommodationID string `json:"accommodation_id"`
}

func (s *Server) handleMoveAccommodation(w http.ResponseWriter, r *http.Request) {
	var req moveAccommodationRequest
	if err := decodeBody(r, &req); err != nil || req.AccommodationID == "" {
		writeError(w, http.StatusBadRequest, "accommodation_id is required")
		return
	}
	option, ok := lookupAccommodation(req.AccommodationID)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown accommodation "+req.AccommodationID)
		return
	}
	playerFrom(r).MoveAccommodation(option.ID, option.Quality, option.Location, option.LivingSpace)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// ---- explanations ----

func (s *Server) handleExplainEvent(w http.ResponseWriter, r *http.Request) {
	if !s.tutor.Enabled() {
		writeError(w, http.StatusServiceUnavailable, "explanations are not configured")
		return
	}
	id, err := strconv.Atoi(chi.URLParam(r, "event_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "event_id must be an integer")
		return
	}
	event, ok := s.events.ByID(id)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown event")
		return
	}
	answer, err := s.tutor.Complete(r.Context(), llm.EventExplanationSystemPrompt, llm.BuildEventPrompt(event))
	if err != nil {
		s.log.Error("event explanation failed", "event_id", id, "error", err)
		writeError(w, http.StatusBadGateway, "explanation service unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"explanation": answer})
}

type explainTextRequest struct {
	Text    string `json:"text"`
	Context string `json:"context"`
}

func (s *Server) handleExplainText(w http.ResponseWriter, r *http.Request) {
	if !s.tutor.Enabled() {
		writeError(w, http.StatusServiceUnavailable, "explanations are not configured")
		return
	}
	var req explainTextRequest
	if err := decodeBody(r, &req); err != nil || req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	answer, err := s.tutor.Complete(r.Context(), llm.TextExplanationSystemPrompt, llm.BuildTextExplanationPrompt(req.Text, req.Context))
	if err != nil {
		s.log.Error("text explanation failed", "error", err)
		writeError(w, http.StatusBadGateway, "explanation service unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"explanation": answer})
}
