package handlers

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/wonny/aegis-universe/internal/contracts"
	"github.com/wonny/aegis-universe/internal/s1_universe"
	"github.com/wonny/aegis-universe/pkg/logger"
)

// UniverseSource is the read side of the universe job
type UniverseSource interface {
	Current() *contracts.Universe
	LastResult() *s1_universe.CycleResult
}

// UniverseHandler serves the published universe read-only
// ⭐ SSOT: 유니버스 API 핸들러는 이 구조체에서만
type UniverseHandler struct {
	source UniverseSource
	logger *logger.Logger
}

// NewUniverseHandler creates a new universe handler
func NewUniverseHandler(source UniverseSource, log *logger.Logger) *UniverseHandler {
	return &UniverseHandler{
		source: source,
		logger: log,
	}
}

// GetUniverse returns the last published universe
// GET /api/universe
func (h *UniverseHandler) GetUniverse(w http.ResponseWriter, r *http.Request) {
	universe := h.source.Current()
	if universe == nil {
		respondError(w, http.StatusNotFound, "Universe not computed yet")
		return
	}

	respondJSON(w, http.StatusOK, universe)
}

// SymbolStatus is the membership answer for one symbol
type SymbolStatus struct {
	Symbol   string `json:"symbol"`
	Included bool   `json:"included"`
	Rank     int    `json:"rank,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// GetSymbol reports whether a symbol is in the published universe
// GET /api/universe/symbols/{symbol}
func (h *UniverseHandler) GetSymbol(w http.ResponseWriter, r *http.Request) {
	universe := h.source.Current()
	if universe == nil {
		respondError(w, http.StatusNotFound, "Universe not computed yet")
		return
	}

	symbol := strings.ToUpper(mux.Vars(r)["symbol"])
	status := SymbolStatus{Symbol: symbol}

	if universe.Contains(symbol) {
		status.Included = true
		for i, s := range universe.Symbols {
			if s == symbol {
				status.Rank = i + 1
				break
			}
		}
	} else if excluded, reason := universe.IsExcluded(symbol); excluded {
		status.Reason = reason
	}

	respondJSON(w, http.StatusOK, status)
}

// GetLastCycle returns the report of the most recent cycle
// GET /api/universe/cycle
func (h *UniverseHandler) GetLastCycle(w http.ResponseWriter, r *http.Request) {
	result := h.source.LastResult()
	if result == nil {
		respondError(w, http.StatusNotFound, "No cycle has run yet")
		return
	}

	respondJSON(w, http.StatusOK, result)
}
