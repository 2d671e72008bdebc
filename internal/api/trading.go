package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"quant_trader/internal/errs"
	"quant_trader/internal/models"

	"github.com/gorilla/mux"
)

func (s *Server) handleExecuteTrade(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	// UseNumber keeps numeric literals exactly as sent when params are echoed.
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	var params map[string]any
	if err := dec.Decode(&params); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeServiceError(w, r, errs.Validation("request body too large"))
			return
		}
		writeServiceError(w, r, errs.Validation("trade parameters must be a JSON object: %v", err))
		return
	}
	if params == nil {
		params = map[string]any{}
	}

	res, err := s.trader.Execute(r.Context(), mux.Vars(r)["mode"], params)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleTradeStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.trader.Status(r.Context(), mux.Vars(r)["trade_id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleMarketData(w http.ResponseWriter, r *http.Request) {
	mode := mux.Vars(r)["mode"]
	snap, err := s.trader.MarketData(r.Context(), mode, r.URL.Query().Get("symbol"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	m, _ := models.ParseMode(mode)
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"mode":   m,
		"data":   snap,
	})
}
