package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"quant_trader/internal/errs"
	"quant_trader/internal/market"
	"quant_trader/internal/models"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// StreamMessage is one frame on the market-data websocket.
type StreamMessage struct {
	Type string                 `json:"type"`
	Mode models.TradingMode     `json:"mode"`
	Data *models.MarketSnapshot `json:"data"`
}

func (s *Server) checkOrigin(r *http.Request) bool {
	if s.opts.CORSAllowedOrigin == "*" {
		return true
	}
	origin := r.Header.Get("Origin")
	return origin == "" || origin == s.opts.CORSAllowedOrigin
}

// handleMarketStream validates the request, upgrades and then pushes
// snapshots until the client goes away.
func (s *Server) handleMarketStream(w http.ResponseWriter, r *http.Request) {
	modeParam := mux.Vars(r)["mode"]
	venue, err := s.trader.Venue(modeParam)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	symbol := strings.TrimSpace(r.URL.Query().Get("symbol"))
	if symbol == "" {
		writeServiceError(w, r, errs.Validation("symbol is required"))
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader has already written the error response
		log.Printf("WARN: websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Reader goroutine: the client sends nothing useful, but reading is how a
	// close frame or a dropped connection is noticed.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	mode := venue.Mode()
	log.Printf("INFO: market stream opened for %s/%s", mode, symbol)
	err = market.NewStreamer(venue, s.opts.StreamInterval).Run(ctx, symbol, func(snap *models.MarketSnapshot) error {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(StreamMessage{Type: "market_data", Mode: mode, Data: snap})
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("WARN: market stream for %s/%s ended: %v", mode, symbol, err)
	}
	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	log.Printf("INFO: market stream closed for %s/%s", mode, symbol)
}
