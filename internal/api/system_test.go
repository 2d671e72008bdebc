package api

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"quant_trader/internal/models"

	"github.com/gorilla/websocket"
)

func TestCORSPreflightOptions(t *testing.T) {
	env := setupTestServer(t)

	resp := doReq(t, env.server.URL, http.MethodOptions, "/api/v1/agents/create", nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("allow origin = %q, want %q", got, "*")
	}
	if got := resp.Header.Get("Access-Control-Allow-Methods"); got != "GET, POST, PUT, DELETE, OPTIONS" {
		t.Fatalf("allow methods = %q", got)
	}
}

func TestCORSHeadersIncludedOnNormalGet(t *testing.T) {
	env := setupTestServer(t)

	resp := doReq(t, env.server.URL, http.MethodGet, "/api/v1/agents", nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list returned %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("allow origin = %q, want %q", got, "*")
	}
}

func TestHealth(t *testing.T) {
	env := setupTestServer(t)

	var body struct {
		Status  string `json:"status"`
		Version string `json:"version"`
		Agents  int    `json:"agents"`
	}
	decodeJSONResp(t, doReq(t, env.server.URL, http.MethodGet, "/health", nil), &body)
	if body.Status != "ok" || body.Version != "test" || body.Agents != 0 {
		t.Errorf("health = %+v", body)
	}
}

func TestUnknownRouteAndMethod(t *testing.T) {
	env := setupTestServer(t)

	expectError(t, doReq(t, env.server.URL, http.MethodGet, "/api/v1/nope", nil), http.StatusNotFound, "not found")
	expectError(t, doReq(t, env.server.URL, http.MethodPatch, "/api/v1/agents/create", nil),
		http.StatusMethodNotAllowed, "method not allowed")
}

func TestMarketStream(t *testing.T) {
	env := setupTestServer(t)

	url := "ws" + strings.TrimPrefix(env.server.URL, "http") + "/api/v1/trading/ws/market-data/pump?symbol=BONK"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for i := 0; i < 2; i++ {
		var msg StreamMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
		if msg.Type != "market_data" || msg.Mode != models.ModePump || msg.Data == nil || msg.Data.Symbol != "BONK" {
			t.Fatalf("message %d = %+v", i, msg)
		}
	}
}

func TestMarketStreamRejectsBadRequest(t *testing.T) {
	env := setupTestServer(t)

	base := "ws" + strings.TrimPrefix(env.server.URL, "http") + "/api/v1/trading/ws/market-data/"
	for _, path := range []string{"cex?symbol=BONK", "dex"} {
		_, resp, err := websocket.DefaultDialer.Dial(base+path, nil)
		if err == nil {
			t.Fatalf("%s: expected handshake failure", path)
		}
		if resp == nil || resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 response, got %v", path, resp)
		}
	}
}
