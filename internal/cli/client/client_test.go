package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientDecodesAndReportsErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/agents/":
			w.Write([]byte(`[{"id":"a1","max":100.50}]`))
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/trading/trade/dex":
			var body map[string]any
			json.NewDecoder(r.Body).Decode(&body)
			json.NewEncoder(w).Encode(map[string]any{"trade_id": "dex_" + body["symbol"].(string)})
		case r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"agent x not found"}`))
		}
	}))
	defer srv.Close()

	c := New(srv.URL+"/", 5*time.Second)
	ctx := context.Background()

	var list []map[string]any
	if err := c.Get(ctx, "/api/v1/agents/", &list); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(list) != 1 || list[0]["id"] != "a1" {
		t.Fatalf("list = %v", list)
	}
	if n, ok := list[0]["max"].(json.Number); !ok || n.String() != "100.50" {
		t.Errorf("number literal not preserved: %#v", list[0]["max"])
	}

	var trade map[string]any
	if err := c.Post(ctx, "/api/v1/trading/trade/dex", map[string]any{"symbol": "sol"}, &trade); err != nil {
		t.Fatalf("Post: %v", err)
	}
	if trade["trade_id"] != "dex_sol" {
		t.Errorf("trade = %v", trade)
	}

	if err := c.Delete(ctx, "/api/v1/agents/a1"); err != nil {
		t.Errorf("Delete: %v", err)
	}

	err := c.Get(ctx, "/api/v1/agents/x", nil)
	if err == nil || err.Error() != "http 404: agent x not found" {
		t.Errorf("err = %v", err)
	}
}

func TestWebSocketURL(t *testing.T) {
	cases := map[string]string{
		"http://localhost:8000":  "ws://localhost:8000/api/v1/trading/ws/market-data/dex?symbol=SOL",
		"https://quant.example/": "wss://quant.example/api/v1/trading/ws/market-data/dex?symbol=SOL",
	}
	for base, want := range cases {
		got, err := New(base, time.Second).WebSocketURL("/api/v1/trading/ws/market-data/dex?symbol=SOL")
		if err != nil || got != want {
			t.Errorf("%s: got (%q, %v), want %q", base, got, err, want)
		}
	}
	if _, err := New("ftp://x", time.Second).WebSocketURL("/"); err == nil {
		t.Error("expected error for ftp scheme")
	}
}
