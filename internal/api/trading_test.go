package api

import (
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestExecuteTradeEchoesParams(t *testing.T) {
	env := setupTestServer(t)

	payload := `{"symbol":"SOL/USD","amount":1000,"price":100.50,"slippage":0.5}`
	resp := doReq(t, env.server.URL, http.MethodPost, "/api/v1/trading/trade/dex", payload)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("trade status = %d", resp.StatusCode)
	}
	raw, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()

	out := string(raw)
	for _, want := range []string{
		`"status":"success"`,
		`"mode":"dex"`,
		`"trade_id":"dex_sol/usd"`,
		`"price":100.50`,
		`"amount":1000`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("response %s missing %s", out, want)
		}
	}
}

func TestExecuteTradeErrors(t *testing.T) {
	env := setupTestServer(t)

	// invalid mode wins over missing params
	expectError(t, doReq(t, env.server.URL, http.MethodPost, "/api/v1/trading/trade/invalid", `{}`),
		http.StatusBadRequest, "invalid trading mode")

	expectError(t, doReq(t, env.server.URL, http.MethodPost, "/api/v1/trading/trade/dex", `{"symbol":"SOL/USD","amount":1000}`),
		http.StatusBadRequest, "missing required trade parameters")

	expectError(t, doReq(t, env.server.URL, http.MethodPost, "/api/v1/trading/trade/pump", `[1,2]`),
		http.StatusBadRequest, "JSON object")
}

func TestTradeStatus(t *testing.T) {
	env := setupTestServer(t)

	for _, id := range []string{"dex_sol_usd", "dex_sol/usd"} {
		var body map[string]any
		resp := doReq(t, env.server.URL, http.MethodGet, "/api/v1/trading/trade/"+id, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: status = %d", id, resp.StatusCode)
		}
		decodeJSONResp(t, resp, &body)
		if body["trade_id"] != id || body["execution_status"] != "completed" {
			t.Errorf("%s: body = %v", id, body)
		}
		if body["filled_amount"] != "1000" || body["filled_price"] != "100.5" {
			t.Errorf("%s: fill = %v @ %v", id, body["filled_amount"], body["filled_price"])
		}
	}
}

func TestMarketData(t *testing.T) {
	env := setupTestServer(t)

	var body struct {
		Status string         `json:"status"`
		Mode   string         `json:"mode"`
		Data   map[string]any `json:"data"`
	}
	resp := doReq(t, env.server.URL, http.MethodGet, "/api/v1/trading/market-data/dex?symbol=SOL/USD", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("market data status = %d", resp.StatusCode)
	}
	decodeJSONResp(t, resp, &body)
	if body.Status != "success" || body.Mode != "dex" {
		t.Fatalf("envelope = %+v", body)
	}
	for _, key := range []string{"price", "volume", "liquidity"} {
		if _, ok := body.Data[key]; !ok {
			t.Errorf("data missing %q", key)
		}
	}
	if body.Data["symbol"] != "SOL/USD" {
		t.Errorf("symbol = %v", body.Data["symbol"])
	}

	expectError(t, doReq(t, env.server.URL, http.MethodGet, "/api/v1/trading/market-data/cex?symbol=SOL/USD", nil),
		http.StatusBadRequest, "invalid trading mode")
	expectError(t, doReq(t, env.server.URL, http.MethodGet, "/api/v1/trading/market-data/pump", nil),
		http.StatusBadRequest, "symbol is required")
}
