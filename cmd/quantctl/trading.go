package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"quant_trader/internal/cli/output"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

func analyzeCmd() *cobra.Command {
	var (
		mode, symbol, timeframe                        string
		price, volume, volatility, momentum, liquidity float64
		showPrompt                                     bool
	)
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Request an AI analysis for a symbol",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{
				"mode":      mode,
				"symbol":    symbol,
				"timeframe": timeframe,
				"metrics": map[string]any{
					"price":      price,
					"volume":     volume,
					"volatility": volatility,
					"momentum":   momentum,
					"liquidity":  liquidity,
				},
			}
			path := "/api/v1/ai/analyze"
			if showPrompt {
				path = "/api/v1/prompts/generate"
			}

			var res map[string]any
			if err := apiClient().Post(cmd.Context(), path, body, &res); err != nil {
				return err
			}
			if showPrompt {
				fmt.Fprintln(cmd.OutOrStdout(), res["prompt"])
				delete(res, "prompt")
			}
			return emit(cmd, res)
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "dex", "Trading mode: dex or pump")
	cmd.Flags().StringVar(&symbol, "symbol", "", "Symbol to analyze, e.g. SOL/USDC")
	cmd.Flags().StringVar(&timeframe, "timeframe", "1h", "Timeframe hint")
	cmd.Flags().Float64Var(&price, "price", 0, "Current price")
	cmd.Flags().Float64Var(&volume, "volume", 0, "24h volume")
	cmd.Flags().Float64Var(&volatility, "volatility", 0, "Volatility index")
	cmd.Flags().Float64Var(&momentum, "momentum", 0, "Momentum score")
	cmd.Flags().Float64Var(&liquidity, "liquidity", 0, "Liquidity depth")
	cmd.Flags().BoolVar(&showPrompt, "show-prompt", false, "Also print the rendered prompt")
	_ = cmd.MarkFlagRequired("symbol")
	return cmd
}

// numberFlag validates a numeric flag but keeps its literal for the request.
func numberFlag(name, value string) (json.Number, error) {
	if _, err := strconv.ParseFloat(value, 64); err != nil {
		return "", fmt.Errorf("--%s must be a number, got %q", name, value)
	}
	return json.Number(value), nil
}

func tradeCmd() *cobra.Command {
	var symbol, amount, price, slippage string
	cmd := &cobra.Command{
		Use:   "trade <mode>",
		Short: "Place a mock trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := map[string]any{"symbol": symbol}
			for _, f := range []struct {
				name, value string
			}{{"amount", amount}, {"price", price}, {"slippage", slippage}} {
				n, err := numberFlag(f.name, f.value)
				if err != nil {
					return err
				}
				params[f.name] = n
			}

			var res map[string]any
			if err := apiClient().Post(cmd.Context(), "/api/v1/trading/trade/"+url.PathEscape(args[0]), params, &res); err != nil {
				return err
			}
			return emit(cmd, res)
		},
	}
	cmd.Flags().StringVar(&symbol, "symbol", "", "Symbol to trade")
	cmd.Flags().StringVar(&amount, "amount", "", "Order amount")
	cmd.Flags().StringVar(&price, "price", "", "Limit price")
	cmd.Flags().StringVar(&slippage, "slippage", "0.5", "Slippage tolerance percent")
	for _, name := range []string{"symbol", "amount", "price"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func tradeStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trade-status <trade_id>",
		Short: "Show the execution status of a trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var st map[string]any
			// trade ids may contain '/', which the route accepts as-is
			if err := apiClient().Get(cmd.Context(), "/api/v1/trading/trade/"+args[0], &st); err != nil {
				return err
			}
			return emit(cmd, st)
		},
	}
}

func marketCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "market <mode> <symbol>",
		Short: "Show a market snapshot",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var snap map[string]any
			path := "/api/v1/trading/market-data/" + url.PathEscape(args[0]) + "?symbol=" + url.QueryEscape(args[1])
			if err := apiClient().Get(cmd.Context(), path, &snap); err != nil {
				return err
			}
			return emit(cmd, snap)
		},
	}
}

func watchCmd() *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "watch <mode> <symbol>",
		Short: "Stream market snapshots over a websocket",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			wsURL, err := apiClient().WebSocketURL("/api/v1/trading/ws/market-data/" +
				url.PathEscape(args[0]) + "?symbol=" + url.QueryEscape(args[1]))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
			if err != nil {
				if resp != nil {
					return fmt.Errorf("websocket handshake failed: http %d", resp.StatusCode)
				}
				return err
			}
			defer conn.Close()

			go func() {
				<-ctx.Done()
				conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
				conn.Close()
			}()

			for i := 0; count <= 0 || i < count; i++ {
				var frame map[string]any
				if err := conn.ReadJSON(&frame); err != nil {
					if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure) {
						return nil
					}
					return err
				}
				if err := output.PrintSnapshot(cmd.OutOrStdout(), frame, format, i == 0); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "count", 0, "Stop after N snapshots (0 streams until interrupted)")
	return cmd
}
