package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/mattn/go-isatty"
)

func DefaultFormat() string {
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return "table"
	}
	return "json"
}

// Print writes payload as json, or as a table when the payload's shape is
// known. Unknown shapes fall back to JSON.
func Print(w io.Writer, payload any, format string) error {
	format = strings.TrimSpace(strings.ToLower(format))
	if format == "" {
		format = DefaultFormat()
	}

	switch format {
	case "json":
		return printJSON(w, payload)
	case "table":
		return printTable(w, payload)
	default:
		return errors.New("invalid --format value")
	}
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func printTable(w io.Writer, payload any) error {
	if rows, ok := payload.([]any); ok {
		fmt.Fprintln(w, "ID\tNAME\tSTATUS\tMODE\tNETWORK\tTRADES")
		for _, row := range toObjectSlice(rows) {
			printAgentRow(w, row)
		}
		return nil
	}

	obj, ok := payload.(map[string]any)
	if !ok {
		return printJSON(w, payload)
	}
	switch {
	case hasKey(obj, "strategy"):
		fmt.Fprintln(w, "ID\tNAME\tSTATUS\tMODE\tNETWORK\tTRADES")
		printAgentRow(w, obj)
	case hasKey(obj, "execution_status"):
		fmt.Fprintln(w, "TRADE_ID\tEXECUTION\tFILLED\tPRICE\tTIMESTAMP")
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			str(obj["trade_id"]), str(obj["execution_status"]), str(obj["filled_amount"]),
			str(obj["filled_price"]), str(obj["timestamp"]))
	case hasKey(obj, "trade_id"):
		fmt.Fprintln(w, "TRADE_ID\tMODE\tSTATUS\tPARAMS")
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			str(obj["trade_id"]), str(obj["mode"]), str(obj["status"]), keyValues(obj["params"]))
	case hasKey(obj, "data"):
		data, _ := obj["data"].(map[string]any)
		fmt.Fprintln(w, "MODE\tSYMBOL\tPRICE\tVOLUME\tLIQUIDITY\tVOLATILITY\tMOMENTUM")
		printSnapshotRow(w, str(obj["mode"]), data)
	case hasKey(obj, "analysis"):
		printAnalysis(w, obj)
	case hasKey(obj, "last_updated"):
		fmt.Fprintln(w, "STATUS\tTOTAL\tSUCCESSFUL\tLAST_UPDATED")
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			str(obj["status"]), str(obj["total_trades"]), str(obj["successful_trades"]), str(obj["last_updated"]))
	default:
		return printJSON(w, payload)
	}
	return nil
}

// PrintSnapshot writes one stream frame as a table row, or as a JSON line.
func PrintSnapshot(w io.Writer, frame map[string]any, format string, header bool) error {
	if strings.TrimSpace(strings.ToLower(format)) != "table" {
		b, err := json.Marshal(frame)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	}
	if header {
		fmt.Fprintln(w, "MODE\tSYMBOL\tPRICE\tVOLUME\tLIQUIDITY\tVOLATILITY\tMOMENTUM")
	}
	data, _ := frame["data"].(map[string]any)
	printSnapshotRow(w, str(frame["mode"]), data)
	return nil
}

func printAgentRow(w io.Writer, row map[string]any) {
	strategy, _ := row["strategy"].(map[string]any)
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s/%s\n",
		str(row["id"]), str(row["name"]), str(row["status"]),
		str(strategy["mode"]), str(strategy["network"]),
		str(row["successful_trades"]), str(row["total_trades"]))
}

func printSnapshotRow(w io.Writer, mode string, data map[string]any) {
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
		mode, str(data["symbol"]), str(data["price"]), str(data["volume"]),
		str(data["liquidity"]), str(data["volatility"]), str(data["momentum"]))
}

func printAnalysis(w io.Writer, obj map[string]any) {
	fmt.Fprintf(w, "%s %s\n", str(obj["mode"]), str(obj["symbol"]))
	analysis, _ := obj["analysis"].(map[string]any)
	for _, section := range []string{"entryPoints", "position", "risk", "signals", "execution"} {
		fmt.Fprintf(w, "%s\t%s\n", section, keyValues(analysis[section]))
	}
}

// keyValues renders an object as sorted k=v pairs.
func keyValues(v any) string {
	m, ok := v.(map[string]any)
	if !ok {
		return str(v)
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+str(m[k]))
	}
	return strings.Join(parts, " ")
}

func hasKey(m map[string]any, key string) bool {
	_, ok := m[key]
	return ok
}

func toObjectSlice(in []any) []map[string]any {
	out := make([]map[string]any, 0, len(in))
	for _, item := range in {
		if row, ok := item.(map[string]any); ok {
			out = append(out, row)
		}
	}
	return out
}

func str(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprintf("%v", t)
	}
}
