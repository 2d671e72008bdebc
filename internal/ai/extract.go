package ai

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

// Fallbacks used when a field's pattern is not present in the model text.
const (
	DefaultPrice      = 0.0
	DefaultNumber     = 0.0
	DefaultPercentage = 0.0
	DefaultScore      = 5.0
	DefaultSignal     = "Neutral"
	DefaultTimeframe  = "4h"
	DefaultOrderType  = "Market"

	MaxScore             = 10.0
	MaxSlippageTolerance = 5.0
	MinPumpPositionSize  = 100.0
)

// Timeframes and OrderTypes are scanned in order; the first hit wins.
var (
	Timeframes = []string{"1m", "5m", "15m", "30m", "1h", "4h", "1d"}
	OrderTypes = []string{"market", "limit", "stop-limit"}
)

// NumberExtractor pulls the number associated with key out of text.
type NumberExtractor func(text, key string) (float64, error)

// FieldExtractors holds one replaceable strategy per field kind. Every
// extractor must return its documented default when nothing matches.
type FieldExtractors struct {
	Price      NumberExtractor
	Number     NumberExtractor
	Percentage NumberExtractor
	Score      NumberExtractor
	Signal     func(text, key string) string
	Timeframe  func(text string) string
	OrderType  func(text string) string
}

// DefaultExtractors returns the regex based extractors.
func DefaultExtractors() FieldExtractors {
	return FieldExtractors{
		Price:      ExtractPrice,
		Number:     ExtractNumber,
		Percentage: ExtractPercentage,
		Score:      ExtractScore,
		Signal:     ExtractSignal,
		Timeframe:  ExtractTimeframe,
		OrderType:  ExtractOrderType,
	}
}

// withDefaults fills nil fields so callers can override a subset.
func (fx FieldExtractors) withDefaults() FieldExtractors {
	d := DefaultExtractors()
	if fx.Price == nil {
		fx.Price = d.Price
	}
	if fx.Number == nil {
		fx.Number = d.Number
	}
	if fx.Percentage == nil {
		fx.Percentage = d.Percentage
	}
	if fx.Score == nil {
		fx.Score = d.Score
	}
	if fx.Signal == nil {
		fx.Signal = d.Signal
	}
	if fx.Timeframe == nil {
		fx.Timeframe = d.Timeframe
	}
	if fx.OrderType == nil {
		fx.OrderType = d.OrderType
	}
	return fx
}

var patternCache sync.Map // pattern string -> *regexp.Regexp

func keyPattern(key, suffix string) *regexp.Regexp {
	expr := regexp.QuoteMeta(strings.ToLower(key)) + suffix
	if re, ok := patternCache.Load(expr); ok {
		return re.(*regexp.Regexp)
	}
	re := regexp.MustCompile(expr)
	patternCache.Store(expr, re)
	return re
}

func extractFloat(text, key, suffix string, fallback float64) (float64, error) {
	m := keyPattern(key, suffix).FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q for %s: %w", m[1], key, err)
	}
	return v, nil
}

func ExtractPrice(text, key string) (float64, error) {
	return extractFloat(text, key, `.*?(\d+\.?\d*)`, DefaultPrice)
}

func ExtractNumber(text, key string) (float64, error) {
	return extractFloat(text, key, `.*?(\d+\.?\d*)`, DefaultNumber)
}

func ExtractPercentage(text, key string) (float64, error) {
	return extractFloat(text, key, `.*?(\d+\.?\d*)%?`, DefaultPercentage)
}

// ExtractScore reads an "N/10" score and clamps it to [0, 10].
func ExtractScore(text, key string) (float64, error) {
	v, err := extractFloat(text, key, `.*?(\d+\.?\d*)/10`, DefaultScore)
	if err != nil {
		return 0, err
	}
	return min(v, MaxScore), nil
}

// ExtractSignal returns the rest of the line after "<key>...:".
func ExtractSignal(text, key string) string {
	m := keyPattern(key, `.*?:\s*(.*?)(?:\n|$)`).FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return DefaultSignal
	}
	s := strings.TrimSpace(m[1])
	if s == "" {
		return DefaultSignal
	}
	return capitalize(s)
}

func ExtractTimeframe(text string) string {
	lower := strings.ToLower(text)
	for _, tf := range Timeframes {
		if strings.Contains(lower, tf) {
			return tf
		}
	}
	return DefaultTimeframe
}

func ExtractOrderType(text string) string {
	lower := strings.ToLower(text)
	for _, ot := range OrderTypes {
		if strings.Contains(lower, ot) {
			return capitalize(ot)
		}
	}
	return DefaultOrderType
}

// pumpOrderType prefers market orders when the text warns of fast moves.
func pumpOrderType(text string) string {
	lower := strings.ToLower(text)
	if strings.Contains(lower, "high volatility") || strings.Contains(lower, "rapid price movement") {
		return "Market"
	}
	return "Limit"
}

// OverallRisk is the mean of the two scores rounded to one decimal. Rounding
// works on the exact binary value, so 6.55 (stored as 6.5499...) gives 6.5.
func OverallRisk(volatility, liquidity float64) float64 {
	return round1((volatility + liquidity) / 2)
}

func round1(v float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 1, 64), 64)
	if err != nil {
		return v
	}
	return r
}

// SlippageTolerance clamps the extracted percentage to [volatility/2, 5].
func SlippageTolerance(pct, volatility float64) float64 {
	return min(max(pct, volatility/2), MaxSlippageTolerance)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
